package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/heroes/internal/logging"
)

func TestNewLevel(t *testing.T) {
	t.Parallel()

	logger, err := logging.New(&bytes.Buffer{}, "warn")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger, err = logging.New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestQueryLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logging.QueryLogger{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}
	l.Log(t.Context(), "SELECT 1 WHERE id = ?", 31)

	assert.JSONEq(t, `{"level":"debug","sql":"SELECT 1 WHERE id = ?","args":1,"message":"query"}`, buf.String())
}
