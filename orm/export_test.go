package orm

import (
	"context"
	"database/sql"
	"errors"
)

var errRecorderNoRows = errors.New("recorder: no rows")

// Recorder is a Querier that captures statements instead of running them.
// QueryContext always fails, so terminal methods stop right after the
// statement is recorded.
type Recorder struct {
	D          Dialect
	Statements []Statement
	NextID     int64
}

// Statement is one captured SQL string and its args.
type Statement struct {
	SQL  string
	Args []any
}

// NewRecorder creates a Recorder for the given Dialect.
func NewRecorder(d Dialect) *Recorder {
	return &Recorder{D: d}
}

func (r *Recorder) QueryContext(_ context.Context, query string, args ...any) (*sql.Rows, error) {
	r.Statements = append(r.Statements, Statement{query, args})
	return nil, errRecorderNoRows
}

func (r *Recorder) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	r.Statements = append(r.Statements, Statement{query, args})
	return recordedResult{id: r.NextID}, nil
}

var _ Querier = (*Recorder)(nil)

// Last returns the most recently captured statement, or panics if empty.
func (r *Recorder) Last() Statement {
	return r.Statements[len(r.Statements)-1]
}

func (r *Recorder) dialect() Dialect { return r.D }

type recordedResult struct{ id int64 }

func (res recordedResult) LastInsertId() (int64, error) { return res.id, nil }
func (recordedResult) RowsAffected() (int64, error)     { return 1, nil }
