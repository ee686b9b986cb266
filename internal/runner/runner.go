// Package runner connects to the configured database, runs one read query
// inside a scoped session and prints the rows.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mickamy/heroes/internal/config"
	"github.com/mickamy/heroes/internal/fixture"
	"github.com/mickamy/heroes/internal/logging"
	"github.com/mickamy/heroes/internal/output"
	"github.com/mickamy/heroes/orm"
	"github.com/mickamy/heroes/repo"
	"github.com/mickamy/heroes/scope"

	// Drivers reachable through database URLs.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Variant selects the query Run executes.
type Variant string

const (
	// Join left-joins hero to team and prints (hero, team-or-None) pairs.
	Join Variant = "join"
	// In prints the heroes whose id is in the configured id set.
	In Variant = "in"
	// Navigate is Join with team -> heroes back-navigation loaded.
	Navigate Variant = "navigate"
)

var (
	ErrUnknownVariant = errors.New("runner: unknown variant")
	// ErrMemoryDatabase is returned by Run for in-memory SQLite URLs: every
	// connect starts from an empty database, so there is nothing to read.
	ErrMemoryDatabase = errors.New("runner: in-memory database cannot be queried")
	ErrOffsetNoLimit  = errors.New("runner: offset requires a limit")
)

type Runner struct {
	cfg    config.Config
	out    io.Writer
	logger zerolog.Logger
}

func New(cfg config.Config, out io.Writer, logger zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, out: out, logger: logger}
}

func open(ctx context.Context, t config.Target) (*orm.DB, error) {
	db, err := orm.Connect(ctx, t.Driver, t.DSN, t.Dialect)
	if err != nil {
		return nil, err //nolint:wrapcheck // already prefixed by orm
	}
	if t.Memory {
		db.Raw().SetMaxOpenConns(1)
		db.Raw().SetMaxIdleConns(1)
	}
	return db, nil
}

// Run executes exactly one query variant and prints its rows. The
// connection is closed and the session released on every return path.
func (r *Runner) Run(ctx context.Context, v Variant) error {
	switch v {
	case Join, In, Navigate:
	default:
		return fmt.Errorf("%w %q", ErrUnknownVariant, v)
	}
	format, err := output.ParseFormat(r.cfg.Output.Format)
	if err != nil {
		return err
	}
	page, err := r.page()
	if err != nil {
		return err
	}
	target, err := config.ParseURL(r.cfg.Database.URL)
	if err != nil {
		return err
	}
	if target.Memory {
		return fmt.Errorf("%w: %s", ErrMemoryDatabase, target.Redacted)
	}
	printer := output.New(r.out, format)

	return r.withSession(ctx, target, func(s *orm.Session) error {
		heroes := repo.NewHeroRepository(s)
		switch v {
		case Join:
			pairs, err := heroes.WithTeams(ctx, page...)
			if err != nil {
				return fmt.Errorf("left join: %w", err)
			}
			r.logger.Debug().Int("rows", len(pairs)).Msg("left join done")
			return output.Rows(printer, pairs)
		case In:
			found, err := heroes.FindByIDs(ctx, r.cfg.Query.IDs, page...)
			if err != nil {
				return fmt.Errorf("find by ids: %w", err)
			}
			r.logger.Debug().Ints("ids", r.cfg.Query.IDs).Int("rows", len(found)).Msg("in filter done")
			return output.Rows(printer, found)
		default:
			navigated, err := heroes.WithNavigation(ctx, page...)
			if err != nil {
				return fmt.Errorf("navigate: %w", err)
			}
			r.logger.Debug().Int("rows", len(navigated)).Msg("navigation done")
			return output.Rows(printer, repo.Pairs(navigated))
		}
	})
}

// page turns query.limit and query.offset into scopes. Zero means unset.
func (r *Runner) page() (scope.Scopes, error) {
	q := r.cfg.Query
	if q.Limit < 0 || q.Offset < 0 {
		return nil, fmt.Errorf("runner: negative limit %d or offset %d", q.Limit, q.Offset)
	}
	var page scope.Scopes
	if q.Limit == 0 {
		if q.Offset > 0 {
			return nil, ErrOffsetNoLimit
		}
		return page, nil
	}
	page = page.Append(scope.Limit(q.Limit))
	if q.Offset > 0 {
		page = page.Append(scope.Offset(q.Offset))
	}
	return page, nil
}

// Seed creates the tables if missing and upserts the demo rows in one
// transaction.
func (r *Runner) Seed(ctx context.Context) error {
	target, err := config.ParseURL(r.cfg.Database.URL)
	if err != nil {
		return err
	}
	if target.Memory {
		r.logger.Warn().Msg("seeding an in-memory database; the rows are gone once it closes")
	}
	return r.withSession(ctx, target, func(s *orm.Session) error {
		if err := s.Transaction(ctx, func(tx *orm.Tx) error {
			return fixture.Seed(ctx, tx)
		}); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		teams, err := repo.NewTeamRepository(s).Count(ctx)
		if err != nil {
			return fmt.Errorf("count teams: %w", err)
		}
		heroes, err := repo.NewHeroRepository(s).Count(ctx)
		if err != nil {
			return fmt.Errorf("count heroes: %w", err)
		}
		r.logger.Info().Int64("teams", teams).Int64("heroes", heroes).Msg("seeded")
		return nil
	})
}

func (r *Runner) withSession(ctx context.Context, target config.Target, fn func(s *orm.Session) error) (err error) {
	r.logger.Debug().Str("url", target.Redacted).Str("driver", target.Driver).Msg("connecting")

	db, err := open(ctx, target)
	if err != nil {
		return fmt.Errorf("connect %s: %w", target.Redacted, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", cerr))
		}
	}()
	if r.cfg.Log.Queries {
		db = db.Debug(logging.QueryLogger{Logger: r.logger})
	}
	return db.Session(ctx, fn)
}
