package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier is the common interface for DB, Session and Tx.
// Query factories accept this so that queries work with all three.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	dialect() Dialect
}

// DialectOf returns the Dialect a Querier was created with.
func DialectOf(q Querier) Dialect { return q.dialect() }

// Logger is the interface for query logging.
type Logger interface {
	Log(ctx context.Context, query string, args ...any)
}

// DB wraps *sql.DB with a Dialect and satisfies Querier.
type DB struct {
	raw    *sql.DB
	d      Dialect
	logger Logger
}

// New wraps a *sql.DB with the given Dialect.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{raw: db, d: d}
}

// Connect opens a database handle for driverName/dsn and verifies it is
// reachable. The handle is closed again if the ping fails.
func Connect(ctx context.Context, driverName, dsn string, d Dialect) (*DB, error) {
	raw, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("orm: open %s: %w", driverName, err)
	}
	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("orm: ping %s: %w", driverName, err)
	}
	return New(raw, d), nil
}

// Debug returns a new *DB that logs every query using the given Logger.
// The original DB is not modified.
func (db *DB) Debug(l Logger) *DB {
	return &DB{raw: db.raw, d: db.d, logger: l}
}

// Raw returns the underlying *sql.DB, for pool tuning.
func (db *DB) Raw() *sql.DB { return db.raw }

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if db.logger != nil {
		db.logger.Log(ctx, query, args...)
	}
	return db.raw.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if db.logger != nil {
		db.logger.Log(ctx, query, args...)
	}
	return db.raw.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck // thin wrapper
	}
	return &Tx{raw: tx, d: db.d, logger: db.logger}, nil
}

// Transaction executes fn within a transaction.
// If fn returns nil the transaction is committed.
// If fn returns an error or panics the transaction is rolled back.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	return runInTx(ctx, db.Begin, fn)
}

// Session pins a single connection for the duration of fn. The connection
// goes back to the pool when fn returns, errors or panics.
func (db *DB) Session(ctx context.Context, fn func(s *Session) error) (err error) {
	conn, err := db.raw.Conn(ctx)
	if err != nil {
		return err //nolint:wrapcheck // thin wrapper
	}
	s := &Session{raw: conn, d: db.d, logger: db.logger}
	defer func() {
		cerr := s.close()
		if p := recover(); p != nil {
			panic(p)
		}
		if cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s)
}

// Close closes the underlying *sql.DB.
func (db *DB) Close() error { return db.raw.Close() } //nolint:wrapcheck // thin wrapper

func (db *DB) dialect() Dialect { return db.d }

// Session is a DB connection scoped to a single DB.Session call.
// It must not be retained after that call returns.
type Session struct {
	raw    *sql.Conn
	d      Dialect
	logger Logger
	closed bool
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.logger != nil {
		s.logger.Log(ctx, query, args...)
	}
	return s.raw.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.logger != nil {
		s.logger.Log(ctx, query, args...)
	}
	return s.raw.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Begin starts a transaction on the session's connection.
func (s *Session) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck // thin wrapper
	}
	return &Tx{raw: tx, d: s.d, logger: s.logger}, nil
}

// Transaction executes fn within a transaction on the session's connection.
func (s *Session) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	return runInTx(ctx, s.Begin, fn)
}

// Closed reports whether the session's connection has been released.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.raw.Close() //nolint:wrapcheck // thin wrapper
}

func (s *Session) dialect() Dialect { return s.d }

// Tx wraps *sql.Tx with a Dialect and satisfies Querier.
type Tx struct {
	raw    *sql.Tx
	d      Dialect
	logger Logger
}

func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx.logger != nil {
		tx.logger.Log(ctx, query, args...)
	}
	return tx.raw.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx.logger != nil {
		tx.logger.Log(ctx, query, args...)
	}
	return tx.raw.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Commit commits the transaction.
func (tx *Tx) Commit() error { return tx.raw.Commit() } //nolint:wrapcheck // thin wrapper

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error { return tx.raw.Rollback() } //nolint:wrapcheck // thin wrapper

func (tx *Tx) dialect() Dialect { return tx.d }

func runInTx(ctx context.Context, begin func(context.Context) (*Tx, error), fn func(tx *Tx) error) (err error) {
	tx, err := begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	err = fn(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}
