// Package schema holds the DDL for the hero and team tables. It is used to
// prepare demo and test databases; the query paths never create tables.
package schema

import (
	"context"
	"fmt"

	"github.com/mickamy/heroes/orm"
)

var statements = map[string][]string{
	"mysql": {
		`CREATE TABLE IF NOT EXISTS team (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hero (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sec_name VARCHAR(255) NOT NULL,
			age INT NULL,
			team_id INT NULL,
			FOREIGN KEY (team_id) REFERENCES team (id)
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS team (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hero (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sec_name VARCHAR(255) NOT NULL,
			age INTEGER NULL,
			team_id INTEGER NULL REFERENCES team (id)
		)`,
	},
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS team (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hero (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			sec_name TEXT NOT NULL,
			age INTEGER NULL,
			team_id INTEGER NULL REFERENCES team (id)
		)`,
	},
}

// Statements returns the CREATE TABLE statements for d, team first.
func Statements(d orm.Dialect) ([]string, error) {
	stmts, ok := statements[d.Name()]
	if !ok {
		return nil, fmt.Errorf("schema: no DDL for dialect %q", d.Name())
	}
	return stmts, nil
}

// Create creates the hero and team tables if they do not exist yet.
func Create(ctx context.Context, q orm.Querier) error {
	stmts, err := Statements(orm.DialectOf(q))
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: create: %w", err)
		}
	}
	return nil
}
