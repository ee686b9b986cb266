// Package fixture seeds the demo data set: one team, one hero on it and one
// hero without a team.
package fixture

import (
	"context"
	"fmt"

	"github.com/mickamy/heroes/internal/schema"
	"github.com/mickamy/heroes/model"
	"github.com/mickamy/heroes/orm"
	"github.com/mickamy/heroes/repo"
)

// Teams returns the seeded teams.
func Teams() []model.Team {
	return []model.Team{
		{ID: 1, Name: "Avengers"},
	}
}

// Heroes returns the seeded heroes.
func Heroes() []model.Hero {
	return []model.Hero{
		{ID: 31, Name: "Tony", SecName: "Iron Man", Age: model.Int(45), TeamID: model.Int(1)},
		{ID: 32, Name: "Steve", SecName: "Cap", Age: model.Int(105)},
	}
}

// Seed creates the tables if needed and upserts the fixture rows, so it can
// be run repeatedly against the same database.
func Seed(ctx context.Context, q orm.Querier) error {
	if err := schema.Create(ctx, q); err != nil {
		return err
	}
	teams := repo.NewTeamRepository(q)
	for _, t := range Teams() {
		if err := teams.Upsert(ctx, &t); err != nil {
			return fmt.Errorf("seed team %d: %w", t.ID, err)
		}
	}
	heroes := repo.NewHeroRepository(q)
	for _, h := range Heroes() {
		if err := heroes.Upsert(ctx, &h); err != nil {
			return fmt.Errorf("seed hero %d: %w", h.ID, err)
		}
	}
	return nil
}
