package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mickamy/heroes/internal/fixture"
	"github.com/mickamy/heroes/internal/schema"
	"github.com/mickamy/heroes/model"
	"github.com/mickamy/heroes/orm"
	"github.com/mickamy/heroes/repo"
	"github.com/mickamy/heroes/scope"
)

func openMemory(t *testing.T) *orm.DB {
	t.Helper()

	db, err := orm.Connect(t.Context(), "sqlite", ":memory:?_pragma=foreign_keys(1)", orm.SQLite)
	require.NoError(t, err)
	db.Raw().SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func openSeeded(t *testing.T) *orm.DB {
	t.Helper()

	db := openMemory(t)
	require.NoError(t, fixture.Seed(t.Context(), db))
	return db
}

func heroIDs(heroes []model.Hero) []int {
	ids := make([]int, len(heroes))
	for i, h := range heroes {
		ids[i] = h.ID
	}
	return ids
}

func TestWithTeamsScenario(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	pairs, err := repo.NewHeroRepository(db).WithTeams(t.Context())
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, 31, pairs[0].Hero.ID)
	require.NotNil(t, pairs[0].Team)
	assert.Equal(t, "Avengers", pairs[0].Team.Name)
	assert.Equal(t, 1, pairs[0].Team.ID)
	assert.Nil(t, pairs[0].Hero.Team, "team belongs on the pair, not the hero")

	assert.Equal(t, 32, pairs[1].Hero.ID)
	assert.Nil(t, pairs[1].Team)
	assert.Nil(t, pairs[1].Hero.TeamID)
}

func TestWithTeamsKeepsEveryHero(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	ctx := t.Context()
	heroes := repo.NewHeroRepository(db)

	require.NoError(t, heroes.Create(ctx, &model.Hero{Name: "Natasha", SecName: "Black Widow"}))
	require.NoError(t, heroes.Create(ctx, &model.Hero{Name: "Bruce", SecName: "Hulk", Age: model.Int(49), TeamID: model.Int(1)}))

	pairs, err := heroes.WithTeams(ctx)
	require.NoError(t, err)

	total, err := heroes.Count(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, int(total))

	for _, p := range pairs {
		if p.Hero.TeamID == nil {
			assert.Nil(t, p.Team, "hero %d has no team_id", p.Hero.ID)
			continue
		}
		require.NotNil(t, p.Team, "hero %d lost its team", p.Hero.ID)
		assert.Equal(t, *p.Hero.TeamID, p.Team.ID)
	}
}

func TestWithTeamsPaged(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	pairs, err := repo.NewHeroRepository(db).WithTeams(t.Context(), scope.Limit(1), scope.Offset(1))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 32, pairs[0].Hero.ID)
	assert.Nil(t, pairs[0].Team)

	found, err := repo.NewHeroRepository(db).FindByIDs(t.Context(), []int{31, 32}, scope.Limit(1))
	require.NoError(t, err)
	assert.Equal(t, []int{31}, heroIDs(found))
}

func TestFindByIDs(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	ctx := t.Context()
	require.NoError(t, schema.Create(ctx, db))

	heroes := repo.NewHeroRepository(db)
	// Stored out of id order on purpose.
	for _, h := range []model.Hero{
		{ID: 33, Name: "Thor", SecName: "Odinson"},
		{ID: 32, Name: "Steve", SecName: "Cap", Age: model.Int(105)},
		{ID: 31, Name: "Tony", SecName: "Iron Man", Age: model.Int(45)},
	} {
		require.NoError(t, heroes.Upsert(ctx, &h))
	}

	got, err := heroes.FindByIDs(ctx, []int{31, 32})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{31, 32}, heroIDs(got))

	got, err = heroes.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	ctx := t.Context()
	require.NoError(t, schema.Create(ctx, db))

	team := &model.Team{Name: "Defenders"}
	require.NoError(t, repo.NewTeamRepository(db).Create(ctx, team))
	require.NotZero(t, team.ID)

	hero := &model.Hero{Name: "Matt", SecName: "Daredevil", Age: model.Int(33), TeamID: &team.ID}
	require.NoError(t, repo.NewHeroRepository(db).Create(ctx, hero))
	require.NotZero(t, hero.ID)

	pairs, err := repo.NewHeroRepository(db).WithTeams(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Matt", pairs[0].Hero.Name)
	assert.Equal(t, "Daredevil", pairs[0].Hero.SecName)
	require.NotNil(t, pairs[0].Hero.Age)
	assert.Equal(t, 33, *pairs[0].Hero.Age)
	require.NotNil(t, pairs[0].Team)
	assert.Equal(t, model.Team{ID: team.ID, Name: "Defenders"}, *pairs[0].Team)
}

func TestWithNavigation(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	ctx := t.Context()
	require.NoError(t, repo.NewHeroRepository(db).Create(ctx,
		&model.Hero{Name: "Bruce", SecName: "Hulk", TeamID: model.Int(1)}))

	heroes, err := repo.NewHeroRepository(db).WithNavigation(ctx)
	require.NoError(t, err)
	require.Len(t, heroes, 3)

	tony := heroes[0]
	require.Equal(t, 31, tony.ID)
	require.NotNil(t, tony.Team)
	assert.Equal(t, "Avengers", tony.Team.Name)
	assert.Equal(t, []string{"Tony", "Bruce"}, []string{tony.Team.Heroes[0].Name, tony.Team.Heroes[1].Name})

	// hero -> team -> hero -> team lands on the same team again.
	for _, member := range tony.Team.Heroes {
		assert.Same(t, tony.Team, member.Team, "hero %d", member.ID)
	}
	assert.Same(t, tony.Team, heroes[2].Team, "heroes on one team share it")

	assert.Equal(t, 32, heroes[1].ID)
	assert.Nil(t, heroes[1].Team)
}

func TestForeignKeyEnforced(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	err := repo.NewHeroRepository(db).Create(t.Context(),
		&model.Hero{Name: "Nobody", SecName: "Ghost", TeamID: model.Int(999)})
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openSeeded(t)
	ctx := t.Context()
	require.NoError(t, fixture.Seed(ctx, db))

	teams, err := repo.NewTeamRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, teams)

	heroes, err := repo.NewHeroRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, heroes)
}
