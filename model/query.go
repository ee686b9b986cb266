package model

import (
	"context"
	"database/sql"

	"github.com/mickamy/heroes/internal/naming"
	"github.com/mickamy/heroes/orm"
	"github.com/mickamy/heroes/scope"
)

// Relation names accepted by LeftJoin and Preload: "Team" on a hero,
// "Heroes" on a team.
var (
	RelTeam   = naming.RelationName(orm.TableNameOf[Team](), false)
	RelHeroes = naming.RelationName(orm.TableNameOf[Hero](), true)
)

var (
	heroColumns = []string{"id", "name", "sec_name", "age", "team_id"}
	teamColumns = []string{"id", "name"}
)

// Heroes returns a new Query for the hero table.
func Heroes(db orm.Querier) *orm.Query[Hero] {
	q := orm.NewQuery[Hero](
		db, orm.TableNameOf[Hero](), heroColumns, "id",
		scanHero, heroColumnValuePairs, setHeroPK,
	)
	q.RegisterJoin(RelTeam, orm.JoinConfig{
		TargetTable: orm.TableNameOf[Team](), TargetColumn: "id",
		SourceTable: orm.TableNameOf[Hero](), SourceColumn: "team_id",
		SelectColumns: teamColumns,
	})
	q.RegisterPreloader(RelTeam, preloadHeroTeam)
	return q
}

// Teams returns a new Query for the team table.
func Teams(db orm.Querier) *orm.Query[Team] {
	q := orm.NewQuery[Team](
		db, orm.TableNameOf[Team](), teamColumns, "id",
		scanTeam, teamColumnValuePairs, setTeamPK,
	)
	q.RegisterPreloader(RelHeroes, preloadTeamHeroes)
	return q
}

var (
	teamAliasID   = naming.RelationAlias(RelTeam, "id")
	teamAliasName = naming.RelationAlias(RelTeam, "name")
)

func scanHero(rows *sql.Rows) (Hero, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Hero{}, err //nolint:wrapcheck // pass through
	}
	var v Hero
	var teamID sql.NullInt64
	var teamName sql.NullString
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		case "sec_name":
			dest[i] = &v.SecName
		case "age":
			dest[i] = &v.Age
		case "team_id":
			dest[i] = &v.TeamID
		case teamAliasID:
			dest[i] = &teamID
		case teamAliasName:
			dest[i] = &teamName
		default:
			dest[i] = new(any)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return Hero{}, err //nolint:wrapcheck // pass through
	}
	if teamID.Valid {
		v.Team = &Team{ID: int(teamID.Int64), Name: teamName.String}
	}
	return v, nil
}

func heroColumnValuePairs(v *Hero, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name", "sec_name", "age", "team_id"},
			[]any{v.ID, v.Name, v.SecName, v.Age, v.TeamID}
	}
	return []string{"name", "sec_name", "age", "team_id"},
		[]any{v.Name, v.SecName, v.Age, v.TeamID}
}

func setHeroPK(v *Hero, id int64) {
	v.ID = int(id)
}

func scanTeam(rows *sql.Rows) (Team, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Team{}, err //nolint:wrapcheck // pass through
	}
	var v Team
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err = rows.Scan(dest...)
	return v, err //nolint:wrapcheck // pass through
}

func teamColumnValuePairs(v *Team, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setTeamPK(v *Team, id int64) {
	v.ID = int(id)
}

// preloadHeroTeam fills Hero.Team for every hero that has a team_id.
func preloadHeroTeam(ctx context.Context, db orm.Querier, results []Hero) error {
	seen := make(map[int]struct{}, len(results))
	ids := make([]int, 0, len(results))
	for _, h := range results {
		if h.TeamID == nil {
			continue
		}
		if _, ok := seen[*h.TeamID]; !ok {
			seen[*h.TeamID] = struct{}{}
			ids = append(ids, *h.TeamID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	teams, err := Teams(db).Scopes(scope.In("id", ids)).All(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int]Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for i := range results {
		if results[i].TeamID == nil {
			continue
		}
		if t, ok := byID[*results[i].TeamID]; ok {
			results[i].Team = &t
		}
	}
	return nil
}

// preloadTeamHeroes fills Team.Heroes, ordered by hero id.
func preloadTeamHeroes(ctx context.Context, db orm.Querier, results []Team) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	heroes, err := Heroes(db).Scopes(scope.In("team_id", ids), scope.OrderBy("id")).All(ctx)
	if err != nil {
		return err
	}
	byTeam := make(map[int][]Hero)
	for _, h := range heroes {
		byTeam[*h.TeamID] = append(byTeam[*h.TeamID], h)
	}
	for i := range results {
		results[i].Heroes = byTeam[results[i].ID]
	}
	return nil
}
