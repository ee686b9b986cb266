package repo

import (
	"context"

	"github.com/mickamy/heroes/model"
	"github.com/mickamy/heroes/orm"
	"github.com/mickamy/heroes/scope"
)

// HeroTeam is one row of the hero/team left join. Team is nil when the
// hero has no team.
type HeroTeam struct {
	Hero model.Hero  `json:"hero" yaml:"hero"`
	Team *model.Team `json:"team" yaml:"team"`
}

// HeroRepository wraps the hero query factory with the read paths the
// runner needs, plus the writers used for seeding.
type HeroRepository struct {
	db orm.Querier
}

func NewHeroRepository(db orm.Querier) *HeroRepository {
	return &HeroRepository{db: db}
}

// WithTeams left-joins hero to team on hero.team_id = team.id. Every hero is
// returned exactly once, ordered by id. page narrows the hero rows
// (scope.Limit, scope.Offset).
func (r *HeroRepository) WithTeams(ctx context.Context, page ...scope.Scope) ([]HeroTeam, error) {
	heroes, err := r.joined(ctx, page)
	if err != nil {
		return nil, err
	}
	return Pairs(heroes), nil
}

// FindByIDs returns the heroes whose id is in ids, ordered by id.
func (r *HeroRepository) FindByIDs(ctx context.Context, ids []int, page ...scope.Scope) ([]model.Hero, error) {
	scopes := scope.Scopes{scope.In("id", ids), scope.OrderBy("id")}.Append(page...)
	return model.Heroes(r.db).Scopes(scopes...).All(ctx)
}

func (r *HeroRepository) joined(ctx context.Context, page []scope.Scope) ([]model.Hero, error) {
	return model.Heroes(r.db).LeftJoin(model.RelTeam).OrderBy("hero.id").Scopes(page...).All(ctx)
}

// WithNavigation runs the same left join as WithTeams and additionally
// loads each team's heroes. The graph is shared: hero.Team.Heroes[i].Team
// points back at hero.Team, so it can be walked in either direction.
func (r *HeroRepository) WithNavigation(ctx context.Context, page ...scope.Scope) ([]model.Hero, error) {
	heroes, err := r.joined(ctx, page)
	if err != nil {
		return nil, err
	}

	var teamIDs []int
	for _, h := range heroes {
		if h.Team != nil {
			teamIDs = append(teamIDs, h.Team.ID)
		}
	}
	if len(teamIDs) == 0 {
		return heroes, nil
	}
	teams, err := model.Teams(r.db).Scopes(scope.In("id", teamIDs)).Preload(model.RelHeroes).All(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*model.Team, len(teams))
	for i := range teams {
		team := &teams[i]
		for j := range team.Heroes {
			team.Heroes[j].Team = team
		}
		byID[team.ID] = team
	}
	for i := range heroes {
		if heroes[i].Team != nil {
			heroes[i].Team = byID[heroes[i].Team.ID]
		}
	}
	return heroes, nil
}

func (r *HeroRepository) Create(ctx context.Context, h *model.Hero) error {
	return model.Heroes(r.db).Create(ctx, h)
}

func (r *HeroRepository) Upsert(ctx context.Context, h *model.Hero) error {
	return model.Heroes(r.db).Upsert(ctx, h)
}

func (r *HeroRepository) Count(ctx context.Context) (int64, error) {
	return model.Heroes(r.db).Count(ctx)
}

func (p HeroTeam) String() string {
	if p.Team == nil {
		return p.Hero.String() + " | None"
	}
	return p.Hero.String() + " | " + p.Team.String()
}

// Pairs splits heroes with a loaded Team into HeroTeam rows.
func Pairs(heroes []model.Hero) []HeroTeam {
	pairs := make([]HeroTeam, len(heroes))
	for i, h := range heroes {
		team := h.Team
		h.Team = nil
		pairs[i] = HeroTeam{Hero: h, Team: team}
	}
	return pairs
}
