package repo

import (
	"context"

	"github.com/mickamy/heroes/model"
	"github.com/mickamy/heroes/orm"
)

type TeamRepository struct {
	db orm.Querier
}

func NewTeamRepository(db orm.Querier) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t *model.Team) error {
	return model.Teams(r.db).Create(ctx, t)
}

func (r *TeamRepository) Upsert(ctx context.Context, t *model.Team) error {
	return model.Teams(r.db).Upsert(ctx, t)
}

func (r *TeamRepository) Count(ctx context.Context) (int64, error) {
	return model.Teams(r.db).Count(ctx)
}
