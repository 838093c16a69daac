package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type ProviderRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, provider *types.Provider) (*types.Provider, error)
	List(ctx context.Context, tx *gorm.DB, region string) ([]*types.Provider, error)
}

type providerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProviderRepo(db *gorm.DB, baseLog *logger.Logger) ProviderRepo {
	return &providerRepo{db: db, log: baseLog.With("repo", "ProviderRepo")}
}

func (r *providerRepo) Upsert(ctx context.Context, tx *gorm.DB, provider *types.Provider) (*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "logo_path", "regions", "display_priority", "updated_at"}),
		}).
		Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

func (r *providerRepo) List(ctx context.Context, tx *gorm.DB, region string) ([]*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	if region != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM jsonb_array_elements_text(regions) AS reg(value) WHERE reg.value = ?)`, region)
	}

	var results []*types.Provider
	if err := q.Order("display_priority ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
