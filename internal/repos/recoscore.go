package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type RecoScoreRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, score *types.RecoScore) (*types.RecoScore, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, region string, page, limit int) ([]*types.RecoScore, error)
	ForEachBatch(ctx context.Context, tx *gorm.DB, batchSize int, fn func(batch []*types.RecoScore) error) error
	UpdateScoreMergeMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, score float64, patch map[string]any) error
	HasAnyForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type recoScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecoScoreRepo(db *gorm.DB, baseLog *logger.Logger) RecoScoreRepo {
	return &recoScoreRepo{db: db, log: baseLog.With("repo", "RecoScoreRepo")}
}

// Upsert is keyed by (user_id, title_id) so the scoring job is idempotent
// and a rerun overwrites score and metadata in place.
func (r *recoScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.RecoScore) (*types.RecoScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "title_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "metadata", "updated_at"}),
		}).
		Create(score).Error; err != nil {
		return nil, err
	}
	return score, nil
}

func (r *recoScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, region string, page, limit int) ([]*types.RecoScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RecoScore
	if userID == uuid.Nil {
		return results, nil
	}

	preload := func(q *gorm.DB) *gorm.DB {
		if region == "" {
			return q.Preload("Title")
		}
		return q.Preload("Title").Preload("Title.Availability", "region = ?", region)
	}

	if err := preload(transaction.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("score DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ForEachBatch walks every score row in primary-key order; the hybrid
// stage iterates this way so a large score table never loads whole.
func (r *recoScoreRepo) ForEachBatch(ctx context.Context, tx *gorm.DB, batchSize int, fn func(batch []*types.RecoScore) error) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.RecoScore
	result := transaction.WithContext(ctx).FindInBatches(&rows, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(rows)
	})
	return result.Error
}

// UpdateScoreMergeMetadata overwrites the score and merges the metadata
// patch additively; keys absent from the patch survive.
func (r *recoScoreRepo) UpdateScoreMergeMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, score float64, patch map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Exec(
		`UPDATE reco_score
		 SET score = ?,
		     metadata = COALESCE(metadata, '{}'::jsonb) || ?::jsonb,
		     updated_at = now()
		 WHERE id = ?`,
		score, types.JSONMap(patch), id,
	).Error
}

func (r *recoScoreRepo) HasAnyForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecoScore{}).
		Where("user_id = ?", userID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
