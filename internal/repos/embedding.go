package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type EmbeddingRepo interface {
	GetByTitleID(ctx context.Context, tx *gorm.DB, titleID uuid.UUID) (*types.Embedding, error)
	GetByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uuid.UUID) (map[uuid.UUID]*types.Embedding, error)
	Upsert(ctx context.Context, tx *gorm.DB, embedding *types.Embedding) (*types.Embedding, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Embedding, error)
	ListTitleIDsWithout(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type embeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	return &embeddingRepo{db: db, log: baseLog.With("repo", "EmbeddingRepo")}
}

// GetByTitleID returns (nil, nil) when the title has no embedding yet.
func (r *embeddingRepo) GetByTitleID(ctx context.Context, tx *gorm.DB, titleID uuid.UUID) (*types.Embedding, error) {
	embeddings, err := r.GetByTitleIDs(ctx, tx, []uuid.UUID{titleID})
	if err != nil {
		return nil, err
	}
	return embeddings[titleID], nil
}

func (r *embeddingRepo) GetByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uuid.UUID) (map[uuid.UUID]*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	results := make(map[uuid.UUID]*types.Embedding, len(titleIDs))
	if len(titleIDs) == 0 {
		return results, nil
	}

	var rows []*types.Embedding
	if err := transaction.WithContext(ctx).
		Where("title_id IN ?", titleIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		results[row.TitleID] = row
	}
	return results, nil
}

func (r *embeddingRepo) Upsert(ctx context.Context, tx *gorm.DB, embedding *types.Embedding) (*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vector", "dim", "updated_at"}),
		}).
		Create(embedding).Error; err != nil {
		return nil, err
	}
	return embedding, nil
}

func (r *embeddingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.Embedding
	if err := transaction.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *embeddingRepo) ListTitleIDsWithout(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Title{}).
		Where(`NOT EXISTS (SELECT 1 FROM embedding e WHERE e.title_id = "title".id)`).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
