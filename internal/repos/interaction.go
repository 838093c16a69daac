package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type InteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interaction *types.Interaction) (*types.Interaction, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, titleID *uuid.UUID, limit int) ([]*types.Interaction, error)
	GetRecentPositive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error)
	ListInteractedTitleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) Create(ctx context.Context, tx *gorm.DB, interaction *types.Interaction) (*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(interaction).Error; err != nil {
		return nil, err
	}
	return interaction, nil
}

func (r *interactionRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, titleID *uuid.UUID, limit int) ([]*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Interaction
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if titleID != nil {
		q = q.Where("title_id = ?", *titleID)
	}
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetRecentPositive returns the user's most recent LIKE/SAVE/COMPLETE
// interactions with titles preloaded, newest first.
func (r *interactionRepo) GetRecentPositive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Interaction
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Title").
		Where("user_id = ? AND event IN ?", userID, types.PositiveEvents).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) ListInteractedTitleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Interaction{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("title_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
