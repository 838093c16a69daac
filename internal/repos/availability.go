package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type AvailabilityRepo interface {
	ReplaceForTitle(ctx context.Context, tx *gorm.DB, titleID uuid.UUID, rows []*types.Availability) error
}

type availabilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvailabilityRepo(db *gorm.DB, baseLog *logger.Logger) AvailabilityRepo {
	return &availabilityRepo{db: db, log: baseLog.With("repo", "AvailabilityRepo")}
}

// ReplaceForTitle swaps a title's availability rows wholesale; the TMDB
// watch-provider payload is authoritative per sync.
func (r *availabilityRepo) ReplaceForTitle(ctx context.Context, tx *gorm.DB, titleID uuid.UUID, rows []*types.Availability) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("title_id = ?", titleID).Delete(&types.Availability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return inner.Create(&rows).Error
	})
}
