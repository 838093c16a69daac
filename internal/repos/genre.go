package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type GenreRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, genre *types.Genre) (*types.Genre, error)
	ListWithCounts(ctx context.Context, tx *gorm.DB) ([]*types.Genre, error)
}

type genreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenreRepo(db *gorm.DB, baseLog *logger.Logger) GenreRepo {
	return &genreRepo{db: db, log: baseLog.With("repo", "GenreRepo")}
}

func (r *genreRepo) Upsert(ctx context.Context, tx *gorm.DB, genre *types.Genre) (*types.Genre, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// ListWithCounts joins each genre with the number of catalog titles
// carrying it, alphabetically.
func (r *genreRepo) ListWithCounts(ctx context.Context, tx *gorm.DB) ([]*types.Genre, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Genre
	if err := transaction.WithContext(ctx).Raw(
		`SELECT g.*,
		        (SELECT COUNT(*) FROM title t
		         WHERE EXISTS (SELECT 1 FROM jsonb_array_elements_text(t.genres) AS tg(value)
		                       WHERE tg.value = g.name)) AS title_count
		 FROM genre g
		 ORDER BY g.name ASC`,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
