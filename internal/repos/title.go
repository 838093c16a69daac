package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

var ErrTitleNotFound = errors.New("title not found")

// TitleFilter is the search predicate set. Zero values mean "not filtered".
type TitleFilter struct {
	Query      string
	Type       string
	Genres     []string
	YearFrom   int
	YearTo     int
	MinRating  float64
	MinRuntime int
	MaxRuntime int
	Languages  []string
	Region     string
	Page       int
	Limit      int
}

type TitleRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, region string) (*types.Title, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Title, error)
	Upsert(ctx context.Context, tx *gorm.DB, title *types.Title) (*types.Title, error)
	Search(ctx context.Context, tx *gorm.DB, filter TitleFilter) ([]*types.Title, int64, error)
	ListTrending(ctx context.Context, tx *gorm.DB, region string, page, limit int) ([]*types.Title, error)
	ListByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, languages []string, region string, page, limit int) ([]*types.Title, error)
	ListCandidatesByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, limit int) ([]*types.Title, error)
	ListSimilarByGenres(ctx context.Context, tx *gorm.DB, title *types.Title, limit int) ([]*types.Title, error)
}

type titleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTitleRepo(db *gorm.DB, baseLog *logger.Logger) TitleRepo {
	return &titleRepo{db: db, log: baseLog.With("repo", "TitleRepo")}
}

// genresOverlap matches titles whose JSONB genre array shares at least one
// element with the given set.
func genresOverlap(genres []string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(genres) == 0 {
			return q
		}
		return q.Where(
			`EXISTS (SELECT 1 FROM jsonb_array_elements_text("title".genres) AS g(value) WHERE g.value IN ?)`,
			genres,
		)
	}
}

func availabilityPreload(region string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if region == "" {
			return q.Preload("Availability")
		}
		return q.Preload("Availability", "region = ?", region)
	}
}

func (r *titleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, region string) (*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var title types.Title
	err := transaction.WithContext(ctx).
		Scopes(availabilityPreload(region)).
		Where("id = ?", id).
		First(&title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTitleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Title
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert is keyed by tmdb_id so periodic refresh overwrites in place.
func (r *titleRepo) Upsert(ctx context.Context, tx *gorm.DB, title *types.Title) (*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type", "original_title", "overview", "localized_titles", "localized_overviews",
				"genres", "poster_path", "backdrop_path", "popularity", "rating", "vote_count",
				"original_language", "cast_names", "crew_names", "release_date", "runtime", "updated_at",
			}),
		}).
		Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

func (r *titleRepo) Search(ctx context.Context, tx *gorm.DB, filter TitleFilter) ([]*types.Title, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	q := transaction.WithContext(ctx).Model(&types.Title{})

	if filter.Type != "" && filter.Type != "all" {
		q = q.Where(`"title".type = ?`, filter.Type)
	}
	q = q.Scopes(genresOverlap(filter.Genres))
	if filter.YearFrom > 0 {
		q = q.Where("release_date >= ?", time.Date(filter.YearFrom, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if filter.YearTo > 0 {
		q = q.Where("release_date <= ?", time.Date(filter.YearTo, 12, 31, 0, 0, 0, 0, time.UTC))
	}
	if filter.MinRating > 0 {
		q = q.Where("rating >= ?", filter.MinRating)
	}
	if filter.MinRuntime > 0 {
		q = q.Where("runtime >= ?", filter.MinRuntime)
	}
	if filter.MaxRuntime > 0 {
		q = q.Where("runtime <= ?", filter.MaxRuntime)
	}
	if len(filter.Languages) > 0 {
		q = q.Where("original_language IN ?", filter.Languages)
	}
	if filter.Query != "" {
		like := fmt.Sprintf("%%%s%%", filter.Query)
		q = q.Where("original_title ILIKE ? OR overview ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Title
	if err := q.
		Scopes(availabilityPreload(filter.Region)).
		Order("popularity DESC, rating DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *titleRepo) ListTrending(ctx context.Context, tx *gorm.DB, region string, page, limit int) ([]*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Title
	if err := transaction.WithContext(ctx).
		Scopes(availabilityPreload(region)).
		Order("popularity DESC, rating DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *titleRepo) ListByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, languages []string, region string, page, limit int) ([]*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Scopes(genresOverlap(genres), availabilityPreload(region))
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if len(languages) > 0 {
		q = q.Where("original_language IN ?", languages)
	}

	var results []*types.Title
	if err := q.
		Order("popularity DESC, rating DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListCandidatesByGenres feeds the collaborative stage; candidate order is
// unspecified at this point, serving order is established by score.
func (r *titleRepo) ListCandidatesByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, limit int) ([]*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(genres) == 0 {
		return nil, nil
	}

	q := transaction.WithContext(ctx).Scopes(genresOverlap(genres))
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var results []*types.Title
	if err := q.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *titleRepo) ListSimilarByGenres(ctx context.Context, tx *gorm.DB, title *types.Title, limit int) ([]*types.Title, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("id != ?", title.ID).
		Where(`"title".type = ?`, title.Type).
		Scopes(genresOverlap(title.GenreList()))

	var results []*types.Title
	if err := q.
		Order("popularity DESC, rating DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
