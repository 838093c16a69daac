package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/reco"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

// ErrTitleNotFound is re-exported so handlers map it to 404 without
// importing the repos package.
var ErrTitleNotFound = repos.ErrTitleNotFound

type TitleDetails struct {
	*types.Title
	LocalizedTitle    string `json:"localizedTitle"`
	LocalizedOverview string `json:"localizedOverview"`
	PosterURL         string `json:"posterUrl,omitempty"`
	BackdropURL       string `json:"backdropUrl,omitempty"`
}

type SimilarTitle struct {
	ID            uuid.UUID `json:"id"`
	TmdbID        int64     `json:"tmdb_id"`
	Type          string    `json:"type"`
	OriginalTitle string    `json:"original_title"`
	PosterURL     string    `json:"posterUrl,omitempty"`
	Rating        float64   `json:"rating"`
	Popularity    float64   `json:"popularity"`
	Similarity    *float64  `json:"similarity,omitempty"`
}

type TitleService interface {
	GetTitleByID(ctx context.Context, id uuid.UUID, language, region string) (*TitleDetails, error)
	GetSimilarTitles(ctx context.Context, id uuid.UUID, language string, limit int) ([]SimilarTitle, error)
}

type titleService struct {
	db            *gorm.DB
	log           *logger.Logger
	cache         CacheService
	titleRepo     repos.TitleRepo
	embeddingRepo repos.EmbeddingRepo
	tmdb          TmdbClient
}

func NewTitleService(db *gorm.DB, log *logger.Logger, cache CacheService, titleRepo repos.TitleRepo, embeddingRepo repos.EmbeddingRepo, tmdb TmdbClient) TitleService {
	return &titleService{
		db:            db,
		log:           log.With("service", "TitleService"),
		cache:         cache,
		titleRepo:     titleRepo,
		embeddingRepo: embeddingRepo,
		tmdb:          tmdb,
	}
}

func (s *titleService) GetTitleByID(ctx context.Context, id uuid.UUID, language, region string) (*TitleDetails, error) {
	if language == "" {
		language = "en-US"
	}

	regionKey := region
	if regionKey == "" {
		regionKey = "default"
	}
	key := CacheKey(CacheNSTitle, id.String(), language, regionKey)
	if s.cache != nil {
		var cached TitleDetails
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	title, err := s.titleRepo.GetByID(ctx, nil, id, region)
	if err != nil {
		return nil, err
	}

	details := &TitleDetails{
		Title:             title,
		LocalizedTitle:    title.LocalizedTitle(language),
		LocalizedOverview: title.LocalizedOverview(language),
		PosterURL:         s.tmdb.ImageURL(title.PosterPath, "w500"),
		BackdropURL:       s.tmdb.ImageURL(title.BackdropPath, "original"),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, details, CacheTTL(CacheNSTitle)); err != nil {
			s.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return details, nil
}

// GetSimilarTitles ranks by embedding cosine similarity when the title has
// a vector, otherwise falls back to same-type genre neighbors.
func (s *titleService) GetSimilarTitles(ctx context.Context, id uuid.UUID, language string, limit int) ([]SimilarTitle, error) {
	if limit < 1 {
		limit = 20
	}

	title, err := s.titleRepo.GetByID(ctx, nil, id, "")
	if err != nil {
		return nil, err
	}

	embedding, err := s.embeddingRepo.GetByTitleID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return s.similarByGenres(ctx, title, limit)
	}

	anchor, err := embedding.Floats()
	if err != nil {
		s.log.Warn("anchor embedding unusable, using genre fallback", "title_id", id, "error", err)
		return s.similarByGenres(ctx, title, limit)
	}

	return s.similarByEmbedding(ctx, title, anchor, limit)
}

func (s *titleService) similarByEmbedding(ctx context.Context, title *types.Title, anchor []float32, limit int) ([]SimilarTitle, error) {
	embeddings, err := s.embeddingRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		titleID    uuid.UUID
		similarity float64
	}
	var candidates []ranked
	for _, other := range embeddings {
		if other.TitleID == title.ID {
			continue
		}
		vector, err := other.Floats()
		if err != nil {
			s.log.Warn("skipping unusable embedding", "title_id", other.TitleID, "error", err)
			continue
		}
		candidates = append(candidates, ranked{titleID: other.TitleID, similarity: Cosine(anchor, vector)})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].similarity > candidates[j].similarity })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.titleID)
	}
	titles, err := s.titleRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.Title, len(titles))
	for _, t := range titles {
		byID[t.ID] = t
	}

	results := make([]SimilarTitle, 0, len(candidates))
	for _, c := range candidates {
		t, ok := byID[c.titleID]
		if !ok {
			continue
		}
		sim := c.similarity
		results = append(results, SimilarTitle{
			ID:            t.ID,
			TmdbID:        t.TmdbID,
			Type:          t.Type,
			OriginalTitle: t.OriginalTitle,
			PosterURL:     s.tmdb.ImageURL(t.PosterPath, "w500"),
			Rating:        t.Rating,
			Popularity:    t.Popularity,
			Similarity:    &sim,
		})
	}
	return results, nil
}

func (s *titleService) similarByGenres(ctx context.Context, title *types.Title, limit int) ([]SimilarTitle, error) {
	titles, err := s.titleRepo.ListSimilarByGenres(ctx, nil, title, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SimilarTitle, 0, len(titles))
	for _, t := range titles {
		results = append(results, SimilarTitle{
			ID:            t.ID,
			TmdbID:        t.TmdbID,
			Type:          t.Type,
			OriginalTitle: t.OriginalTitle,
			PosterURL:     s.tmdb.ImageURL(t.PosterPath, "w500"),
			Rating:        t.Rating,
			Popularity:    t.Popularity,
		})
	}
	return results, nil
}

// Cosine is aliased so the serving path and the batch job share one
// implementation.
func Cosine(a, b []float32) float64 { return reco.Cosine(a, b) }
