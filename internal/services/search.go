package services

import (
	"context"
	"encoding/json"
	"math"

	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type SearchQuery struct {
	Q          string
	Language   string
	Region     string
	Type       string
	Page       int
	Genres     []string
	YearFrom   int
	YearTo     int
	MinRating  float64
	MinRuntime int
	MaxRuntime int
	Providers  []string
}

type SearchResultTitle struct {
	ID           string               `json:"id"`
	TmdbID       int64                `json:"tmdb_id"`
	Type         string               `json:"type"`
	Title        string               `json:"title"`
	Overview     string               `json:"overview"`
	PosterURL    string               `json:"posterUrl,omitempty"`
	Rating       float64              `json:"rating"`
	Popularity   float64              `json:"popularity"`
	ReleaseDate  string               `json:"release_date,omitempty"`
	Genres       []string             `json:"genres"`
	Availability []types.Availability `json:"availability"`
}

type SearchResult struct {
	Results      []SearchResultTitle `json:"results"`
	Page         int                 `json:"page"`
	TotalResults int64               `json:"total_results"`
	TotalPages   int                 `json:"total_pages"`
}

const searchPageSize = 20

type SearchService interface {
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

type searchService struct {
	db        *gorm.DB
	log       *logger.Logger
	cache     CacheService
	titleRepo repos.TitleRepo
	tmdb      TmdbClient
}

func NewSearchService(db *gorm.DB, log *logger.Logger, cache CacheService, titleRepo repos.TitleRepo, tmdb TmdbClient) SearchService {
	return &searchService{
		db:        db,
		log:       log.With("service", "SearchService"),
		cache:     cache,
		titleRepo: titleRepo,
		tmdb:      tmdb,
	}
}

func (s *searchService) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}

	key := searchCacheKey(query)
	if s.cache != nil {
		var cached SearchResult
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	searchType := ""
	switch query.Type {
	case "movie":
		searchType = types.TitleTypeMovie
	case "series":
		searchType = types.TitleTypeSeries
	}

	titles, total, err := s.titleRepo.Search(ctx, nil, repos.TitleFilter{
		Query:      query.Q,
		Type:       searchType,
		Genres:     query.Genres,
		YearFrom:   query.YearFrom,
		YearTo:     query.YearTo,
		MinRating:  query.MinRating,
		MinRuntime: query.MinRuntime,
		MaxRuntime: query.MaxRuntime,
		Region:     query.Region,
		Page:       query.Page,
		Limit:      searchPageSize,
	})
	if err != nil {
		return nil, err
	}

	if len(query.Providers) > 0 {
		titles = FilterByProviders(titles, query.Providers)
		total = int64(len(titles))
	}

	result := &SearchResult{
		Results:      make([]SearchResultTitle, 0, len(titles)),
		Page:         query.Page,
		TotalResults: total,
		TotalPages:   TotalPages(total, searchPageSize),
	}
	for _, title := range titles {
		result.Results = append(result.Results, s.formatTitle(title))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, CacheTTL(CacheNSSearch)); err != nil {
			s.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}

// FilterByProviders keeps only titles available on at least one of the
// requested providers in the already-scoped region rows.
func FilterByProviders(titles []*types.Title, providers []string) []*types.Title {
	wanted := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		wanted[p] = struct{}{}
	}

	var filtered []*types.Title
	for _, title := range titles {
		for _, av := range title.Availability {
			if _, ok := wanted[av.ProviderName]; ok {
				filtered = append(filtered, title)
				break
			}
		}
	}
	return filtered
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

func searchCacheKey(query SearchQuery) string {
	raw, _ := json.Marshal(query)
	return CacheKey(CacheNSSearch, string(raw))
}

func (s *searchService) formatTitle(title *types.Title) SearchResultTitle {
	releaseDate := ""
	if title.ReleaseDate != nil {
		releaseDate = title.ReleaseDate.Format("2006-01-02")
	}
	availability := title.Availability
	if availability == nil {
		availability = []types.Availability{}
	}
	return SearchResultTitle{
		ID:           title.ID.String(),
		TmdbID:       title.TmdbID,
		Type:         title.Type,
		Title:        title.OriginalTitle,
		Overview:     title.Overview,
		PosterURL:    s.tmdb.ImageURL(title.PosterPath, "w500"),
		Rating:       title.Rating,
		Popularity:   title.Popularity,
		ReleaseDate:  releaseDate,
		Genres:       title.GenreList(),
		Availability: availability,
	}
}
