package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

// Genres with scarce catalog content or talk-show noise are hidden from
// the browse surface.
var hiddenGenres = map[string]struct{}{
	"News":     {},
	"Reality":  {},
	"Soap":     {},
	"Talk":     {},
	"TV Movie": {},
}

type GenreService interface {
	GetGenres(ctx context.Context) ([]*types.Genre, error)
}

type genreService struct {
	db        *gorm.DB
	log       *logger.Logger
	cache     CacheService
	genreRepo repos.GenreRepo
}

func NewGenreService(db *gorm.DB, log *logger.Logger, cache CacheService, genreRepo repos.GenreRepo) GenreService {
	return &genreService{
		db:        db,
		log:       log.With("service", "GenreService"),
		cache:     cache,
		genreRepo: genreRepo,
	}
}

func (s *genreService) GetGenres(ctx context.Context) ([]*types.Genre, error) {
	key := CacheKey(CacheNSGenres, "all")
	if s.cache != nil {
		var cached []*types.Genre
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	genres, err := s.genreRepo.ListWithCounts(ctx, nil)
	if err != nil {
		return nil, err
	}

	popular := make([]*types.Genre, 0, len(genres))
	for _, genre := range genres {
		if genre.TitleCount == 0 {
			continue
		}
		if _, hidden := hiddenGenres[genre.Name]; hidden {
			continue
		}
		popular = append(popular, genre)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, popular, CacheTTL(CacheNSGenres)); err != nil {
			s.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return popular, nil
}
