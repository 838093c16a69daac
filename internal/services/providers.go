package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type ProviderService interface {
	GetProviders(ctx context.Context, region string) ([]*types.Provider, error)
}

type providerService struct {
	db           *gorm.DB
	log          *logger.Logger
	cache        CacheService
	providerRepo repos.ProviderRepo
}

func NewProviderService(db *gorm.DB, log *logger.Logger, cache CacheService, providerRepo repos.ProviderRepo) ProviderService {
	return &providerService{
		db:           db,
		log:          log.With("service", "ProviderService"),
		cache:        cache,
		providerRepo: providerRepo,
	}
}

func (s *providerService) GetProviders(ctx context.Context, region string) ([]*types.Provider, error) {
	regionKey := region
	if regionKey == "" {
		regionKey = "all"
	}
	key := CacheKey(CacheNSProviders, regionKey)
	if s.cache != nil {
		var cached []*types.Provider
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	providers, err := s.providerRepo.List(ctx, nil, region)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, providers, CacheTTL(CacheNSProviders)); err != nil {
			s.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return providers, nil
}
