package services

import (
	"context"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
)

type AdminResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdminService only invalidates caches; actual resync and rescoring run as
// the seed/embed/recojob binaries.
type AdminService interface {
	SyncFromTmdb(ctx context.Context, mediaType string) (*AdminResult, error)
	RebuildRecommendations(ctx context.Context) (*AdminResult, error)
}

type adminService struct {
	log   *logger.Logger
	cache CacheService
}

func NewAdminService(log *logger.Logger, cache CacheService) AdminService {
	return &adminService{log: log.With("service", "AdminService"), cache: cache}
}

func (s *adminService) SyncFromTmdb(ctx context.Context, mediaType string) (*AdminResult, error) {
	if err := s.cache.DelPattern(ctx, CacheNSTmdb+":*"); err != nil {
		return nil, err
	}
	s.log.Info("tmdb cache invalidated", "media_type", mediaType)
	return &AdminResult{Success: true, Message: "Sync initiated. Use the seed binary for a full sync."}, nil
}

func (s *adminService) RebuildRecommendations(ctx context.Context) (*AdminResult, error) {
	if err := s.cache.DelPattern(ctx, CacheNSReco+":*"); err != nil {
		return nil, err
	}
	s.log.Info("recommendation cache invalidated")
	return &AdminResult{Success: true, Message: "Recommendation cache cleared. Use the recojob binary for a full rebuild."}, nil
}
