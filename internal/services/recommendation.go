package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/reco"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type RecoRequest struct {
	UserID   uuid.UUID
	Language string
	Region   string
	Page     int
	Limit    int
}

type RecommendedTitle struct {
	*types.Title
	RecommendationScore *float64 `json:"recommendationScore,omitempty"`
}

type RecoPage struct {
	Results []RecommendedTitle `json:"results"`
	Page    int                `json:"page"`
	HasMore bool               `json:"hasMore"`
}

type RecommendationService interface {
	GetPersonalized(ctx context.Context, req RecoRequest) (*RecoPage, error)
}

// recoStrategy is one tier of the serving fallback chain. A nil page with
// a nil error means "nothing here, try the next tier".
type recoStrategy struct {
	name  string
	fetch func(ctx context.Context, req RecoRequest) (*RecoPage, error)
}

type recommendationService struct {
	db              *gorm.DB
	log             *logger.Logger
	cache           CacheService
	profileRepo     repos.ProfileRepo
	titleRepo       repos.TitleRepo
	interactionRepo repos.InteractionRepo
	recoScoreRepo   repos.RecoScoreRepo

	chain []recoStrategy
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	cache CacheService,
	profileRepo repos.ProfileRepo,
	titleRepo repos.TitleRepo,
	interactionRepo repos.InteractionRepo,
	recoScoreRepo repos.RecoScoreRepo,
) RecommendationService {
	s := &recommendationService{
		db:              db,
		log:             log.With("service", "RecommendationService"),
		cache:           cache,
		profileRepo:     profileRepo,
		titleRepo:       titleRepo,
		interactionRepo: interactionRepo,
		recoScoreRepo:   recoScoreRepo,
	}
	s.chain = []recoStrategy{
		{name: "precomputed", fetch: s.precomputed},
		{name: "content-based", fetch: s.contentBased},
		{name: "trending", fetch: s.trendingDefault},
	}
	return s
}

func (s *recommendationService) GetPersonalized(ctx context.Context, req RecoRequest) (*RecoPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	if req.Language == "" {
		req.Language = "en-US"
	}
	if req.Region == "" {
		req.Region = "US"
	}

	// Anonymous requests cannot match interactions or precomputed scores,
	// so they resolve straight to the trending tier.
	if req.UserID == uuid.Nil {
		return s.trendingDefault(ctx, req)
	}

	for _, tier := range s.chain {
		page, err := tier.fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("recommendations %s tier: %w", tier.name, err)
		}
		if page != nil {
			return page, nil
		}
	}
	// The trending tier always yields a page, so this is unreachable.
	return &RecoPage{Results: []RecommendedTitle{}, Page: req.Page}, nil
}

func (s *recommendationService) personalizedKey(req RecoRequest) string {
	return CacheKey(CacheNSReco, req.UserID.String(), req.Language, req.Region,
		strconv.Itoa(req.Page), strconv.Itoa(req.Limit))
}

func (s *recommendationService) trendingKey(req RecoRequest) string {
	return CacheKey(CacheNSRecoDefault, req.Language, req.Region,
		strconv.Itoa(req.Page), strconv.Itoa(req.Limit))
}

func (s *recommendationService) precomputed(ctx context.Context, req RecoRequest) (*RecoPage, error) {
	key := s.personalizedKey(req)
	var cached RecoPage
	if hit := s.cacheGet(ctx, key, &cached); hit {
		return &cached, nil
	}

	scores, err := s.recoScoreRepo.ListByUser(ctx, nil, req.UserID, req.Region, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	results := make([]RecommendedTitle, 0, len(scores))
	for _, score := range scores {
		if score.Title == nil {
			continue
		}
		v := score.Score
		results = append(results, RecommendedTitle{Title: score.Title, RecommendationScore: &v})
	}

	page := &RecoPage{Results: results, Page: req.Page, HasMore: len(scores) == req.Limit}
	s.cacheSet(ctx, key, page, CacheNSReco)
	return page, nil
}

func (s *recommendationService) contentBased(ctx context.Context, req RecoRequest) (*RecoPage, error) {
	interactions, err := s.interactionRepo.GetRecentPositive(ctx, nil, req.UserID, 10)
	if err != nil {
		return nil, err
	}
	if len(interactions) == 0 {
		return nil, nil
	}

	likedGenres := reco.LikedGenres(interactions)

	interactedIDs, err := s.interactionRepo.ListInteractedTitleIDs(ctx, nil, req.UserID)
	if err != nil {
		return nil, err
	}

	var languages []string
	profile, err := s.profileRepo.GetByUserID(ctx, nil, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		languages = types.StringList(profile.PreferredLanguages)
	}

	titles, err := s.titleRepo.ListByGenres(ctx, nil, likedGenres, interactedIDs, languages, req.Region, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, nil
	}

	results := make([]RecommendedTitle, 0, len(titles))
	for _, title := range titles {
		results = append(results, RecommendedTitle{Title: title})
	}
	return &RecoPage{Results: results, Page: req.Page, HasMore: len(titles) == req.Limit}, nil
}

func (s *recommendationService) trendingDefault(ctx context.Context, req RecoRequest) (*RecoPage, error) {
	key := s.trendingKey(req)
	var cached RecoPage
	if hit := s.cacheGet(ctx, key, &cached); hit {
		return &cached, nil
	}

	titles, err := s.titleRepo.ListTrending(ctx, nil, req.Region, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]RecommendedTitle, 0, len(titles))
	for _, title := range titles {
		results = append(results, RecommendedTitle{Title: title})
	}

	page := &RecoPage{Results: results, Page: req.Page, HasMore: len(titles) == req.Limit}
	s.cacheSet(ctx, key, page, CacheNSRecoDefault)
	return page, nil
}

// cacheGet and cacheSet are best-effort; a failing cache degrades to live
// queries and is logged, never surfaced.
func (s *recommendationService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *recommendationService) cacheSet(ctx context.Context, key string, value any, namespace string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, CacheTTL(namespace)); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}
