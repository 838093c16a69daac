package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/types"
)

func newRecoService(t *testing.T, cache CacheService, profiles *fakeProfileRepo, titles *fakeTitleRepo, interactions *fakeInteractionRepo, scores *fakeRecoScoreRepo) RecommendationService {
	t.Helper()
	return NewRecommendationService(nil, testLogger(t), cache, profiles, titles, interactions, scores)
}

func TestGetPersonalized_ServesPrecomputedScores(t *testing.T) {
	userID := uuid.New()
	title := catalogTitle("Scored Movie", 50, "Action")
	scores := &fakeRecoScoreRepo{scores: []*types.RecoScore{
		{ID: uuid.New(), UserID: userID, TitleID: title.ID, Title: title, Score: 0.8},
	}}
	titles := &fakeTitleRepo{trending: []*types.Title{catalogTitle("Trending", 99)}}

	svc := newRecoService(t, newMemCache(), &fakeProfileRepo{}, titles, &fakeInteractionRepo{}, scores)
	page, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID, Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(page.Results))
	}
	got := page.Results[0]
	if got.OriginalTitle != "Scored Movie" {
		t.Fatalf("served %q, want precomputed title", got.OriginalTitle)
	}
	if got.RecommendationScore == nil || *got.RecommendationScore != 0.8 {
		t.Fatalf("score not attached: %v", got.RecommendationScore)
	}
}

func TestGetPersonalized_FallsBackToContentBased(t *testing.T) {
	userID := uuid.New()
	liked := catalogTitle("Liked", 10, "Drama")
	titles := &fakeTitleRepo{
		byGenres: []*types.Title{catalogTitle("Genre Match", 20, "Drama")},
		trending: []*types.Title{catalogTitle("Trending", 99)},
	}
	interactions := &fakeInteractionRepo{positive: []*types.Interaction{
		{ID: uuid.New(), UserID: userID, TitleID: liked.ID, Title: liked, Event: types.EventLike},
	}}

	svc := newRecoService(t, newMemCache(), &fakeProfileRepo{}, titles, interactions, &fakeRecoScoreRepo{})
	page, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].OriginalTitle != "Genre Match" {
		t.Fatalf("expected content-based tier, got %+v", page.Results)
	}
	if page.Results[0].RecommendationScore != nil {
		t.Fatalf("content-based results carry no score")
	}
}

func TestGetPersonalized_FallsBackToTrending(t *testing.T) {
	userID := uuid.New()
	titles := &fakeTitleRepo{trending: []*types.Title{catalogTitle("Trending", 99)}}

	svc := newRecoService(t, newMemCache(), &fakeProfileRepo{}, titles, &fakeInteractionRepo{}, &fakeRecoScoreRepo{})
	page, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].OriginalTitle != "Trending" {
		t.Fatalf("expected trending tier, got %+v", page.Results)
	}
}

func TestGetPersonalized_AnonymousGetsTrending(t *testing.T) {
	titles := &fakeTitleRepo{trending: []*types.Title{catalogTitle("Trending", 99)}}
	scores := &fakeRecoScoreRepo{scores: []*types.RecoScore{
		{ID: uuid.New(), UserID: uuid.New(), TitleID: uuid.New(), Score: 1},
	}}

	svc := newRecoService(t, newMemCache(), &fakeProfileRepo{}, titles, &fakeInteractionRepo{}, scores)
	page, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: uuid.Nil})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].OriginalTitle != "Trending" {
		t.Fatalf("anonymous request should serve trending, got %+v", page.Results)
	}
}

func TestGetPersonalized_HasMore(t *testing.T) {
	userID := uuid.New()
	var rows []*types.RecoScore
	for i := 0; i < 3; i++ {
		title := catalogTitle("T", float64(i+1), "Action")
		rows = append(rows, &types.RecoScore{ID: uuid.New(), UserID: userID, TitleID: title.ID, Title: title, Score: 0.5})
	}
	svc := newRecoService(t, newMemCache(), &fakeProfileRepo{}, &fakeTitleRepo{}, &fakeInteractionRepo{}, &fakeRecoScoreRepo{scores: rows})

	full, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID, Page: 1, Limit: 3})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if !full.HasMore {
		t.Fatalf("page filled to limit should report hasMore")
	}

	partial, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID, Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}
	if partial.HasMore {
		t.Fatalf("short page should not report hasMore")
	}
}

func TestGetPersonalized_CachesPrecomputedPage(t *testing.T) {
	userID := uuid.New()
	title := catalogTitle("Scored", 50, "Action")
	scores := &fakeRecoScoreRepo{scores: []*types.RecoScore{
		{ID: uuid.New(), UserID: userID, TitleID: title.ID, Title: title, Score: 0.8},
	}}
	cache := newMemCache()

	svc := newRecoService(t, cache, &fakeProfileRepo{}, &fakeTitleRepo{}, &fakeInteractionRepo{}, scores)
	if _, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID}); err != nil {
		t.Fatalf("GetPersonalized: %v", err)
	}

	key := CacheKey(CacheNSReco, userID.String(), "en-US", "US", "1", "20")
	if _, ok := cache.data[key]; !ok {
		t.Fatalf("precomputed page not cached under %q; keys: %v", key, cacheKeys(cache))
	}
	if cache.ttls[key] != CacheTTL(CacheNSReco) {
		t.Fatalf("cached with ttl %v, want %v", cache.ttls[key], CacheTTL(CacheNSReco))
	}

	// Second call is served from cache: empty out the store and re-request.
	scores.scores = nil
	page, err := svc.GetPersonalized(context.Background(), RecoRequest{UserID: userID})
	if err != nil {
		t.Fatalf("GetPersonalized (cached): %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("cached page lost results: %+v", page)
	}
}

func cacheKeys(c *memCache) []string {
	var keys []string
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}
