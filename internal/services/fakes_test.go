package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// memCache is an in-process CacheService for tests; TTLs are recorded but
// never enforced.
type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) DelPattern(ctx context.Context, pattern string) error {
	return nil
}

func (c *memCache) Close() error { return nil }

type fakeUserRepo struct {
	ensured []uuid.UUID
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) EnsureExists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	f.ensured = append(f.ensured, id)
	return &types.User{ID: id}, nil
}

func (f *fakeUserRepo) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeProfileRepo struct {
	repos.ProfileRepo

	profile *types.Profile
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	return f.profile, nil
}

type fakeInteractionRepo struct {
	repos.InteractionRepo

	created  []*types.Interaction
	positive []*types.Interaction
}

func (f *fakeInteractionRepo) Create(ctx context.Context, tx *gorm.DB, interaction *types.Interaction) (*types.Interaction, error) {
	f.created = append(f.created, interaction)
	return interaction, nil
}

func (f *fakeInteractionRepo) GetRecentPositive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error) {
	rows := f.positive
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeInteractionRepo) ListInteractedTitleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, row := range f.positive {
		ids = append(ids, row.TitleID)
	}
	return ids, nil
}

type fakeRecoScoreRepo struct {
	repos.RecoScoreRepo

	scores []*types.RecoScore
}

func (f *fakeRecoScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, region string, page, limit int) ([]*types.RecoScore, error) {
	start := (page - 1) * limit
	if start >= len(f.scores) {
		return nil, nil
	}
	end := start + limit
	if end > len(f.scores) {
		end = len(f.scores)
	}
	return f.scores[start:end], nil
}

type fakeTitleRepo struct {
	repos.TitleRepo

	byID     map[uuid.UUID]*types.Title
	byGenres []*types.Title
	trending []*types.Title
	similar  []*types.Title
}

func (f *fakeTitleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, region string) (*types.Title, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, repos.ErrTitleNotFound
}

func (f *fakeTitleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Title, error) {
	var out []*types.Title
	for _, id := range ids {
		if t, ok := f.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTitleRepo) ListByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, languages []string, region string, page, limit int) ([]*types.Title, error) {
	return f.byGenres, nil
}

func (f *fakeTitleRepo) ListTrending(ctx context.Context, tx *gorm.DB, region string, page, limit int) ([]*types.Title, error) {
	rows := f.trending
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeTitleRepo) ListSimilarByGenres(ctx context.Context, tx *gorm.DB, title *types.Title, limit int) ([]*types.Title, error) {
	rows := f.similar
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type fakeEmbeddingRepo struct {
	repos.EmbeddingRepo

	byTitle map[uuid.UUID]*types.Embedding
}

func (f *fakeEmbeddingRepo) GetByTitleID(ctx context.Context, tx *gorm.DB, titleID uuid.UUID) (*types.Embedding, error) {
	return f.byTitle[titleID], nil
}

func (f *fakeEmbeddingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Embedding, error) {
	var out []*types.Embedding
	for _, e := range f.byTitle {
		out = append(out, e)
	}
	return out, nil
}

// fakeTmdb serves only ImageURL; the catalog services never hit the other
// endpoints in unit tests.
type fakeTmdb struct {
	TmdbClient
}

func (f *fakeTmdb) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}

func catalogTitle(name string, popularity float64, genres ...string) *types.Title {
	return &types.Title{
		ID:            uuid.New(),
		TmdbID:        int64(popularity * 1000),
		Type:          types.TitleTypeMovie,
		OriginalTitle: name,
		Genres:        types.JSONStrings(genres),
		Popularity:    popularity,
	}
}
