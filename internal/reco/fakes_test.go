package reco

import (
	"context"
	"testing"

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

type fakeUserRepo struct {
	ids []uuid.UUID
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) EnsureExists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	return &types.User{ID: id}, nil
}

func (f *fakeUserRepo) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	return f.ids, nil
}

type fakeTitleRepo struct {
	repos.TitleRepo

	candidates []*types.Title

	gotGenres     []string
	gotExcludeIDs []uuid.UUID
	gotLimit      int
}

func (f *fakeTitleRepo) ListCandidatesByGenres(ctx context.Context, tx *gorm.DB, genres []string, excludeIDs []uuid.UUID, limit int) ([]*types.Title, error) {
	f.gotGenres = genres
	f.gotExcludeIDs = excludeIDs
	f.gotLimit = limit
	return f.candidates, nil
}

type fakeInteractionRepo struct {
	repos.InteractionRepo

	positiveByUser map[uuid.UUID][]*types.Interaction
	gotLimit       int
}

func (f *fakeInteractionRepo) GetRecentPositive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error) {
	f.gotLimit = limit
	rows := f.positiveByUser[userID]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type fakeRecoScoreRepo struct {
	repos.RecoScoreRepo

	rows []*types.RecoScore

	upserted []*types.RecoScore
	merged   map[uuid.UUID]mergeCall
}

type mergeCall struct {
	score float64
	patch map[string]any
}

func (f *fakeRecoScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.RecoScore) (*types.RecoScore, error) {
	for i, existing := range f.upserted {
		if existing.UserID == score.UserID && existing.TitleID == score.TitleID {
			f.upserted[i] = score
			return score, nil
		}
	}
	f.upserted = append(f.upserted, score)
	return score, nil
}

func (f *fakeRecoScoreRepo) ForEachBatch(ctx context.Context, tx *gorm.DB, batchSize int, fn func(batch []*types.RecoScore) error) error {
	for start := 0; start < len(f.rows); start += batchSize {
		end := start + batchSize
		if end > len(f.rows) {
			end = len(f.rows)
		}
		if err := fn(f.rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRecoScoreRepo) UpdateScoreMergeMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, score float64, patch map[string]any) error {
	if f.merged == nil {
		f.merged = map[uuid.UUID]mergeCall{}
	}
	f.merged[id] = mergeCall{score: score, patch: patch}
	return nil
}

type fakeEmbeddingRepo struct {
	repos.EmbeddingRepo

	byTitle map[uuid.UUID]*types.Embedding
}

func (f *fakeEmbeddingRepo) GetByTitleID(ctx context.Context, tx *gorm.DB, titleID uuid.UUID) (*types.Embedding, error) {
	return f.byTitle[titleID], nil
}

func (f *fakeEmbeddingRepo) GetByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uuid.UUID) (map[uuid.UUID]*types.Embedding, error) {
	out := map[uuid.UUID]*types.Embedding{}
	for _, id := range titleIDs {
		if e, ok := f.byTitle[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func genreTitle(genres ...string) *types.Title {
	return &types.Title{
		ID:     uuid.New(),
		Genres: types.JSONStrings(genres),
	}
}

func positiveInteraction(userID uuid.UUID, title *types.Title) *types.Interaction {
	return &types.Interaction{
		ID:      uuid.New(),
		UserID:  userID,
		TitleID: title.ID,
		Title:   title,
		Event:   types.EventLike,
		Score:   types.EventScores[types.EventLike],
	}
}
