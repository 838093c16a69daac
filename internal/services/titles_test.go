package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/types"
)

func newTitleService(t *testing.T, titles *fakeTitleRepo, embeddings *fakeEmbeddingRepo) TitleService {
	t.Helper()
	return NewTitleService(nil, testLogger(t), newMemCache(), titles, embeddings, &fakeTmdb{})
}

func TestGetTitleByID_NotFound(t *testing.T) {
	svc := newTitleService(t, &fakeTitleRepo{byID: map[uuid.UUID]*types.Title{}}, &fakeEmbeddingRepo{})

	_, err := svc.GetTitleByID(context.Background(), uuid.New(), "en-US", "US")
	if !errors.Is(err, ErrTitleNotFound) {
		t.Fatalf("err = %v, want ErrTitleNotFound", err)
	}
}

func TestGetTitleByID_LocalizesAndBuildsImageURLs(t *testing.T) {
	title := catalogTitle("Original Name", 10, "Drama")
	title.PosterPath = "/poster.jpg"
	title.LocalizedTitles = types.JSONMap(map[string]any{"fr-FR": "Nom Localisé"})

	svc := newTitleService(t, &fakeTitleRepo{byID: map[uuid.UUID]*types.Title{title.ID: title}}, &fakeEmbeddingRepo{})

	details, err := svc.GetTitleByID(context.Background(), title.ID, "fr-FR", "US")
	if err != nil {
		t.Fatalf("GetTitleByID: %v", err)
	}
	if details.LocalizedTitle != "Nom Localisé" {
		t.Fatalf("localized title = %q", details.LocalizedTitle)
	}
	if details.PosterURL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("poster url = %q", details.PosterURL)
	}

	// Missing locale falls back to the original name.
	fallback, err := svc.GetTitleByID(context.Background(), title.ID, "de-DE", "US")
	if err != nil {
		t.Fatalf("GetTitleByID: %v", err)
	}
	if fallback.LocalizedTitle != "Original Name" {
		t.Fatalf("fallback title = %q", fallback.LocalizedTitle)
	}
}

func TestGetSimilarTitles_RanksByCosine(t *testing.T) {
	anchor := catalogTitle("Anchor", 10, "Action")
	near := catalogTitle("Near", 5, "Action")
	far := catalogTitle("Far", 5, "Comedy")

	titles := &fakeTitleRepo{byID: map[uuid.UUID]*types.Title{
		anchor.ID: anchor,
		near.ID:   near,
		far.ID:    far,
	}}
	embeddings := &fakeEmbeddingRepo{byTitle: map[uuid.UUID]*types.Embedding{
		anchor.ID: types.NewEmbedding(anchor.ID, []float32{1, 0}),
		near.ID:   types.NewEmbedding(near.ID, []float32{0.9, 0.1}),
		far.ID:    types.NewEmbedding(far.ID, []float32{0, 1}),
	}}

	svc := newTitleService(t, titles, embeddings)
	got, err := svc.GetSimilarTitles(context.Background(), anchor.ID, "en-US", 10)
	if err != nil {
		t.Fatalf("GetSimilarTitles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (anchor excluded)", len(got))
	}
	if got[0].OriginalTitle != "Near" || got[1].OriginalTitle != "Far" {
		t.Fatalf("ranking wrong: %q then %q", got[0].OriginalTitle, got[1].OriginalTitle)
	}
	if got[0].Similarity == nil || *got[0].Similarity <= *got[1].Similarity {
		t.Fatalf("similarities not descending: %v, %v", got[0].Similarity, got[1].Similarity)
	}
}

func TestGetSimilarTitles_GenreFallbackWithoutEmbedding(t *testing.T) {
	anchor := catalogTitle("Anchor", 10, "Action")
	neighbor := catalogTitle("Neighbor", 5, "Action")

	titles := &fakeTitleRepo{
		byID:    map[uuid.UUID]*types.Title{anchor.ID: anchor},
		similar: []*types.Title{neighbor},
	}
	svc := newTitleService(t, titles, &fakeEmbeddingRepo{})

	got, err := svc.GetSimilarTitles(context.Background(), anchor.ID, "en-US", 10)
	if err != nil {
		t.Fatalf("GetSimilarTitles: %v", err)
	}
	if len(got) != 1 || got[0].OriginalTitle != "Neighbor" {
		t.Fatalf("genre fallback not used: %+v", got)
	}
	if got[0].Similarity != nil {
		t.Fatalf("genre fallback carries no similarity")
	}
}

func TestGetSimilarTitles_RespectsLimit(t *testing.T) {
	anchor := catalogTitle("Anchor", 10, "Action")
	titles := &fakeTitleRepo{byID: map[uuid.UUID]*types.Title{anchor.ID: anchor}}
	embeddings := &fakeEmbeddingRepo{byTitle: map[uuid.UUID]*types.Embedding{
		anchor.ID: types.NewEmbedding(anchor.ID, []float32{1, 0}),
	}}
	for i := 0; i < 5; i++ {
		other := catalogTitle("Other", float64(i+1), "Action")
		titles.byID[other.ID] = other
		embeddings.byTitle[other.ID] = types.NewEmbedding(other.ID, []float32{1, 0})
	}

	svc := newTitleService(t, titles, embeddings)
	got, err := svc.GetSimilarTitles(context.Background(), anchor.ID, "en-US", 3)
	if err != nil {
		t.Fatalf("GetSimilarTitles: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
}
