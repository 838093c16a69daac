package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/db"
	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/services"
	"github.com/cinefindr/cinefindr-backend/internal/types"
	"github.com/cinefindr/cinefindr-backend/internal/utils"
)

const castSnippetSize = 5

// embed backfills content vectors for titles that do not have one yet.
// Each title is rendered to a short text blob and sent to the embeddings
// endpoint in batches.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	titleRepo := repos.NewTitleRepo(thePG, log)
	embeddingRepo := repos.NewEmbeddingRepo(thePG, log)

	client, err := services.NewEmbeddingClient(log)
	if err != nil {
		log.Error("Could not init EmbeddingClient", "error", err)
		os.Exit(1)
	}

	batchSize := utils.GetEnvAsInt("EMBED_BATCH_SIZE", 32, log)
	delay := time.Duration(utils.GetEnvAsInt("EMBED_DELAY_MS", 500, log)) * time.Millisecond

	ctx := context.Background()
	pending, err := embeddingRepo.ListTitleIDsWithout(ctx, nil)
	if err != nil {
		log.Error("Could not list unembedded titles", "error", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		log.Info("All titles already embedded")
		return
	}
	log.Info("Embedding titles...", "pending", len(pending), "batch_size", batchSize)

	embedded := 0
	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		n, err := embedBatch(ctx, titleRepo, embeddingRepo, client, pending[start:end])
		if err != nil {
			log.Warn("Batch failed, continuing", "offset", start, "error", err)
		}
		embedded += n
		if end < len(pending) {
			time.Sleep(delay)
		}
	}

	log.Info("Embedding complete", "embedded", embedded)
}

func embedBatch(
	ctx context.Context,
	titleRepo repos.TitleRepo,
	embeddingRepo repos.EmbeddingRepo,
	client services.EmbeddingClient,
	ids []uuid.UUID,
) (int, error) {
	titles, err := titleRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return 0, err
	}
	if len(titles) == 0 {
		return 0, nil
	}

	inputs := make([]string, 0, len(titles))
	for _, t := range titles {
		inputs = append(inputs, embedText(t))
	}

	vectors, err := client.Embed(ctx, inputs)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(titles) {
		return 0, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(titles), len(vectors))
	}

	stored := 0
	for i, t := range titles {
		if _, err := embeddingRepo.Upsert(ctx, nil, types.NewEmbedding(t.ID, vectors[i])); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// embedText renders a title as the text the vector is computed from:
// name, overview, genres and a short cast snippet, joined with ". ".
func embedText(t *types.Title) string {
	parts := []string{t.OriginalTitle}
	if t.Overview != "" {
		parts = append(parts, t.Overview)
	}
	if genres := t.GenreList(); len(genres) > 0 {
		parts = append(parts, strings.Join(genres, ", "))
	}
	if cast := t.CastList(); len(cast) > 0 {
		if len(cast) > castSnippetSize {
			cast = cast[:castSnippetSize]
		}
		parts = append(parts, strings.Join(cast, ", "))
	}
	return strings.Join(parts, ". ")
}
