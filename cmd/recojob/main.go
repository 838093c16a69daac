package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cinefindr/cinefindr-backend/internal/db"
	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/reco"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
)

// recojob runs the two scoring passes back to back: the collaborative
// pass seeds reco_score rows from genre overlap, then the hybrid pass
// blends in embedding similarity for users with embedded history.
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

	userRepo := repos.NewUserRepo(thePG, log)
	titleRepo := repos.NewTitleRepo(thePG, log)
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	embeddingRepo := repos.NewEmbeddingRepo(thePG, log)
	recoScoreRepo := repos.NewRecoScoreRepo(thePG, log)

	ctx := context.Background()

	collaborative := reco.NewCollaborativeScorer(thePG, log, userRepo, titleRepo, interactionRepo, recoScoreRepo)
	if err := collaborative.Run(ctx); err != nil {
		log.Error("Collaborative scoring failed", "error", err)
		os.Exit(1)
	}

	hybrid := reco.NewHybridScorer(thePG, log, interactionRepo, embeddingRepo, recoScoreRepo, reco.WeightsFromEnv(log))
	if err := hybrid.Run(ctx); err != nil {
		log.Error("Hybrid scoring failed", "error", err)
		os.Exit(1)
	}

	log.Info("Recommendation scoring complete")
}
