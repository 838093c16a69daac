package reco

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
	"github.com/cinefindr/cinefindr-backend/internal/utils"
)

const (
	// Recent positive interactions blended into a row's content score.
	hybridInteractionWindow = 10
	hybridBatchSize         = 200
)

// Weights blend averaged content similarity with the prior collaborative
// score. They are deliberately not normalized to sum to 1; the stored
// weights are applied exactly as configured.
type Weights struct {
	Content float64
	Collab  float64
}

func WeightsFromEnv(log *logger.Logger) Weights {
	return Weights{
		Content: utils.GetEnvAsFloat("RECO_CONTENT_WEIGHT", 0.6, log),
		Collab:  utils.GetEnvAsFloat("RECO_COLLAB_WEIGHT", 0.4, log),
	}
}

// Blend computes contentWeight*avgContentSim + collabWeight*collabScore.
func (w Weights) Blend(avgContentSim, collabScore float64) float64 {
	return w.Content*avgContentSim + w.Collab*collabScore
}

// HybridScorer walks existing score rows and blends in content similarity
// where embeddings exist. Row-scoped problems (missing embedding, no
// qualifying interactions, malformed vector) skip the row and the batch
// continues; only store-level failures abort the job.
type HybridScorer struct {
	db              *gorm.DB
	log             *logger.Logger
	interactionRepo repos.InteractionRepo
	embeddingRepo   repos.EmbeddingRepo
	recoScoreRepo   repos.RecoScoreRepo
	weights         Weights
}

func NewHybridScorer(
	db *gorm.DB,
	log *logger.Logger,
	interactionRepo repos.InteractionRepo,
	embeddingRepo repos.EmbeddingRepo,
	recoScoreRepo repos.RecoScoreRepo,
	weights Weights,
) *HybridScorer {
	return &HybridScorer{
		db:              db,
		log:             log.With("job", "HybridScorer"),
		interactionRepo: interactionRepo,
		embeddingRepo:   embeddingRepo,
		recoScoreRepo:   recoScoreRepo,
		weights:         weights,
	}
}

func (s *HybridScorer) Run(ctx context.Context) error {
	s.log.Info("Computing hybrid scores...", "content_weight", s.weights.Content, "collab_weight", s.weights.Collab)

	updated := 0
	err := s.recoScoreRepo.ForEachBatch(ctx, nil, hybridBatchSize, func(batch []*types.RecoScore) error {
		for _, row := range batch {
			ok, err := s.scoreRow(ctx, row)
			if err != nil {
				// Row-scoped failure: log and move on, reruns will
				// revisit it (upserts are idempotent).
				s.log.Warn("skipping score row", "score_id", row.ID, "user_id", row.UserID, "title_id", row.TitleID, "error", err)
				continue
			}
			if ok {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Hybrid scores computed", "updated", updated)
	return nil
}

// scoreRow returns (false, nil) when the row does not qualify for a
// hybrid score and keeps its collaborative value.
func (s *HybridScorer) scoreRow(ctx context.Context, row *types.RecoScore) (bool, error) {
	candidate, err := s.embeddingRepo.GetByTitleID(ctx, nil, row.TitleID)
	if err != nil {
		return false, err
	}
	if candidate == nil {
		return false, nil
	}
	candidateVec, err := candidate.Floats()
	if err != nil {
		return false, err
	}

	interactions, err := s.interactionRepo.GetRecentPositive(ctx, nil, row.UserID, hybridInteractionWindow)
	if err != nil {
		return false, err
	}
	if len(interactions) == 0 {
		return false, nil
	}

	titleIDs := make([]uuid.UUID, 0, len(interactions))
	for _, interaction := range interactions {
		titleIDs = append(titleIDs, interaction.TitleID)
	}
	embeddings, err := s.embeddingRepo.GetByTitleIDs(ctx, nil, titleIDs)
	if err != nil {
		return false, err
	}

	totalSim := 0.0
	valid := 0
	for _, interaction := range interactions {
		embedding, ok := embeddings[interaction.TitleID]
		if !ok {
			continue
		}
		vector, err := embedding.Floats()
		if err != nil {
			return false, fmt.Errorf("interaction title %s: %w", interaction.TitleID, err)
		}
		totalSim += Cosine(candidateVec, vector)
		valid++
	}
	if valid == 0 {
		return false, nil
	}

	avgContentSim := totalSim / float64(valid)
	collabScore := row.Score
	hybridScore := s.weights.Blend(avgContentSim, collabScore)

	patch := map[string]any{
		"contentSim":  avgContentSim,
		"collabScore": collabScore,
		"hybridScore": hybridScore,
	}
	if err := s.recoScoreRepo.UpdateScoreMergeMetadata(ctx, nil, row.ID, hybridScore, patch); err != nil {
		return false, err
	}
	return true, nil
}
