package reco

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

const (
	// Interactions feeding a user's genre-affinity profile.
	collabInteractionWindow = 50
	// Candidate titles scored per user.
	collabCandidateLimit = 100
)

// CollaborativeScorer derives a genre-affinity profile per user from
// recent positive interactions and scores unseen titles by genre overlap
// ratio. Scores are upserted keyed on (user, title), so reruns with
// unchanged interactions are idempotent.
type CollaborativeScorer struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	titleRepo       repos.TitleRepo
	interactionRepo repos.InteractionRepo
	recoScoreRepo   repos.RecoScoreRepo
}

func NewCollaborativeScorer(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	titleRepo repos.TitleRepo,
	interactionRepo repos.InteractionRepo,
	recoScoreRepo repos.RecoScoreRepo,
) *CollaborativeScorer {
	return &CollaborativeScorer{
		db:              db,
		log:             log.With("job", "CollaborativeScorer"),
		userRepo:        userRepo,
		titleRepo:       titleRepo,
		interactionRepo: interactionRepo,
		recoScoreRepo:   recoScoreRepo,
	}
}

// Run scores every user sequentially. A store-level failure aborts the
// job; there is no per-user recovery at this stage because each step is a
// plain store round trip.
func (s *CollaborativeScorer) Run(ctx context.Context) error {
	s.log.Info("Computing collaborative scores...")

	userIDs, err := s.userRepo.ListIDs(ctx, nil)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		scored, err := s.scoreUser(ctx, userID)
		if err != nil {
			return err
		}
		if scored > 0 {
			s.log.Info("Computed scores for user", "user_id", userID, "candidates", scored)
		}
	}
	return nil
}

func (s *CollaborativeScorer) scoreUser(ctx context.Context, userID uuid.UUID) (int, error) {
	interactions, err := s.interactionRepo.GetRecentPositive(ctx, nil, userID, collabInteractionWindow)
	if err != nil {
		return 0, err
	}
	// Users with no qualifying interactions are skipped entirely; no
	// fallback scoring happens at this stage.
	if len(interactions) == 0 {
		return 0, nil
	}

	likedGenres := LikedGenres(interactions)
	likedTitleIDs := make([]uuid.UUID, 0, len(interactions))
	for _, interaction := range interactions {
		likedTitleIDs = append(likedTitleIDs, interaction.TitleID)
	}

	candidates, err := s.titleRepo.ListCandidatesByGenres(ctx, nil, likedGenres, likedTitleIDs, collabCandidateLimit)
	if err != nil {
		return 0, err
	}

	for _, candidate := range candidates {
		overlap, score := GenreOverlapScore(candidate.GenreList(), likedGenres)
		record := &types.RecoScore{
			ID:      uuid.New(),
			UserID:  userID,
			TitleID: candidate.ID,
			Score:   score,
			Metadata: types.JSONMap(map[string]any{
				"method":       types.RecoMethodCollaborative,
				"genreOverlap": overlap,
			}),
		}
		if _, err := s.recoScoreRepo.Upsert(ctx, nil, record); err != nil {
			return 0, err
		}
	}
	return len(candidates), nil
}

// GenreOverlapScore returns the raw overlap count and the overlap ratio
// overlap / max(len(candidateGenres), 1). The floor of 1 keeps zero-genre
// candidates at score 0 instead of dividing by zero, and the ratio is
// always within [0, 1].
func GenreOverlapScore(candidateGenres, likedGenres []string) (int, float64) {
	liked := make(map[string]struct{}, len(likedGenres))
	for _, genre := range likedGenres {
		liked[genre] = struct{}{}
	}

	overlap := 0
	for _, genre := range candidateGenres {
		if _, ok := liked[genre]; ok {
			overlap++
		}
	}

	denominator := len(candidateGenres)
	if denominator < 1 {
		denominator = 1
	}
	return overlap, float64(overlap) / float64(denominator)
}

// LikedGenres deduplicates the genres of interacted titles, preserving
// first-seen order.
func LikedGenres(interactions []*types.Interaction) []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, interaction := range interactions {
		if interaction.Title == nil {
			continue
		}
		for _, genre := range interaction.Title.GenreList() {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}
	return genres
}
