package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type CreateInteractionInput struct {
	TitleID  uuid.UUID      `json:"titleId" binding:"required"`
	Event    string         `json:"event" binding:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// InteractionResult mirrors the wire shape: a missing user id is a
// structured failure, not an error.
type InteractionResult struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Interaction *types.Interaction `json:"interaction,omitempty"`
}

type InteractionService interface {
	RecordInteraction(ctx context.Context, userID uuid.UUID, input CreateInteractionInput) (*InteractionResult, error)
	GetUserInteractions(ctx context.Context, userID uuid.UUID, titleID *uuid.UUID) ([]*types.Interaction, error)
}

type interactionService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	interactionRepo repos.InteractionRepo
}

func NewInteractionService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, interactionRepo repos.InteractionRepo) InteractionService {
	return &interactionService{
		db:              db,
		log:             log.With("service", "InteractionService"),
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *interactionService) RecordInteraction(ctx context.Context, userID uuid.UUID, input CreateInteractionInput) (*InteractionResult, error) {
	if userID == uuid.Nil {
		return &InteractionResult{Success: false, Message: "User ID required"}, nil
	}

	if _, err := s.userRepo.EnsureExists(ctx, nil, userID); err != nil {
		return nil, err
	}

	// Unknown event kinds are recorded at weight 0, never rejected.
	interaction := &types.Interaction{
		ID:       uuid.New(),
		UserID:   userID,
		TitleID:  input.TitleID,
		Event:    input.Event,
		Score:    types.EventScores[input.Event],
		Metadata: types.JSONMap(input.Metadata),
	}

	created, err := s.interactionRepo.Create(ctx, nil, interaction)
	if err != nil {
		return nil, err
	}
	return &InteractionResult{Success: true, Interaction: created}, nil
}

func (s *interactionService) GetUserInteractions(ctx context.Context, userID uuid.UUID, titleID *uuid.UUID) ([]*types.Interaction, error) {
	return s.interactionRepo.GetByUser(ctx, nil, userID, titleID, 100)
}
