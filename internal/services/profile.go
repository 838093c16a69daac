package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

type UpdateProfileInput struct {
	PreferredGenres    []string `json:"preferredGenres,omitempty"`
	PreferredLanguages []string `json:"preferredLanguages,omitempty"`
	PreferredProviders []string `json:"preferredProviders,omitempty"`
	Region             string   `json:"region,omitempty"`
}

type ProfileResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Profile *types.Profile `json:"profile,omitempty"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResult, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// GetProfile creates the default profile lazily on first access.
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	if _, err := s.userRepo.EnsureExists(ctx, nil, userID); err != nil {
		return nil, err
	}
	return s.profileRepo.Create(ctx, nil, types.DefaultProfile(userID))
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResult, error) {
	if userID == uuid.Nil {
		return &ProfileResult{Success: false, Message: "User ID required"}, nil
	}

	if _, err := s.userRepo.EnsureExists(ctx, nil, userID); err != nil {
		return nil, err
	}

	profile := types.DefaultProfile(userID)
	if existing, err := s.profileRepo.GetByUserID(ctx, nil, userID); err != nil {
		return nil, err
	} else if existing != nil {
		profile = existing
	}

	if input.PreferredGenres != nil {
		profile.PreferredGenres = types.JSONStrings(input.PreferredGenres)
	}
	if input.PreferredLanguages != nil {
		profile.PreferredLanguages = types.JSONStrings(input.PreferredLanguages)
	}
	if input.PreferredProviders != nil {
		profile.PreferredProviders = types.JSONStrings(input.PreferredProviders)
	}
	if input.Region != "" {
		profile.Region = input.Region
	}

	updated, err := s.profileRepo.Upsert(ctx, nil, profile)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{Success: true, Profile: updated}, nil
}
