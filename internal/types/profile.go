package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Profile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PreferredGenres    datatypes.JSON `gorm:"type:jsonb;column:preferred_genres" json:"preferred_genres"`
	PreferredLanguages datatypes.JSON `gorm:"type:jsonb;column:preferred_languages" json:"preferred_languages"`
	PreferredProviders datatypes.JSON `gorm:"type:jsonb;column:preferred_providers" json:"preferred_providers"`
	Region             string         `gorm:"not null;default:'US';column:region" json:"region"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

// DefaultProfile is the profile created lazily on first access.
func DefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:                 uuid.New(),
		UserID:             userID,
		PreferredGenres:    JSONStrings(nil),
		PreferredLanguages: JSONStrings([]string{"en"}),
		PreferredProviders: JSONStrings(nil),
		Region:             "US",
	}
}
