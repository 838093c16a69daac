package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RecoMethodCollaborative = "collaborative"
)

// RecoScore is the persisted per (user, title) recommendation score. The
// collaborative stage writes it first; the hybrid stage overwrites the
// score in place and merges (never replaces) metadata.
type RecoScore struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reco_score_user_title" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TitleID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reco_score_user_title" json:"title_id"`
	Title     *Title         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TitleID;references:ID" json:"title,omitempty"`
	Score     float64        `gorm:"not null;default:0;index;column:score" json:"score"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (RecoScore) TableName() string { return "reco_score" }

func (s *RecoScore) MetadataMap() map[string]any {
	if len(s.Metadata) == 0 {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(s.Metadata, &out); err != nil {
		return map[string]any{}
	}
	return out
}
