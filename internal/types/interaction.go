package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventImpression = "IMPRESSION"
	EventClick      = "CLICK"
	EventLike       = "LIKE"
	EventSave       = "SAVE"
	EventStart      = "START"
	EventComplete   = "COMPLETE"
)

// EventScores maps an interaction event to its fixed weight. Unknown
// events score 0 but are still recorded.
var EventScores = map[string]float64{
	EventImpression: 0.1,
	EventClick:      0.3,
	EventLike:       1.0,
	EventSave:       1.2,
	EventStart:      0.5,
	EventComplete:   1.5,
}

// PositiveEvents are the events that feed genre affinity and content
// similarity in the scoring job.
var PositiveEvents = []string{EventLike, EventSave, EventComplete}

// Interaction rows are append-only; they are never updated after creation.
type Interaction struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TitleID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"title_id"`
	Title     *Title         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TitleID;references:ID" json:"title,omitempty"`
	Event     string         `gorm:"not null;index;column:event" json:"event"`
	Score     float64        `gorm:"not null;default:0;column:score" json:"score"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Interaction) TableName() string { return "interaction" }
