package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Provider struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TmdbID          int64          `gorm:"not null;uniqueIndex;column:tmdb_id" json:"tmdb_id"`
	Name            string         `gorm:"not null;column:name" json:"name"`
	LogoPath        string         `gorm:"column:logo_path" json:"logo_path"`
	Regions         datatypes.JSON `gorm:"type:jsonb;column:regions" json:"regions"`
	DisplayPriority int            `gorm:"not null;default:0;column:display_priority" json:"display_priority"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Provider) TableName() string { return "provider" }

func (p *Provider) RegionList() []string { return StringList(p.Regions) }
