package types

import (
	"time"

	"github.com/google/uuid"
)

// Availability records where a title can be watched in a region.
type Availability struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TitleID      uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_title_region" json:"title_id"`
	Region       string    `gorm:"not null;index:idx_availability_title_region;column:region" json:"region"`
	ProviderName string    `gorm:"not null;column:provider_name" json:"provider_name"`
	Kind         string    `gorm:"not null;default:'flatrate';column:kind" json:"kind"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Availability) TableName() string { return "availability" }
