package types

import (
	"time"

	"github.com/google/uuid"
)

type Genre struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TmdbID     int64     `gorm:"not null;uniqueIndex;column:tmdb_id" json:"tmdb_id"`
	Name       string    `gorm:"not null;uniqueIndex;column:name" json:"name"`
	TitleCount int64     `gorm:"->;-:migration" json:"title_count,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Genre) TableName() string { return "genre" }
