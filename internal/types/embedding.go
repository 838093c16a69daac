package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Embedding holds one vector per title, stored as a JSONB float array and
// overwritten on recompute.
type Embedding struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TitleID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"title_id"`
	Title     *Title         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TitleID;references:ID" json:"title,omitempty"`
	Vector    datatypes.JSON `gorm:"type:jsonb;not null;column:vector" json:"-"`
	Dim       int            `gorm:"not null;default:0;column:dim" json:"dim"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Embedding) TableName() string { return "embedding" }

func NewEmbedding(titleID uuid.UUID, vector []float32) *Embedding {
	raw, _ := json.Marshal(vector)
	return &Embedding{
		ID:      uuid.New(),
		TitleID: titleID,
		Vector:  datatypes.JSON(raw),
		Dim:     len(vector),
	}
}

// Floats decodes the stored vector. A malformed or empty vector is an
// error so scoring can skip the row.
func (e *Embedding) Floats() ([]float32, error) {
	if len(e.Vector) == 0 {
		return nil, fmt.Errorf("embedding %s: empty vector", e.ID)
	}
	var out []float32
	if err := json.Unmarshal(e.Vector, &out); err != nil {
		return nil, fmt.Errorf("embedding %s: malformed vector: %w", e.ID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("embedding %s: zero-length vector", e.ID)
	}
	return out, nil
}
