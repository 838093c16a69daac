package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TitleTypeMovie  = "MOVIE"
	TitleTypeSeries = "SERIES"
)

type Title struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TmdbID             int64          `gorm:"not null;uniqueIndex;column:tmdb_id" json:"tmdb_id"`
	Type               string         `gorm:"not null;index;column:type" json:"type"`
	OriginalTitle      string         `gorm:"not null;column:original_title" json:"original_title"`
	Overview           string         `gorm:"type:text;column:overview" json:"overview"`
	LocalizedTitles    datatypes.JSON `gorm:"type:jsonb;column:localized_titles" json:"localized_titles,omitempty"`
	LocalizedOverviews datatypes.JSON `gorm:"type:jsonb;column:localized_overviews" json:"localized_overviews,omitempty"`
	Genres             datatypes.JSON `gorm:"type:jsonb;column:genres" json:"genres"`
	PosterPath         string         `gorm:"column:poster_path" json:"poster_path"`
	BackdropPath       string         `gorm:"column:backdrop_path" json:"backdrop_path"`
	Popularity         float64        `gorm:"not null;default:0;index;column:popularity" json:"popularity"`
	Rating             float64        `gorm:"not null;default:0;column:rating" json:"rating"`
	VoteCount          int            `gorm:"not null;default:0;column:vote_count" json:"vote_count"`
	OriginalLanguage   string         `gorm:"column:original_language" json:"original_language"`
	Cast               datatypes.JSON `gorm:"type:jsonb;column:cast_names" json:"cast,omitempty"`
	Crew               datatypes.JSON `gorm:"type:jsonb;column:crew_names" json:"crew,omitempty"`
	ReleaseDate        *time.Time     `gorm:"column:release_date" json:"release_date,omitempty"`
	Runtime            *int           `gorm:"column:runtime" json:"runtime,omitempty"`
	Availability       []Availability `gorm:"foreignKey:TitleID;references:ID" json:"availability,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Title) TableName() string { return "title" }

func (t *Title) GenreList() []string { return StringList(t.Genres) }

func (t *Title) CastList() []string { return StringList(t.Cast) }

// LocalizedTitle resolves the title for a language code, falling back to
// the original title.
func (t *Title) LocalizedTitle(language string) string {
	if m := StringMap(t.LocalizedTitles); m != nil {
		if v, ok := m[language]; ok && v != "" {
			return v
		}
	}
	return t.OriginalTitle
}

func (t *Title) LocalizedOverview(language string) string {
	if m := StringMap(t.LocalizedOverviews); m != nil {
		if v, ok := m[language]; ok && v != "" {
			return v
		}
	}
	return t.Overview
}
