package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API emits budget as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// MediaType is the kind of media a favorite refers to.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether t is one of the two supported kinds.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// Favorite is a media entry owned by exactly one user. Every read, update
// and delete is scoped by UserID at the repository layer.
type Favorite struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	UserID          uint             `json:"userId" gorm:"not null;index"`
	Title           string           `json:"title" gorm:"size:255;not null"`
	Type            MediaType        `json:"type" gorm:"type:varchar(10);not null;index"`
	Director        *string          `json:"director" gorm:"size:255"`
	Budget          *decimal.Decimal `json:"budget" gorm:"type:decimal(15,2)"`
	Location        *string          `json:"location" gorm:"size:255"`
	DurationMinutes *uint            `json:"durationMinutes"`
	Year            *int             `json:"year" gorm:"index"`
	Description     *string          `json:"description" gorm:"type:text"`
	Rating          *float64         `json:"rating"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
