package models

import (
	"time"

	"gorm.io/gorm"
)

// PegiRating is the fixed PEGI age classification attached to a game.
type PegiRating int

const (
	Pegi3  PegiRating = 3
	Pegi7  PegiRating = 7
	Pegi12 PegiRating = 12
	Pegi16 PegiRating = 16
	Pegi18 PegiRating = 18
)

// Valid reports whether the value is one of the five PEGI classifications.
func (p PegiRating) Valid() bool {
	switch p {
	case Pegi3, Pegi7, Pegi12, Pegi16, Pegi18:
		return true
	}
	return false
}

// Game represents a game in the shared catalog.
//
// GlobalRating and RatingCount are derived from the live set of PlayedEntry
// rows for the game. They are maintained by the library package inside the
// same transaction as the triggering write and must never be set by handlers.
type Game struct {
	gorm.Model
	Title       string `gorm:"size:100;not null"`
	Description string
	Publisher   string     `gorm:"size:100"`
	Pegi        PegiRating `gorm:"not null"`
	ReleaseDate time.Time
	BoxArt      []byte

	GlobalRating float64 `gorm:"not null;default:0"`
	RatingCount  int     `gorm:"not null;default:0"`

	Genres []*Genre `gorm:"many2many:game_genres;"`
}
