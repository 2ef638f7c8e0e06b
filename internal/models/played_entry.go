package models

import "gorm.io/gorm"

// PlayedEntry marks a game a user has played, together with their 1-10 vote.
// Same uniqueness rule as BacklogEntry: at most one row per (owner, game),
// and a given pair may live in one of the two lists, never both.
type PlayedEntry struct {
	gorm.Model
	OwnerID uint `gorm:"not null;uniqueIndex:idx_played_owner_game"`
	GameID  uint `gorm:"not null;uniqueIndex:idx_played_owner_game"`
	Rating  int  `gorm:"not null;check:rating >= 1 AND rating <= 10"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Game  Game `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
