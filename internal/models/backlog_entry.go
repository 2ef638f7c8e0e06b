package models

import "gorm.io/gorm"

// BacklogEntry marks a game a user still wants to play.
//
// The composite unique index on (OwnerID, GameID) caps each pair at one row
// and doubles as the race backstop for the mutual-exclusion checks in the
// library package: a racing duplicate insert fails on the constraint instead
// of slipping past the pre-check.
type BacklogEntry struct {
	gorm.Model
	OwnerID uint `gorm:"not null;uniqueIndex:idx_backlog_owner_game"`
	GameID  uint `gorm:"not null;uniqueIndex:idx_backlog_owner_game"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Game  Game `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
