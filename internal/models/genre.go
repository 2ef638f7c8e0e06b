package models

import "gorm.io/gorm"

// Genre represents a game genre (e.g., "RPG", "Platformer", "Roguelike").
type Genre struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
}
