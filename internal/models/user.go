package models

import "gorm.io/gorm"

// User represents a user in the system. Email is the login identifier;
// the username is display-oriented and is what the owner-lookup endpoints
// filter on.
type User struct {
	gorm.Model
	Email        string `gorm:"size:255;unique;not null"`
	Username     string `gorm:"size:150;index"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}
