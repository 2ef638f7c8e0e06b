package handler

import (
	"time"

	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// BacklogEntryResponse defines the structure for a "games to play" entry.
type BacklogEntryResponse struct {
	ID        uint         `json:"id"`
	OwnerID   uint         `json:"owner_id"`
	Game      GameResponse `json:"game"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func newBacklogEntryResponse(entry models.BacklogEntry) BacklogEntryResponse {
	return BacklogEntryResponse{
		ID:        entry.ID,
		OwnerID:   entry.OwnerID,
		Game:      newGameResponse(entry.Game),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// PlayedEntryResponse defines the structure for a "games played" entry.
type PlayedEntryResponse struct {
	ID        uint         `json:"id"`
	OwnerID   uint         `json:"owner_id"`
	Rating    int          `json:"rating"`
	Game      GameResponse `json:"game"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func newPlayedEntryResponse(entry models.PlayedEntry) PlayedEntryResponse {
	return PlayedEntryResponse{
		ID:        entry.ID,
		OwnerID:   entry.OwnerID,
		Rating:    entry.Rating,
		Game:      newGameResponse(entry.Game),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// endregion

// currentUserID returns the authenticated caller's ID. The auth middleware
// guarantees it is present on protected routes.
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	id, _ := userID.(uint)
	return id
}

// canModifyEntry applies the ownership rule with admin override: the record's
// owner may mutate it, and so may an admin (unmoderated review content must be
// removable).
func canModifyEntry(c *gin.Context, ownerID uint) bool {
	callerID := currentUserID(c)
	if callerID == ownerID {
		return true
	}

	var caller models.User
	if err := database.DB.First(&caller, callerID).Error; err != nil {
		return false
	}
	return caller.IsAdmin()
}
