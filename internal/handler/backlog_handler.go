package handler

import (
	"net/http"
	"strconv"

	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/library"
	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type BacklogInput struct {
	GameID uint `json:"game_id" binding:"required"`
}

type MoveToPlayedInput struct {
	// Pointer so that an absent rating is distinguishable from zero: the move
	// must fail with a missing-rating error, not an out-of-range one.
	Rating *int `json:"rating"`
}

// AddToBacklog godoc
// @Summary      Add a game to the backlog
// @Description  Adds a game to the caller's "games to play" list. The owner is always the authenticated caller. Fails if the caller already has the game in either list.
// @Tags         backlog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BacklogInput true "Game to add"
// @Success      201 {object} BacklogEntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game already in a list"
// @Router       /backlog [post]
func AddToBacklog(c *gin.Context) {
	var input BacklogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := library.AddToBacklog(database.DB, currentUserID(c), input.GameID)
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	database.DB.Preload("Game.Genres").First(entry, entry.ID)
	c.JSON(http.StatusCreated, newBacklogEntryResponse(*entry))
}

// GetBacklogEntries godoc
// @Summary      List backlog entries
// @Description  Retrieves a paginated list of all backlog entries. Readable by anyone, anonymous callers included.
// @Tags         backlog
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[BacklogEntryResponse]
// @Router       /backlog [get]
func GetBacklogEntries(c *gin.Context) {
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	var totalItems int64
	if err := database.DB.Model(&models.BacklogEntry{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count entries"})
		return
	}

	var entries []models.BacklogEntry
	if err := database.DB.Preload("Game.Genres").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries"})
		return
	}

	response := []BacklogEntryResponse{}
	for _, entry := range entries {
		response = append(response, newBacklogEntryResponse(entry))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetBacklogEntryByID godoc
// @Summary      Get a backlog entry
// @Tags         backlog
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200 {object} BacklogEntryResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /backlog/{id} [get]
func GetBacklogEntryByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.BacklogEntry
	if err := database.DB.Preload("Game.Genres").First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, newBacklogEntryResponse(entry))
}

// GetBacklogByOwner godoc
// @Summary      List a user's backlog
// @Description  Retrieves all backlog entries owned by users with the given username. An unknown username yields an empty list.
// @Tags         backlog
// @Produce      json
// @Param        username path string true "Owner username"
// @Success      200 {array} BacklogEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid username format"
// @Router       /backlog/owner/{username} [get]
func GetBacklogByOwner(c *gin.Context) {
	entries, err := library.BacklogByOwner(database.DB, c.Param("username"))
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	response := []BacklogEntryResponse{}
	for _, entry := range entries {
		response = append(response, newBacklogEntryResponse(entry))
	}

	c.JSON(http.StatusOK, response)
}

// DeleteBacklogEntry godoc
// @Summary      Delete a backlog entry
// @Description  Removes an entry from the backlog. Restricted to the entry's owner or an admin.
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry ID"
// @Success      200 {object} map[string]string "{"message": "Entry deleted"}"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /backlog/{id} [delete]
func DeleteBacklogEntry(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.BacklogEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if !canModifyEntry(c, entry.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own entries"})
		return
	}

	if err := library.DeleteBacklogEntry(database.DB, entry.ID); err != nil {
		respondLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// MoveToPlayed godoc
// @Summary      Move a backlog entry to the played list
// @Description  Atomically deletes the backlog entry and creates a played entry with the given rating. If the game is already in the played list the backlog entry is left untouched.
// @Tags         backlog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int               true "Entry ID"
// @Param        input body MoveToPlayedInput true "Rating for the played entry"
// @Success      200 {object} PlayedEntryResponse
// @Failure      400 {object} ErrorResponse "Missing or invalid rating"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Failure      409 {object} ErrorResponse "Game already in the played list"
// @Router       /backlog/{id}/move-to-played [post]
func MoveToPlayed(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.BacklogEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if !canModifyEntry(c, entry.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own entries"})
		return
	}

	var input MoveToPlayedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := library.MoveToPlayed(database.DB, entry.ID, input.Rating)
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	database.DB.Preload("Game.Genres").First(created, created.ID)
	c.JSON(http.StatusOK, newPlayedEntryResponse(*created))
}
