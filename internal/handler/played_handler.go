package handler

import (
	"net/http"
	"strconv"

	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/library"
	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Rating has no binding tag on purpose: range checking belongs to the
// library package, so an absent or zero rating surfaces as its typed
// invalid-rating error rather than a generic binding failure.
type PlayedInput struct {
	GameID uint `json:"game_id" binding:"required"`
	Rating int  `json:"rating"`
}

type RatingInput struct {
	Rating int `json:"rating"`
}

// AddToPlayed godoc
// @Summary      Add a game to the played list
// @Description  Adds a game to the caller's "games played" list with a 1-10 rating. The owner is always the authenticated caller. Fails if the caller has the game in the backlog.
// @Tags         played
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PlayedInput true "Game and rating"
// @Success      201 {object} PlayedEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid rating"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game already in a list"
// @Router       /played [post]
func AddToPlayed(c *gin.Context) {
	var input PlayedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := library.AddToPlayed(database.DB, currentUserID(c), input.GameID, input.Rating)
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	database.DB.Preload("Game.Genres").First(entry, entry.ID)
	c.JSON(http.StatusCreated, newPlayedEntryResponse(*entry))
}

// GetPlayedEntries godoc
// @Summary      List played entries
// @Description  Retrieves a paginated list of all played entries. Readable by anyone, anonymous callers included.
// @Tags         played
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PlayedEntryResponse]
// @Router       /played [get]
func GetPlayedEntries(c *gin.Context) {
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	var totalItems int64
	if err := database.DB.Model(&models.PlayedEntry{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count entries"})
		return
	}

	var entries []models.PlayedEntry
	if err := database.DB.Preload("Game.Genres").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries"})
		return
	}

	response := []PlayedEntryResponse{}
	for _, entry := range entries {
		response = append(response, newPlayedEntryResponse(entry))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetPlayedEntryByID godoc
// @Summary      Get a played entry
// @Tags         played
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200 {object} PlayedEntryResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /played/{id} [get]
func GetPlayedEntryByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.PlayedEntry
	if err := database.DB.Preload("Game.Genres").First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, newPlayedEntryResponse(entry))
}

// GetPlayedByOwner godoc
// @Summary      List a user's played games
// @Description  Retrieves all played entries owned by users with the given username. An unknown username yields an empty list.
// @Tags         played
// @Produce      json
// @Param        username path string true "Owner username"
// @Success      200 {array} PlayedEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid username format"
// @Router       /played/owner/{username} [get]
func GetPlayedByOwner(c *gin.Context) {
	entries, err := library.PlayedByOwner(database.DB, c.Param("username"))
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	response := []PlayedEntryResponse{}
	for _, entry := range entries {
		response = append(response, newPlayedEntryResponse(entry))
	}

	c.JSON(http.StatusOK, response)
}

// UpdatePlayedRating godoc
// @Summary      Update the rating of a played entry
// @Description  Changes the vote on a played entry and refreshes the game's community rating. Restricted to the entry's owner or an admin.
// @Tags         played
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Entry ID"
// @Param        input body RatingInput true "New rating"
// @Success      200 {object} PlayedEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid rating"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /played/{id} [put]
func UpdatePlayedRating(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.PlayedEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if !canModifyEntry(c, entry.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own entries"})
		return
	}

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := library.UpdatePlayedRating(database.DB, entry.ID, input.Rating)
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	database.DB.Preload("Game.Genres").First(updated, updated.ID)
	c.JSON(http.StatusOK, newPlayedEntryResponse(*updated))
}

// DeletePlayedEntry godoc
// @Summary      Delete a played entry
// @Description  Removes an entry from the played list and refreshes the game's community rating. Restricted to the entry's owner or an admin.
// @Tags         played
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry ID"
// @Success      200 {object} map[string]string "{"message": "Entry deleted"}"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /played/{id} [delete]
func DeletePlayedEntry(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.PlayedEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if !canModifyEntry(c, entry.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own entries"})
		return
	}

	if err := library.DeletePlayedEntry(database.DB, entry.ID); err != nil {
		respondLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// MoveToBacklog godoc
// @Summary      Move a played entry back to the backlog
// @Description  Atomically deletes the played entry (discarding its rating) and creates a backlog entry, then refreshes the game's community rating.
// @Tags         played
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry ID"
// @Success      200 {object} BacklogEntryResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Failure      409 {object} ErrorResponse "Game already in the backlog"
// @Router       /played/{id}/move-to-backlog [post]
func MoveToBacklog(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var entry models.PlayedEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if !canModifyEntry(c, entry.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own entries"})
		return
	}

	created, err := library.MoveToBacklog(database.DB, entry.ID)
	if err != nil {
		respondLibraryError(c, err)
		return
	}

	database.DB.Preload("Game.Genres").First(created, created.ID)
	c.JSON(http.StatusOK, newBacklogEntryResponse(*created))
}
