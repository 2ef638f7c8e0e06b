package handler

import (
	"net/http"
	"strconv"
	"time"

	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/models"
	"fiordispino/backend/pkg/validate"

	"github.com/gin-gonic/gin"
)

type GenreInput struct {
	Name string `json:"name" binding:"required"`
}

type GenreResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
}

func newGenreResponse(genre models.Genre) GenreResponse {
	return GenreResponse{
		ID:        genre.ID,
		CreatedAt: genre.CreatedAt,
		UpdatedAt: genre.UpdatedAt,
		Name:      genre.Name,
	}
}

// CreateGenre godoc
// @Summary      Create a new genre
// @Description  Creates a new genre for games.
// @Tags         admin-genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GenreInput true "Genre Info"
// @Success      201  {object}  GenreResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Genre already exists"
// @Router       /admin/genres [post]
func CreateGenre(c *gin.Context) {
	var input GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.GenreName(input.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre := models.Genre{Name: input.Name}
	if err := database.DB.Create(&genre).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists or another error occurred"})
		return
	}

	c.JSON(http.StatusCreated, newGenreResponse(genre))
}

// GetGenres godoc
// @Summary      Get all genres
// @Description  Retrieves a list of all available genres.
// @Tags         genres
// @Produce      json
// @Success      200  {array}   GenreResponse
// @Router       /genres [get]
func GetGenres(c *gin.Context) {
	var genres []models.Genre
	database.DB.Find(&genres)

	response := []GenreResponse{}
	for _, genre := range genres {
		response = append(response, newGenreResponse(genre))
	}
	c.JSON(http.StatusOK, response)
}

// GetGenreByID godoc
// @Summary      Get a single genre
// @Description  Retrieves one genre by its ID.
// @Tags         genres
// @Produce      json
// @Param        id path int true "Genre ID"
// @Success      200  {object}  GenreResponse
// @Failure      404  {object}  ErrorResponse "Genre not found"
// @Router       /genres/{id} [get]
func GetGenreByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var genre models.Genre
	if err := database.DB.First(&genre, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	c.JSON(http.StatusOK, newGenreResponse(genre))
}

// UpdateGenre godoc
// @Summary      Update a genre
// @Description  Updates the name of an existing genre.
// @Tags         admin-genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int      true  "Genre ID"
// @Param        input body GenreInput true "New Genre Info"
// @Success      200  {object}  GenreResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Genre not found"
// @Router       /admin/genres/{id} [put]
func UpdateGenre(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.GenreName(input.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var genre models.Genre
	if err := database.DB.First(&genre, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	database.DB.Model(&genre).Update("name", input.Name)
	c.JSON(http.StatusOK, newGenreResponse(genre))
}

// DeleteGenre godoc
// @Summary      Delete a genre
// @Description  Deletes an existing genre.
// @Tags         admin-genres
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Genre ID"
// @Success      200  {object}  map[string]string "{"message": "Genre deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Genre not found"
// @Router       /admin/genres/{id} [delete]
func DeleteGenre(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	// Hard delete: the unique name index must not be blocked by a
	// soft-deleted row when the genre is recreated.
	result := database.DB.Unscoped().Delete(&models.Genre{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted"})
}
