package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/models"
	"fiordispino/backend/pkg/validate"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
	Pegi        int    `json:"pegi" binding:"required,oneof=3 7 12 16 18"`
	ReleaseDate string `json:"release_date"` // YYYY-MM-DD
	BoxArt      string `json:"box_art"`      // base64-encoded image
	GenreIDs    []uint `json:"genre_ids"`    // IDs of the genres to associate with the game
}

type GameResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Publisher    string          `json:"publisher"`
	Pegi         int             `json:"pegi"`
	ReleaseDate  string          `json:"release_date"`
	BoxArt       string          `json:"box_art"`
	GlobalRating float64         `json:"global_rating"`
	RatingCount  int             `json:"rating_count"`
	Genres       []GenreResponse `json:"genres"`
}

func newGameResponse(game models.Game) GameResponse {
	genreResponses := []GenreResponse{}
	for _, genre := range game.Genres {
		if genre != nil {
			genreResponses = append(genreResponses, newGenreResponse(*genre))
		}
	}

	releaseDate := ""
	if !game.ReleaseDate.IsZero() {
		releaseDate = game.ReleaseDate.Format("2006-01-02")
	}

	return GameResponse{
		ID:           game.ID,
		Title:        game.Title,
		Description:  game.Description,
		Publisher:    game.Publisher,
		Pegi:         int(game.Pegi),
		ReleaseDate:  releaseDate,
		BoxArt:       base64.StdEncoding.EncodeToString(game.BoxArt),
		GlobalRating: game.GlobalRating,
		RatingCount:  game.RatingCount,
		Genres:       genreResponses,
	}
}

// PaginatedGameResponse defines the structure for a paginated list of games.
type PaginatedGameResponse struct {
	Data []GameResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// gameFromInput validates the catalog fields and builds the model. The two
// derived rating columns are deliberately absent: they belong to the library
// package alone.
func gameFromInput(input GameInput) (*models.Game, error) {
	if err := validate.Title(input.Title); err != nil {
		return nil, err
	}
	if input.Publisher != "" {
		if err := validate.Publisher(input.Publisher); err != nil {
			return nil, err
		}
	}

	game := models.Game{
		Title:       input.Title,
		Description: input.Description,
		Publisher:   input.Publisher,
		Pegi:        models.PegiRating(input.Pegi),
	}

	if input.ReleaseDate != "" {
		releaseDate, err := time.Parse("2006-01-02", input.ReleaseDate)
		if err != nil {
			return nil, err
		}
		game.ReleaseDate = releaseDate
	}

	if input.BoxArt != "" {
		boxArt, err := base64.StdEncoding.DecodeString(input.BoxArt)
		if err != nil {
			return nil, err
		}
		game.BoxArt = boxArt
	}

	return &game, nil
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new catalog game and associates it with given genres.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := gameFromInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find genres by IDs
	var genres []*models.Genre
	if len(input.GenreIDs) > 0 {
		database.DB.Find(&genres, input.GenreIDs)
	}
	game.Genres = genres

	if err := database.DB.Create(game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(*game))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's catalog fields and replaces its genres. The derived rating fields are not client-writable.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := gameFromInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find new genres
	var genres []*models.Genre
	if len(input.GenreIDs) > 0 {
		database.DB.Find(&genres, input.GenreIDs)
	}

	// Update catalog fields only; GlobalRating/RatingCount stay untouched.
	game.Title = updated.Title
	game.Description = updated.Description
	game.Publisher = updated.Publisher
	game.Pegi = updated.Pegi
	game.ReleaseDate = updated.ReleaseDate
	if len(updated.BoxArt) > 0 {
		game.BoxArt = updated.BoxArt
	}

	// Replace association
	if err := database.DB.Model(&game).Association("Genres").Replace(genres); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update genres for game"})
		return
	}

	// A rating recompute may land between the load above and this save, so
	// the derived columns are kept out of the statement.
	if err := database.DB.Omit("global_rating", "rating_count", "Genres").Save(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
		return
	}

	// Preload genres for the response
	database.DB.Preload("Genres").First(&game, id)

	c.JSON(http.StatusOK, newGameResponse(game))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game. Backlog and played entries referencing it are removed by the cascade.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	// Hard delete so the ON DELETE CASCADE on the entry tables fires.
	result := database.DB.Select("Genres").Unscoped().Delete(&models.Game{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Public Handlers ---

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves details for a single game, including genres and the community rating.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.Preload("Genres").First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

// GetGames godoc
// @Summary      Get a list of games
// @Description  Retrieves a paginated list of games, with optional filtering by title and genre.
// @Tags         games
// @Produce      json
// @Param        q         query     string  false  "Search query for game title"
// @Param        genre_id  query     int     false  "Filter by genre ID"
// @Param        page      query     int     false  "Page number" default(1)
// @Param        limit     query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedGameResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, limit := pageParams(c)
	offset := (page - 1) * limit
	searchQuery := c.Query("q")
	genreIDStr := c.Query("genre_id")

	dbQuery := database.DB.Model(&models.Game{})

	if searchQuery != "" {
		dbQuery = dbQuery.Where("title ILIKE ?", "%"+searchQuery+"%")
	}

	if genreIDStr != "" {
		genreID, err := strconv.ParseUint(genreIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
			return
		}
		dbQuery = dbQuery.Joins("JOIN game_genres gg ON gg.game_id = games.id").
			Where("gg.genre_id = ?", genreID)
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
		return
	}

	var games []models.Game
	if err := dbQuery.Preload("Genres").Offset(offset).Limit(limit).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := []GameResponse{}
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetRandomGames godoc
// @Summary      Get random games
// @Description  Retrieves a random selection of games. The count parameter must be an integer between 1 and 20; it defaults to 5.
// @Tags         games
// @Produce      json
// @Param        count query string false "Number of games to return" default(5)
// @Success      200 {array} GameResponse
// @Failure      400 {object} ErrorResponse "Invalid count"
// @Router       /games/random [get]
func GetRandomGames(c *gin.Context) {
	count := 5
	if countStr := c.Query("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer between 1 and 20"})
			return
		}
		count = parsed
	}

	var games []models.Game
	if err := database.DB.Preload("Genres").Order("RANDOM()").Limit(count).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := []GameResponse{}
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, response)
}

// endregion
