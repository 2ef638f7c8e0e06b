package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"fiordispino/backend/internal/library"
	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateGameHandler(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/games", gin.H{
		"title":        "Baldurs Gate 3",
		"description":  "A sprawling RPG",
		"publisher":    "Larian",
		"pegi":         18,
		"release_date": "2023-08-03",
	}, 0)
	CreateGame(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, float64(18), response["pegi"])
	// derived fields start at zero regardless of what a client could send
	assert.Equal(t, float64(0), response["global_rating"])
	assert.Equal(t, float64(0), response["rating_count"])
}

func TestCreateGameHandlerInvalidPegi(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/games", gin.H{
		"title": "Some Game",
		"pegi":  15,
	}, 0)
	CreateGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameHandlerInvalidTitle(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/games", gin.H{
		"title": "Injection'; --",
		"pegi":  12,
	}, 0)
	CreateGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameHandlerLowercasePublisher(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/games", gin.H{
		"title":     "Some Game",
		"pegi":      12,
		"publisher": "larian",
	}, 0)
	CreateGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGameByIDHandler(t *testing.T) {
	db := setupTest(t)
	game := seedGame(t, db, "Hades")

	c, w := jsonContext(t, "GET", "/api/v1/games/1", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(game.ID))}}
	GetGameByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Hades", response["title"])
}

func TestGetGameByIDHandlerNotFound(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "GET", "/api/v1/games/999", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	GetGameByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRandomGamesHandler(t *testing.T) {
	db := setupTest(t)
	for _, title := range []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"} {
		seedGame(t, db, title)
	}

	// default count is 5
	c, w := jsonContext(t, "GET", "/api/v1/games/random", nil, 0)
	GetRandomGames(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var games []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	assert.Len(t, games, 5)

	// explicit count within bounds
	c, w = jsonContext(t, "GET", "/api/v1/games/random?count=2", nil, 0)
	GetRandomGames(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	assert.Len(t, games, 2)
}

func TestGetRandomGamesHandlerInvalidCount(t *testing.T) {
	setupTest(t)

	for _, count := range []string{"0", "21", "-3", "abc", "2.5"} {
		c, w := jsonContext(t, "GET", "/api/v1/games/random?count="+count, nil, 0)
		GetRandomGames(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "count %q", count)
	}
}

func TestUpdateGameHandler(t *testing.T) {
	db := setupTest(t)
	game := seedGame(t, db, "Hades")

	c, w := jsonContext(t, "PUT", "/api/v1/admin/games/1", gin.H{
		"title":     "Hades II",
		"publisher": "Supergiant",
		"pegi":      16,
	}, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(game.ID))}}
	UpdateGame(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Game
	require.NoError(t, db.First(&updated, game.ID).Error)
	assert.Equal(t, "Hades II", updated.Title)
	assert.Equal(t, "Supergiant", updated.Publisher)
}

func TestUpdateGameHandlerKeepsConcurrentAggregate(t *testing.T) {
	db := setupTest(t)
	game := seedGame(t, db, "Hades")
	rater := seedUser(t, db, "rater", "user")

	// A rating lands after the handler has loaded the game but before it
	// saves. The derived columns must survive the save.
	fired := false
	err := db.Callback().Update().Before("gorm:update").Register("rating_during_update", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "games" {
			return
		}
		fired = true
		sess := tx.Session(&gorm.Session{NewDB: true})
		require.NoError(t, sess.Create(&models.PlayedEntry{OwnerID: rater.ID, GameID: game.ID, Rating: 8}).Error)
		require.NoError(t, library.RecomputeGameStats(sess, game.ID))
	})
	require.NoError(t, err)

	c, w := jsonContext(t, "PUT", "/api/v1/admin/games/1", gin.H{
		"title": "Hades II",
		"pegi":  16,
	}, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(game.ID))}}
	UpdateGame(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, fired)

	var updated models.Game
	require.NoError(t, db.First(&updated, game.ID).Error)
	assert.Equal(t, "Hades II", updated.Title)
	assert.Equal(t, 8.0, updated.GlobalRating)
	assert.Equal(t, 1, updated.RatingCount)
}

func TestDeleteGameHandlerCascades(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "alice", "user")
	game := seedGame(t, db, "Hades")

	c, w := jsonContext(t, "POST", "/api/v1/backlog", gin.H{"game_id": game.ID}, user.ID)
	AddToBacklog(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = jsonContext(t, "DELETE", "/api/v1/admin/games/1", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(game.ID))}}
	DeleteGame(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
