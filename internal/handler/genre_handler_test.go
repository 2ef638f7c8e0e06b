package handler

import (
	"net/http"
	"strconv"
	"testing"

	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGenreHandler(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/genres", gin.H{"name": "Roguelike"}, 0)
	CreateGenre(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Roguelike", response["name"])
}

func TestCreateGenreHandlerDuplicate(t *testing.T) {
	db := setupTest(t)
	require.NoError(t, db.Create(&models.Genre{Name: "Roguelike"}).Error)

	c, w := jsonContext(t, "POST", "/api/v1/admin/genres", gin.H{"name": "Roguelike"}, 0)
	CreateGenre(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateGenreHandlerBadName(t *testing.T) {
	setupTest(t)

	c, w := jsonContext(t, "POST", "/api/v1/admin/genres", gin.H{"name": "RPG; DROP TABLE"}, 0)
	CreateGenre(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateGenreHandler(t *testing.T) {
	db := setupTest(t)
	genre := models.Genre{Name: "Rogulike"}
	require.NoError(t, db.Create(&genre).Error)

	c, w := jsonContext(t, "PUT", "/api/v1/admin/genres/1", gin.H{"name": "Roguelike"}, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(genre.ID))}}
	UpdateGenre(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Genre
	require.NoError(t, db.First(&updated, genre.ID).Error)
	assert.Equal(t, "Roguelike", updated.Name)
}

func TestDeleteGenreHandler(t *testing.T) {
	db := setupTest(t)
	genre := models.Genre{Name: "Roguelike"}
	require.NoError(t, db.Create(&genre).Error)

	c, w := jsonContext(t, "DELETE", "/api/v1/admin/genres/1", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(genre.ID))}}
	DeleteGenre(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = jsonContext(t, "DELETE", "/api/v1/admin/genres/1", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(genre.ID))}}
	DeleteGenre(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGenresHandler(t *testing.T) {
	db := setupTest(t)
	require.NoError(t, db.Create(&models.Genre{Name: "Platformer"}).Error)

	c, w := jsonContext(t, "GET", "/api/v1/genres", nil, 0)
	GetGenres(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Platformer")
}
