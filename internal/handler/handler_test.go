package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"fiordispino/backend/internal/config"
	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Game{},
		&models.BacklogEntry{},
		&models.PlayedEntry{},
	)
	require.NoError(t, err)

	database.DB = db
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGame(t *testing.T, db *gorm.DB, title string) models.Game {
	t.Helper()
	game := models.Game{Title: title, Pegi: models.Pegi16}
	require.NoError(t, db.Create(&game).Error)
	return game
}

// jsonContext builds a test context with an optional JSON body and an
// optional authenticated caller, the way the handlers see one after the
// middleware chain has run.
func jsonContext(t *testing.T, method, target string, body interface{}, callerID uint) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		c.Request = httptest.NewRequest(method, target, bytes.NewBuffer(jsonBody))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}

	if callerID != 0 {
		c.Set("userID", callerID)
	}

	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
