package library

import (
	"testing"

	"fiordispino/backend/internal/models"
	"fiordispino/backend/pkg/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestGame(t *testing.T, db *gorm.DB, title string) models.Game {
	t.Helper()
	game := models.Game{Title: title, Pegi: models.Pegi12}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func countBacklog(t *testing.T, db *gorm.DB, ownerID, gameID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.BacklogEntry{}).
		Where("owner_id = ? AND game_id = ?", ownerID, gameID).
		Count(&count).Error)
	return count
}

func countPlayed(t *testing.T, db *gorm.DB, ownerID, gameID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.PlayedEntry{}).
		Where("owner_id = ? AND game_id = ?", ownerID, gameID).
		Count(&count).Error)
	return count
}

// assertExclusive checks the core invariant: a pair never sits in both lists.
func assertExclusive(t *testing.T, db *gorm.DB, ownerID, gameID uint) {
	t.Helper()
	inBacklog := countBacklog(t, db, ownerID, gameID)
	inPlayed := countPlayed(t, db, ownerID, gameID)
	assert.LessOrEqual(t, inBacklog+inPlayed, int64(1),
		"pair (%d, %d) present in both lists", ownerID, gameID)
}

func TestAddToBacklog(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hollow Knight")

	entry, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, entry.OwnerID)
	assert.Equal(t, game.ID, entry.GameID)
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
}

func TestAddToBacklogDuplicate(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hollow Knight")

	_, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	_, err = AddToBacklog(db, user.ID, game.ID)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
}

func TestAddToBacklogUnknownGame(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	_, err := AddToBacklog(db, user.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToBacklogBlockedByPlayed(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Celeste")

	_, err := AddToPlayed(db, user.ID, game.ID, 9)
	require.NoError(t, err)

	_, err = AddToBacklog(db, user.ID, game.ID)
	assert.ErrorIs(t, err, ErrAlreadyInPlayed)
	assert.Equal(t, int64(0), countBacklog(t, db, user.ID, game.ID))
	assertExclusive(t, db, user.ID, game.ID)
}

func TestAddToPlayedInvalidRating(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Celeste")

	for _, rating := range []int{0, -1, 11, 100} {
		_, err := AddToPlayed(db, user.ID, game.ID, rating)
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
	assert.Equal(t, int64(0), countPlayed(t, db, user.ID, game.ID))
}

// A backlogged game cannot be added to the played list directly; the move
// transition is the only way across.
func TestAddToPlayedBlockedByBacklog(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Celeste")

	_, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	_, err = AddToPlayed(db, user.ID, game.ID, 7)
	assert.ErrorIs(t, err, ErrAlreadyInBacklog)
	assert.Equal(t, int64(0), countPlayed(t, db, user.ID, game.ID))
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
	assertExclusive(t, db, user.ID, game.ID)
}

func TestAddToPlayedDuplicate(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Celeste")

	_, err := AddToPlayed(db, user.ID, game.ID, 7)
	require.NoError(t, err)

	_, err = AddToPlayed(db, user.ID, game.ID, 8)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, int64(1), countPlayed(t, db, user.ID, game.ID))
}

func TestMoveToPlayed(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Outer Wilds")

	source, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	rating := 10
	created, err := MoveToPlayed(db, source.ID, &rating)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.OwnerID)
	assert.Equal(t, game.ID, created.GameID)
	assert.Equal(t, 10, created.Rating)

	assert.Equal(t, int64(0), countBacklog(t, db, user.ID, game.ID))
	assert.Equal(t, int64(1), countPlayed(t, db, user.ID, game.ID))
	assertExclusive(t, db, user.ID, game.ID)

	var updated models.Game
	require.NoError(t, db.First(&updated, game.ID).Error)
	assert.Equal(t, 1, updated.RatingCount)
	assert.Equal(t, 10.0, updated.GlobalRating)
}

func TestMoveToPlayedMissingRating(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Outer Wilds")

	source, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	_, err = MoveToPlayed(db, source.ID, nil)
	assert.ErrorIs(t, err, ErrMissingRating)

	// the source entry survives the failed move
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
	assert.Equal(t, int64(0), countPlayed(t, db, user.ID, game.ID))
}

func TestMoveToPlayedInvalidRating(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Outer Wilds")

	source, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	rating := 11
	_, err = MoveToPlayed(db, source.ID, &rating)
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
}

func TestMoveToPlayedUnknownEntry(t *testing.T) {
	db := setupTestDB(t)

	rating := 5
	_, err := MoveToPlayed(db, 9999, &rating)
	assert.ErrorIs(t, err, ErrNotFound)
}

// If an inconsistent intermediate state ever put the pair in both lists, the
// move must refuse and leave the source untouched.
func TestMoveToPlayedDestinationConflict(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Outer Wilds")

	source, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	// force a played row behind the engine's back
	require.NoError(t, db.Create(&models.PlayedEntry{
		OwnerID: user.ID, GameID: game.ID, Rating: 6,
	}).Error)

	rating := 9
	_, err = MoveToPlayed(db, source.ID, &rating)
	assert.ErrorIs(t, err, ErrAlreadyInPlayed)
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))

	var kept models.PlayedEntry
	require.NoError(t, db.Where("owner_id = ? AND game_id = ?", user.ID, game.ID).First(&kept).Error)
	assert.Equal(t, 6, kept.Rating)
}

func TestMoveRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hades")

	source, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	rating := 8
	played, err := MoveToPlayed(db, source.ID, &rating)
	require.NoError(t, err)

	back, err := MoveToBacklog(db, played.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, back.OwnerID)
	assert.Equal(t, game.ID, back.GameID)

	// back to backlog-only, rating discarded, aggregate reset
	assert.Equal(t, int64(1), countBacklog(t, db, user.ID, game.ID))
	assert.Equal(t, int64(0), countPlayed(t, db, user.ID, game.ID))
	assertExclusive(t, db, user.ID, game.ID)

	var updated models.Game
	require.NoError(t, db.First(&updated, game.ID).Error)
	assert.Equal(t, 0, updated.RatingCount)
	assert.Equal(t, 0.0, updated.GlobalRating)
}

func TestMoveToBacklogDestinationConflict(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hades")

	played, err := AddToPlayed(db, user.ID, game.ID, 8)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.BacklogEntry{
		OwnerID: user.ID, GameID: game.ID,
	}).Error)

	_, err = MoveToBacklog(db, played.ID)
	assert.ErrorIs(t, err, ErrAlreadyInBacklog)
	assert.Equal(t, int64(1), countPlayed(t, db, user.ID, game.ID))
}

func TestTwoUsersSameGame(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	game := createTestGame(t, db, "Stardew Valley")

	_, err := AddToBacklog(db, alice.ID, game.ID)
	require.NoError(t, err)
	_, err = AddToBacklog(db, bob.ID, game.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countBacklog(t, db, alice.ID, game.ID))
	assert.Equal(t, int64(1), countBacklog(t, db, bob.ID, game.ID))
}

func TestUpdatePlayedRating(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hades")

	entry, err := AddToPlayed(db, user.ID, game.ID, 4)
	require.NoError(t, err)

	updated, err := UpdatePlayedRating(db, entry.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Rating)

	var updatedGame models.Game
	require.NoError(t, db.First(&updatedGame, game.ID).Error)
	assert.Equal(t, 9.0, updatedGame.GlobalRating)

	_, err = UpdatePlayedRating(db, entry.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestDeletePlayedEntryRecomputes(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	game := createTestGame(t, db, "Hades")

	entry, err := AddToPlayed(db, alice.ID, game.ID, 10)
	require.NoError(t, err)
	_, err = AddToPlayed(db, bob.ID, game.ID, 4)
	require.NoError(t, err)

	require.NoError(t, DeletePlayedEntry(db, entry.ID))

	var updated models.Game
	require.NoError(t, db.First(&updated, game.ID).Error)
	assert.Equal(t, 1, updated.RatingCount)
	assert.Equal(t, 4.0, updated.GlobalRating)

	assert.ErrorIs(t, DeletePlayedEntry(db, entry.ID), ErrNotFound)
}

func TestDeleteBacklogEntry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hades")

	entry, err := AddToBacklog(db, user.ID, game.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteBacklogEntry(db, entry.ID))
	assert.Equal(t, int64(0), countBacklog(t, db, user.ID, game.ID))

	assert.ErrorIs(t, DeleteBacklogEntry(db, entry.ID), ErrNotFound)
}

func TestBacklogByOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	game := createTestGame(t, db, "Hades")

	_, err := AddToBacklog(db, alice.ID, game.ID)
	require.NoError(t, err)

	entries, err := BacklogByOwner(db, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Hades", entries[0].Game.Title)

	// unknown username is an empty result, not an error
	entries, err = BacklogByOwner(db, "nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestByOwnerRejectsMalformedUsernames(t *testing.T) {
	db := setupTestDB(t)

	for _, username := range []string{
		"",
		"has space",
		"semi;colon",
		"quote'",
		"a OR 1=1",
		"Robert'); DROP TABLE users;--",
	} {
		_, err := BacklogByOwner(db, username)
		assert.ErrorIs(t, err, validate.ErrInvalidUsername, "username %q", username)

		_, err = PlayedByOwner(db, username)
		assert.ErrorIs(t, err, validate.ErrInvalidUsername, "username %q", username)
	}
}

func TestPurgeOwnerRecomputesAffectedGames(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	rated := createTestGame(t, db, "Hades")
	queued := createTestGame(t, db, "Celeste")

	_, err := AddToPlayed(db, alice.ID, rated.ID, 10)
	require.NoError(t, err)
	_, err = AddToPlayed(db, bob.ID, rated.ID, 4)
	require.NoError(t, err)
	_, err = AddToBacklog(db, alice.ID, queued.ID)
	require.NoError(t, err)

	require.NoError(t, PurgeOwner(db, alice.ID))

	assert.Equal(t, int64(0), countPlayed(t, db, alice.ID, rated.ID))
	assert.Equal(t, int64(0), countBacklog(t, db, alice.ID, queued.ID))
	assert.Equal(t, int64(1), countPlayed(t, db, bob.ID, rated.ID))

	var updated models.Game
	require.NoError(t, db.First(&updated, rated.ID).Error)
	assert.Equal(t, 4.0, updated.GlobalRating)
	assert.Equal(t, 1, updated.RatingCount)
}

func TestPurgeOwnerWithoutEntries(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	require.NoError(t, PurgeOwner(db, user.ID))
}
