// Package library is the consistency engine for the two per-user game lists.
//
// Per (owner, game) pair the system is a three-state machine: absent, in the
// backlog, or in the played list. Every entry point re-validates the
// mutual-exclusion invariant inside the same transaction as its mutation, and
// the composite unique indexes on the entry tables act as the backstop when
// two requests race past the pre-check. Any mutation of the played list
// recomputes the affected game's materialized rating before the transaction
// commits, so a played-entry write can never succeed while leaving the
// aggregate stale.
package library

import (
	"errors"

	"fiordispino/backend/internal/models"
	"fiordispino/backend/pkg/validate"

	"gorm.io/gorm"
)

// AddToBacklog creates a backlog entry for (ownerID, gameID).
func AddToBacklog(db *gorm.DB, ownerID, gameID uint) (*models.BacklogEntry, error) {
	entry := models.BacklogEntry{OwnerID: ownerID, GameID: gameID}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := gameExists(tx, gameID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PlayedEntry{}).
			Where("owner_id = ? AND game_id = ?", ownerID, gameID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyInPlayed
		}

		if err := tx.Create(&entry).Error; err != nil {
			return translateDuplicate(err, ErrDuplicateEntry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddToPlayed creates a played entry with the given rating.
func AddToPlayed(db *gorm.DB, ownerID, gameID uint, rating int) (*models.PlayedEntry, error) {
	if !ValidRating(rating) {
		return nil, ErrInvalidRating
	}

	entry := models.PlayedEntry{OwnerID: ownerID, GameID: gameID, Rating: rating}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := gameExists(tx, gameID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.BacklogEntry{}).
			Where("owner_id = ? AND game_id = ?", ownerID, gameID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyInBacklog
		}

		if err := tx.Create(&entry).Error; err != nil {
			return translateDuplicate(err, ErrDuplicateEntry)
		}
		return RecomputeGameStats(tx, gameID)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MoveToPlayed atomically turns a backlog entry into a played entry carrying
// the given rating. A nil rating fails with ErrMissingRating before anything
// is touched. If the destination already holds the pair the source entry is
// left untouched; otherwise the insert and the delete commit together or not
// at all.
func MoveToPlayed(db *gorm.DB, backlogEntryID uint, rating *int) (*models.PlayedEntry, error) {
	if rating == nil {
		return nil, ErrMissingRating
	}
	if !ValidRating(*rating) {
		return nil, ErrInvalidRating
	}

	var created models.PlayedEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		var source models.BacklogEntry
		if err := tx.First(&source, backlogEntryID).Error; err != nil {
			return translateNotFound(err)
		}

		var count int64
		if err := tx.Model(&models.PlayedEntry{}).
			Where("owner_id = ? AND game_id = ?", source.OwnerID, source.GameID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyInPlayed
		}

		created = models.PlayedEntry{
			OwnerID: source.OwnerID,
			GameID:  source.GameID,
			Rating:  *rating,
		}
		if err := tx.Create(&created).Error; err != nil {
			return translateDuplicate(err, ErrAlreadyInPlayed)
		}
		if err := tx.Unscoped().Delete(&source).Error; err != nil {
			return err
		}
		return RecomputeGameStats(tx, source.GameID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// MoveToBacklog is the mirror transition. The entry's rating is discarded and
// the game's aggregate is recomputed without it.
func MoveToBacklog(db *gorm.DB, playedEntryID uint) (*models.BacklogEntry, error) {
	var created models.BacklogEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		var source models.PlayedEntry
		if err := tx.First(&source, playedEntryID).Error; err != nil {
			return translateNotFound(err)
		}

		var count int64
		if err := tx.Model(&models.BacklogEntry{}).
			Where("owner_id = ? AND game_id = ?", source.OwnerID, source.GameID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyInBacklog
		}

		created = models.BacklogEntry{OwnerID: source.OwnerID, GameID: source.GameID}
		if err := tx.Create(&created).Error; err != nil {
			return translateDuplicate(err, ErrAlreadyInBacklog)
		}
		if err := tx.Unscoped().Delete(&source).Error; err != nil {
			return err
		}
		return RecomputeGameStats(tx, source.GameID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePlayedRating changes the vote on an existing played entry.
func UpdatePlayedRating(db *gorm.DB, playedEntryID uint, rating int) (*models.PlayedEntry, error) {
	if !ValidRating(rating) {
		return nil, ErrInvalidRating
	}

	var entry models.PlayedEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, playedEntryID).Error; err != nil {
			return translateNotFound(err)
		}
		if err := tx.Model(&entry).Update("rating", rating).Error; err != nil {
			return err
		}
		return RecomputeGameStats(tx, entry.GameID)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteBacklogEntry removes a backlog entry.
func DeleteBacklogEntry(db *gorm.DB, backlogEntryID uint) error {
	result := db.Unscoped().Delete(&models.BacklogEntry{}, backlogEntryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlayedEntry removes a played entry and recomputes the game's
// aggregate in the same transaction.
func DeletePlayedEntry(db *gorm.DB, playedEntryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entry models.PlayedEntry
		if err := tx.First(&entry, playedEntryID).Error; err != nil {
			return translateNotFound(err)
		}
		if err := tx.Unscoped().Delete(&entry).Error; err != nil {
			return err
		}
		return RecomputeGameStats(tx, entry.GameID)
	})
}

// PurgeOwner removes every entry a user owns from both lists and refreshes
// the aggregate of each game that loses a rating. This is the user-deletion
// path: relying on the FK cascade alone would drop the played rows without
// their recompute, leaving stale aggregates behind.
func PurgeOwner(db *gorm.DB, ownerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var gameIDs []uint
		if err := tx.Model(&models.PlayedEntry{}).
			Distinct("game_id").
			Where("owner_id = ?", ownerID).
			Pluck("game_id", &gameIDs).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("owner_id = ?", ownerID).
			Delete(&models.BacklogEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("owner_id = ?", ownerID).
			Delete(&models.PlayedEntry{}).Error; err != nil {
			return err
		}

		for _, gameID := range gameIDs {
			if err := RecomputeGameStats(tx, gameID); err != nil {
				return err
			}
		}
		return nil
	})
}

// BacklogByOwner returns every backlog entry whose owner has the given
// username. An unknown username yields an empty slice, not an error; a
// malformed one fails the charset check.
func BacklogByOwner(db *gorm.DB, username string) ([]models.BacklogEntry, error) {
	if err := validate.Username(username); err != nil {
		return nil, err
	}

	entries := []models.BacklogEntry{}
	err := db.Joins("JOIN users ON users.id = backlog_entries.owner_id").
		Where("users.username = ?", username).
		Preload("Game").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// PlayedByOwner is the played-list counterpart of BacklogByOwner.
func PlayedByOwner(db *gorm.DB, username string) ([]models.PlayedEntry, error) {
	if err := validate.Username(username); err != nil {
		return nil, err
	}

	entries := []models.PlayedEntry{}
	err := db.Joins("JOIN users ON users.id = played_entries.owner_id").
		Where("users.username = ?", username).
		Preload("Game").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func gameExists(tx *gorm.DB, gameID uint) error {
	var count int64
	if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// translateDuplicate maps a unique-constraint violation (a racing writer got
// there first) to the matching typed conflict.
func translateDuplicate(err error, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
