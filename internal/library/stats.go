package library

import (
	"math"

	"fiordispino/backend/internal/models"

	"gorm.io/gorm"
)

// RecomputeGameStats refreshes a game's materialized rating columns from the
// live set of played entries. It always re-derives count and mean from a
// fresh query rather than adjusting a running total, so concurrent raters of
// the same game converge on current truth whichever commits last.
//
// Callers run it inside the transaction of the triggering write; if it fails
// the whole write rolls back rather than committing a stale aggregate.
func RecomputeGameStats(tx *gorm.DB, gameID uint) error {
	var stats struct {
		Count   int64
		Average float64
	}

	err := tx.Model(&models.PlayedEntry{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("game_id = ?", gameID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	rating := 0.0
	if stats.Count > 0 {
		rating = roundHalfUp(stats.Average)
	}

	// UpdateColumns touches only the two derived fields: no updated_at bump,
	// no clobbering of concurrent admin edits to other columns.
	return tx.Model(&models.Game{}).Where("id = ?", gameID).
		UpdateColumns(map[string]interface{}{
			"global_rating": rating,
			"rating_count":  stats.Count,
		}).Error
}

// roundHalfUp rounds to one decimal place, .05 rounding away from zero
// (9.333... -> 9.3, 9.35 -> 9.4).
func roundHalfUp(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
