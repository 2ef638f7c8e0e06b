package library

import "errors"

// Typed engine errors. The handler layer maps these to transport status
// codes; the engine itself never leaks a raw storage error for a condition
// a caller can act on.
var (
	// ErrAlreadyInBacklog signals that the (owner, game) pair already sits
	// in the backlog, so it cannot also enter the played list.
	ErrAlreadyInBacklog = errors.New("game is already in the backlog")

	// ErrAlreadyInPlayed is the mirror conflict for the played list.
	ErrAlreadyInPlayed = errors.New("game is already in the played list")

	// ErrDuplicateEntry signals a second insert of the same (owner, game)
	// pair into the same list.
	ErrDuplicateEntry = errors.New("entry already exists for this owner and game")

	// ErrMissingRating signals a move into the played list without a rating.
	ErrMissingRating = errors.New("a rating is required for this game")

	// ErrInvalidRating signals a rating outside [1, 10].
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 10")

	// ErrNotFound signals that a referenced entry or game id does not resolve.
	ErrNotFound = errors.New("record not found")
)

// MinRating and MaxRating bound the vote a played entry carries.
const (
	MinRating = 1
	MaxRating = 10
)

// ValidRating reports whether r is an acceptable vote.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
