package handler

import (
	"errors"
	"log"
	"net/http"

	"fiordispino/backend/internal/library"
	"fiordispino/backend/pkg/validate"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondLibraryError maps the engine's typed errors to transport status
// codes. Anything untyped is a storage failure: logged server-side, returned
// as a generic 500 without detail.
func respondLibraryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, library.ErrInvalidRating),
		errors.Is(err, library.ErrMissingRating),
		errors.Is(err, validate.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, library.ErrAlreadyInBacklog),
		errors.Is(err, library.ErrAlreadyInPlayed),
		errors.Is(err, library.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, library.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	default:
		log.Printf("library operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
