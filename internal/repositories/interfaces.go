package repositories

import (
	"errors"

	"github.com/raissa-edu/student-management-service/internal/models"
)

// ErrNotFound is returned by every repository when the requested record
// does not exist; services translate it to their own sentinels.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert collides with a unique
// constraint, covering races the service-level existence check misses.
var ErrConflict = errors.New("record already exists")

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError reports whether err wraps ErrConflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ===== SHARED FILTER STRUCTS =====

type PaymentFilters struct {
	Status      *models.PaymentStatus `json:"status"`
	Type        *models.PaymentType   `json:"type"`
	StudentCode *string               `json:"student_code"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
	SortBy      string                `json:"sort_by"`    // "created_at", "date", "amount"
	SortOrder   string                `json:"sort_order"` // "asc", "desc"
}

type StudentFilters struct {
	ProgramID *string `json:"program_id"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}
