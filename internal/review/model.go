package review

import (
	"net/http"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "review not found")
	ErrInvalidRating    = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrNotEligible      = apperror.New(http.StatusUnprocessableEntity, "only completed bookings can be reviewed")
	ErrAlreadyReviewed  = apperror.New(http.StatusConflict, "booking already reviewed")
	ErrBookingMismatch  = apperror.New(http.StatusBadRequest, "booking does not belong to this resource")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Review is feedback tied to one completed booking. One review per booking.
type Review struct {
	ID         string
	ResourceID string
	BookingID  string
	AuthorID   string
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}

// Stats aggregates ratings for one resource.
type Stats struct {
	Count   int
	Average float64
}
