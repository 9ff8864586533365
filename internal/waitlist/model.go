package waitlist

import (
	"net/http"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "waitlist entry not found")
	ErrAlreadyWaiting   = apperror.New(http.StatusConflict, "already waiting for an overlapping slot on this resource")
	ErrSlotFree         = apperror.New(http.StatusConflict, "requested slot is currently free, book it directly")
	ErrNotActive        = apperror.New(http.StatusConflict, "waitlist entry is no longer active")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
)

type Status string

const (
	// StatusActive entries sit in the queue waiting for the interval.
	StatusActive Status = "active"
	// StatusNotified entries were told their slot opened up.
	StatusNotified Status = "notified"
	// StatusConverted entries became bookings.
	StatusConverted Status = "converted"
	// StatusLeft entries were withdrawn by the user.
	StatusLeft Status = "left"
)

// Waiting reports whether the entry still occupies a queue position.
// Notified entries keep their spot until they convert or leave.
func (s Status) Waiting() bool {
	return s == StatusActive || s == StatusNotified
}

// Entry is a standing request for a booking interval that was taken when the
// user asked for it. Queue order is strictly by CreatedAt.
type Entry struct {
	ID         string
	ResourceID string
	UserID     string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
	NotifiedAt *time.Time
}
