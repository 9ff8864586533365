package booking

import (
	"net/http"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, "resource not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrCrossesMidnight  = apperror.New(http.StatusBadRequest, "booking must start and end on the same calendar day")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot book a time slot in the past")
	ErrTooSoon          = apperror.New(http.StatusBadRequest, "same-day bookings must start at least 15 minutes from now")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrUnavailable      = apperror.New(http.StatusUnprocessableEntity, "requested time is outside the resource's available hours")
	ErrNotBookable      = apperror.New(http.StatusUnprocessableEntity, "resource is not open for booking")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrNotElapsed       = apperror.New(http.StatusConflict, "booking cannot be completed before it ends")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// HoldsSlot reports whether a booking in this status blocks the interval for
// other requests.
func (s Status) HoldsSlot() bool {
	return s == StatusPending || s == StatusApproved
}

// Booking represents a reservation of a resource for [Start, End).
// The interval is immutable once created; only the status changes.
type Booking struct {
	ID          string
	ResourceID  string
	RequesterID string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Principal identifies who is performing an operation.
type Principal struct {
	UserID string
	Role   user.Role
}

// Actor is a principal resolved against a specific resource.
type Actor struct {
	Principal
	IsResourceOwner bool
}

// CanManage reports whether the actor may decide on bookings for the
// resource: the resource owner, staff, or admins.
func (a Actor) CanManage() bool {
	return a.IsResourceOwner || a.Role.IsStaff()
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open on purpose: a booking ending at 10:00 does not collide with one
// starting at 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Filter defines parameters for listing bookings.
type Filter struct {
	RequesterID string
	ResourceID  string
	Status      Status
	StartFrom   *time.Time
	StartTo     *time.Time

	Page     int
	PageSize int
}
