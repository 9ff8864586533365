package resource

import (
	"net/http"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyTitle       = apperror.New(http.StatusBadRequest, "title cannot be empty")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "capacity must be a positive integer")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid resource status")
	ErrInvalidRules     = apperror.New(http.StatusBadRequest, "availability rules are malformed")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// Resource represents a bookable unit (a room, a piece of equipment, a lab slot).
// AvailabilityRules holds the raw persisted JSON; it is interpreted, never
// mutated, by the availability package.
type Resource struct {
	ID                string
	OwnerID           string
	Title             string
	Description       *string
	Category          *string
	Location          *string
	Capacity          int
	AvailabilityRules string
	RequiresApproval  bool
	Status            Status
	CreatedAt         time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Keyword     string // matches title or description
	Category    string
	Location    string
	MinCapacity int
	OwnerID     string
	Status      Status

	Page     int
	PageSize int
}
