package waitlist

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/metrics"
	"github.com/yennietran/AIDD-Final-Project/internal/notification"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
)

var errNotBookable = apperror.New(http.StatusUnprocessableEntity, "resource is not open for booking")

type JoinRequest struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// BookingCreator converts a waitlist entry into a real booking request, so
// the conversion runs through the exact same validation as a direct booking.
type BookingCreator interface {
	Create(ctx context.Context, p booking.Principal, req booking.CreateRequest) (*booking.Booking, error)
}

// ConflictChecker answers whether an interval on a resource is taken.
type ConflictChecker interface {
	HasConflict(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (bool, error)
}

type ResourceReader interface {
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
}

// Service coordinates the queue of users waiting for taken intervals. It
// implements booking.SlotFreedHook, which is how freed slots reach the queue.
type Service interface {
	Join(ctx context.Context, p booking.Principal, req JoinRequest) (*Entry, error)
	Leave(ctx context.Context, p booking.Principal, id string) (*Entry, error)
	Convert(ctx context.Context, p booking.Principal, id string) (*booking.Booking, error)
	Position(ctx context.Context, p booking.Principal, id string) (int, error)
	ListByResource(ctx context.Context, p booking.Principal, resourceID string) ([]*Entry, error)
	ListMine(ctx context.Context, p booking.Principal) ([]*Entry, error)

	OnSlotFreed(ctx context.Context, resourceID string, freedStart, freedEnd time.Time) error
}

type service struct {
	repo      Repository
	bookings  BookingCreator
	conflicts ConflictChecker
	resources ResourceReader
	publisher notification.Publisher
}

func NewService(repo Repository, bookings BookingCreator, conflicts ConflictChecker, resources ResourceReader, publisher notification.Publisher) Service {
	return &service{
		repo:      repo,
		bookings:  bookings,
		conflicts: conflicts,
		resources: resources,
		publisher: publisher,
	}
}

func (s *service) Join(ctx context.Context, p booking.Principal, req JoinRequest) (*Entry, error) {
	start := req.Start.UTC()
	end := req.End.UTC()
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if res.Status != resource.StatusPublished {
		return nil, errNotBookable
	}

	// Waiting for a free slot makes no sense; the caller should just book.
	taken, err := s.conflicts.HasConflict(ctx, req.ResourceID, start, end, "")
	if err != nil {
		return nil, err
	}
	if !taken {
		return nil, ErrSlotFree
	}

	dup, err := s.repo.HasWaitingOverlap(ctx, req.ResourceID, p.UserID, start, end)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrAlreadyWaiting
	}

	e := &Entry{
		ResourceID: req.ResourceID,
		UserID:     p.UserID,
		Start:      start,
		End:        end,
		Status:     StatusActive,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Leave(ctx context.Context, p booking.Principal, id string) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != p.UserID && !p.Role.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if !e.Status.Waiting() {
		return nil, ErrNotActive
	}
	return s.repo.UpdateStatus(ctx, id, StatusLeft)
}

// Convert books the entry's interval for its owner. The booking engine
// re-runs every check, so a slot that was re-taken after the notification
// surfaces as a conflict here and the entry keeps its queue position.
func (s *service) Convert(ctx context.Context, p booking.Principal, id string) (*booking.Booking, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != p.UserID {
		return nil, ErrPermissionDenied
	}
	if !e.Status.Waiting() {
		return nil, ErrNotActive
	}

	b, err := s.bookings.Create(ctx, p, booking.CreateRequest{
		ResourceID: e.ResourceID,
		Start:      e.Start,
		End:        e.End,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateStatus(ctx, id, StatusConverted); err != nil {
		// The booking exists; a stale entry status is recoverable.
		return b, nil
	}
	return b, nil
}

func (s *service) Position(ctx context.Context, p booking.Principal, id string) (int, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if e.UserID != p.UserID && !p.Role.IsStaff() {
		return 0, ErrPermissionDenied
	}
	if !e.Status.Waiting() {
		return 0, ErrNotActive
	}
	return s.repo.Position(ctx, e)
}

func (s *service) ListByResource(ctx context.Context, p booking.Principal, resourceID string) ([]*Entry, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != p.UserID && !p.Role.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListByResource(ctx, resourceID)
}

func (s *service) ListMine(ctx context.Context, p booking.Principal) ([]*Entry, error) {
	return s.repo.ListByUser(ctx, p.UserID)
}

// OnSlotFreed notifies the earliest waiting entry whose interval overlaps the
// vacated one. Only the head of the queue is told; everyone behind keeps
// waiting so the queue order is honored.
func (s *service) OnSlotFreed(ctx context.Context, resourceID string, freedStart, freedEnd time.Time) error {
	e, err := s.repo.NextOverlapping(ctx, resourceID, freedStart, freedEnd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	updated, err := s.repo.MarkNotified(ctx, e.ID)
	if err != nil {
		return err
	}

	metrics.RecordWaitlistNotified()

	var senderID string
	if res, err := s.resources.GetByID(ctx, resourceID); err == nil {
		senderID = res.OwnerID
	}
	if senderID != updated.UserID {
		notification.Emit(ctx, s.publisher, notification.Event{
			Type:            notification.EventSlotAvailable,
			SenderID:        senderID,
			ReceiverID:      updated.UserID,
			WaitlistEntryID: updated.ID,
			Context: map[string]string{
				"resource_id": resourceID,
				"start":       updated.Start.Format(time.RFC3339),
				"end":         updated.End.Format(time.RFC3339),
			},
		})
	}

	return nil
}
