package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/availability"
	"github.com/yennietran/AIDD-Final-Project/internal/metrics"
	"github.com/yennietran/AIDD-Final-Project/internal/notification"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/locker"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

// SameDayBuffer is the minimum lead time for bookings starting today.
const SameDayBuffer = 15 * time.Minute

type CreateRequest struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// ResourceReader is the slice of the resource service the booking engine
// needs.
type ResourceReader interface {
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
}

// SlotFreedHook is invoked after a transition vacates a held interval.
// Implemented by the waitlist coordinator; wired in the app container.
type SlotFreedHook interface {
	OnSlotFreed(ctx context.Context, resourceID string, freedStart, freedEnd time.Time) error
}

// Service owns the booking lifecycle: creation (availability check, conflict
// check, initial status) and every status transition.
type Service interface {
	Create(ctx context.Context, p Principal, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, p Principal, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Approve(ctx context.Context, p Principal, id string) (*Booking, error)
	Reject(ctx context.Context, p Principal, id string) (*Booking, error)
	Cancel(ctx context.Context, p Principal, id string) (*Booking, error)
	Complete(ctx context.Context, p Principal, id string) (*Booking, error)

	// SetSlotFreedHook attaches the waitlist coordinator. Set once during
	// container wiring; nil disables the hand-off.
	SetSlotFreedHook(h SlotFreedHook)
}

type service struct {
	repo      Repository
	resources ResourceReader
	publisher notification.Publisher
	locks     *locker.KeyedMutex
	freed     SlotFreedHook
	buffer    time.Duration
	now       func() time.Time
}

// NewService wires the booking engine. A non-positive buffer falls back to
// SameDayBuffer.
func NewService(repo Repository, resources ResourceReader, publisher notification.Publisher, buffer time.Duration) Service {
	if buffer <= 0 {
		buffer = SameDayBuffer
	}
	return &service{
		repo:      repo,
		resources: resources,
		publisher: publisher,
		locks:     locker.New(),
		buffer:    buffer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) SetSlotFreedHook(h SlotFreedHook) {
	s.freed = h
}

func (s *service) Create(ctx context.Context, p Principal, req CreateRequest) (*Booking, error) {
	start := req.Start.UTC()
	end := req.End.UTC()

	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	if !sameDay(start, end) {
		// The weekly-window model assumes a booking never crosses midnight.
		return nil, ErrCrossesMidnight
	}

	now := s.now()
	if sameDay(start, now) {
		if start.Before(now.Add(s.buffer)) {
			return nil, ErrTooSoon
		}
	} else if start.Before(now) {
		return nil, ErrStartTimePast
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if err == resource.ErrNotFound {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if res.Status != resource.StatusPublished {
		return nil, ErrNotBookable
	}

	// Malformed rules degrade the resource to unavailable rather than
	// crashing or trusting partial data.
	schedule, err := availability.ParseRules(res.AvailabilityRules)
	if err != nil {
		return nil, ErrUnavailable
	}
	if !schedule.IsWithin(start, end) {
		return nil, ErrUnavailable
	}

	actor := Actor{Principal: p, IsResourceOwner: res.OwnerID == p.UserID}
	b := &Booking{
		ResourceID:  req.ResourceID,
		RequesterID: p.UserID,
		Start:       start,
		End:         end,
		Status:      InitialStatus(actor, res.RequiresApproval),
	}

	// In-process critical section per resource; the repository transaction
	// covers competing processes.
	unlock := s.locks.Lock(req.ResourceID)
	defer unlock()

	if err := s.repo.CreateIfFree(ctx, b); err != nil {
		if err == ErrTimeConflict {
			metrics.RecordBookingEvent("conflict")
		}
		return nil, err
	}

	metrics.RecordBookingEvent("created")
	s.emit(ctx, res.OwnerID, b.RequesterID, notification.EventBookingSubmitted, b, map[string]string{
		"status": string(b.Status),
	})

	return b, nil
}

func (s *service) GetByID(ctx context.Context, p Principal, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.RequesterID == p.UserID || p.Role.IsStaff() {
		return b, nil
	}
	res, err := s.resources.GetByID(ctx, b.ResourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != p.UserID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, p Principal, id string) (*Booking, error) {
	return s.transition(ctx, p, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, p Principal, id string) (*Booking, error) {
	return s.transition(ctx, p, id, StatusRejected)
}

func (s *service) Cancel(ctx context.Context, p Principal, id string) (*Booking, error) {
	return s.transition(ctx, p, id, StatusCancelled)
}

func (s *service) Complete(ctx context.Context, p Principal, id string) (*Booking, error) {
	return s.transition(ctx, p, id, StatusCompleted)
}

func (s *service) transition(ctx context.Context, p Principal, id string, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.resources.GetByID(ctx, b.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("load resource for booking %s failed: %w", id, err)
	}

	actor := Actor{Principal: p, IsResourceOwner: res.OwnerID == p.UserID}
	if err := ValidateTransition(b, to, actor); err != nil {
		return nil, err
	}

	// Completion waits for the interval to elapse; admins may force it.
	if to == StatusCompleted && actor.Role != user.RoleAdmin && s.now().Before(b.End) {
		return nil, ErrNotElapsed
	}

	from := b.Status
	updated, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingEvent(string(to))

	switch to {
	case StatusApproved:
		s.emit(ctx, res.OwnerID, updated.RequesterID, notification.EventBookingApproved, updated, nil)
	case StatusRejected:
		s.emit(ctx, res.OwnerID, updated.RequesterID, notification.EventBookingRejected, updated, nil)
	case StatusCancelled:
		s.emit(ctx, res.OwnerID, updated.RequesterID, notification.EventBookingCancelled, updated, nil)
	}

	// A vacated interval hands the slot to the waitlist, inline with the
	// transition. Hand-off problems are logged, never rolled back.
	if FreesSlot(from, to) && s.freed != nil {
		if err := s.freed.OnSlotFreed(ctx, updated.ResourceID, updated.Start, updated.End); err != nil {
			log.Printf("waitlist hand-off failed for booking %s: %v", updated.ID, err)
		}
	}

	return updated, nil
}

// emit sends a best-effort notification event. Nothing is sent when the
// requester is the owner notifying themselves.
func (s *service) emit(ctx context.Context, senderID, receiverID string, t notification.EventType, b *Booking, extra map[string]string) {
	if senderID == receiverID {
		return
	}

	ctxFields := map[string]string{
		"resource_id": b.ResourceID,
		"start":       b.Start.Format(time.RFC3339),
		"end":         b.End.Format(time.RFC3339),
	}
	for k, v := range extra {
		ctxFields[k] = v
	}

	notification.Emit(ctx, s.publisher, notification.Event{
		Type:       t,
		SenderID:   senderID,
		ReceiverID: receiverID,
		BookingID:  b.ID,
		Context:    ctxFields,
	})
}

// sameDay compares calendar days in the canonical zone (UTC).
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
