package review

import (
	"context"
	"strings"

	"github.com/yennietran/AIDD-Final-Project/internal/booking"
)

type CreateRequest struct {
	// ResourceID, when set, must match the booking's resource.
	ResourceID string
	BookingID  string
	Rating     int
	Comment    string
}

// BookingReader loads the booking a review refers to.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

// Service gates reviews behind completed bookings: only the requester of a
// completed booking may review, once per booking.
type Service interface {
	Create(ctx context.Context, p booking.Principal, req CreateRequest) (*Review, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Review, error)
	Delete(ctx context.Context, p booking.Principal, id string) error
	StatsFor(ctx context.Context, resourceIDs []string) (map[string]Stats, error)
}

type service struct {
	repo     Repository
	bookings BookingReader
}

func NewService(repo Repository, bookings BookingReader) Service {
	return &service{repo: repo, bookings: bookings}
}

func (s *service) Create(ctx context.Context, p booking.Principal, req CreateRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RequesterID != p.UserID {
		return nil, ErrPermissionDenied
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrNotEligible
	}
	if req.ResourceID != "" && b.ResourceID != req.ResourceID {
		return nil, ErrBookingMismatch
	}

	rev := &Review{
		ResourceID: b.ResourceID,
		BookingID:  b.ID,
		AuthorID:   p.UserID,
		Rating:     req.Rating,
	}
	if c := strings.TrimSpace(req.Comment); c != "" {
		rev.Comment = &c
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *service) ListByResource(ctx context.Context, resourceID string) ([]*Review, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

func (s *service) Delete(ctx context.Context, p booking.Principal, id string) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rev.AuthorID != p.UserID && !p.Role.IsStaff() {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) StatsFor(ctx context.Context, resourceIDs []string) (map[string]Stats, error) {
	return s.repo.StatsFor(ctx, resourceIDs)
}
