package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

type fakeRepo struct {
	reviews   map[string]*Review
	byBooking map[string]bool
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: make(map[string]*Review), byBooking: make(map[string]bool)}
}

func (r *fakeRepo) Create(_ context.Context, rev *Review) error {
	if r.byBooking[rev.BookingID] {
		return ErrAlreadyReviewed
	}
	r.nextID++
	rev.ID = fmt.Sprintf("rev-%d", r.nextID)
	r.byBooking[rev.BookingID] = true
	clone := *rev
	r.reviews[rev.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *rev
	return &clone, nil
}

func (r *fakeRepo) ListByResource(_ context.Context, resourceID string) ([]*Review, error) {
	var out []*Review
	for _, rev := range r.reviews {
		if rev.ResourceID == resourceID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	rev, ok := r.reviews[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byBooking, rev.BookingID)
	delete(r.reviews, id)
	return nil
}

func (r *fakeRepo) StatsFor(_ context.Context, resourceIDs []string) (map[string]Stats, error) {
	stats := make(map[string]Stats)
	for _, id := range resourceIDs {
		var sum, count int
		for _, rev := range r.reviews {
			if rev.ResourceID == id {
				sum += rev.Rating
				count++
			}
		}
		if count > 0 {
			stats[id] = Stats{Count: count, Average: float64(sum) / float64(count)}
		}
	}
	return stats, nil
}

type fakeBookings struct {
	byID map[string]*booking.Booking
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	bookings := &fakeBookings{byID: map[string]*booking.Booking{
		"bk-done":    {ID: "bk-done", ResourceID: "room-1", RequesterID: "u-1", Status: booking.StatusCompleted},
		"bk-pending": {ID: "bk-pending", ResourceID: "room-1", RequesterID: "u-1", Status: booking.StatusPending},
		"bk-approved": {
			ID: "bk-approved", ResourceID: "room-1", RequesterID: "u-1", Status: booking.StatusApproved,
		},
	}}
	return NewService(repo, bookings), repo
}

func student(id string) booking.Principal {
	return booking.Principal{UserID: id, Role: user.RoleStudent}
}

func TestCreateReview(t *testing.T) {
	svc, _ := newTestService()

	rev, err := svc.Create(context.Background(), student("u-1"), CreateRequest{
		BookingID: "bk-done", Rating: 4, Comment: "  good projector  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "room-1", rev.ResourceID)
	assert.Equal(t, 4, rev.Rating)
	require.NotNil(t, rev.Comment)
	assert.Equal(t, "good projector", *rev.Comment)
}

func TestCreateReviewEligibility(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-pending", Rating: 4})
	assert.ErrorIs(t, err, ErrNotEligible)

	_, err = svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-approved", Rating: 4})
	assert.ErrorIs(t, err, ErrNotEligible)

	// Someone else's completed booking.
	_, err = svc.Create(ctx, student("u-2"), CreateRequest{BookingID: "bk-done", Rating: 4})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-done", Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-done", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestCreateReviewOncePerBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-done", Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-done", Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestDeleteReviewPermissions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rev, err := svc.Create(ctx, student("u-1"), CreateRequest{BookingID: "bk-done", Rating: 5})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, student("u-2"), rev.ID), ErrPermissionDenied)
	assert.NoError(t, svc.Delete(ctx, booking.Principal{UserID: "staff-1", Role: user.RoleStaff}, rev.ID))
}

func TestStatsFor(t *testing.T) {
	svc, repo := newTestService()

	repo.reviews["a"] = &Review{ID: "a", ResourceID: "room-1", BookingID: "b1", Rating: 5}
	repo.reviews["b"] = &Review{ID: "b", ResourceID: "room-1", BookingID: "b2", Rating: 3}

	stats, err := svc.StatsFor(context.Background(), []string{"room-1", "room-2"})
	require.NoError(t, err)
	assert.Equal(t, Stats{Count: 2, Average: 4}, stats["room-1"])
	_, ok := stats["room-2"]
	assert.False(t, ok)
}
