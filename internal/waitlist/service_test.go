package waitlist

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/notification"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

type fakeRepo struct {
	mu      sync.Mutex
	entries map[string]*Entry
	nextID  int
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries: make(map[string]*Entry),
		clock:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) Create(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	e.ID = fmt.Sprintf("wl-%d", r.nextID)
	e.CreatedAt = r.clock
	clone := *e
	r.entries[e.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeRepo) waiting(resourceID string) []*Entry {
	var out []*Entry
	for _, e := range r.entries {
		if e.ResourceID == resourceID && e.Status.Waiting() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeRepo) ListByResource(_ context.Context, resourceID string) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiting(resourceID), nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeRepo) HasWaitingOverlap(_ context.Context, resourceID, userID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ResourceID != resourceID || e.UserID != userID || !e.Status.Waiting() {
			continue
		}
		if booking.Overlaps(e.Start, e.End, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) NextOverlapping(_ context.Context, resourceID string, start, end time.Time) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.waiting(resourceID) {
		if e.Status != StatusActive {
			continue
		}
		if booking.Overlaps(e.Start, e.End, start, end) {
			clone := *e
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Status = status
	clone := *e
	return &clone, nil
}

func (r *fakeRepo) MarkNotified(_ context.Context, id string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Status = StatusNotified
	now := time.Now().UTC()
	e.NotifiedAt = &now
	clone := *e
	return &clone, nil
}

func (r *fakeRepo) Position(_ context.Context, target *Entry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos := 1
	for _, e := range r.waiting(target.ResourceID) {
		if e.ID == target.ID {
			return pos, nil
		}
		pos++
	}
	return 0, ErrNotFound
}

type fakeConflicts struct {
	taken bool
}

func (f *fakeConflicts) HasConflict(context.Context, string, time.Time, time.Time, string) (bool, error) {
	return f.taken, nil
}

type fakeBookings struct {
	err     error
	created []booking.CreateRequest
}

func (f *fakeBookings) Create(_ context.Context, p booking.Principal, req booking.CreateRequest) (*booking.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &booking.Booking{
		ID:          "bk-1",
		ResourceID:  req.ResourceID,
		RequesterID: p.UserID,
		Start:       req.Start,
		End:         req.End,
		Status:      booking.StatusApproved,
	}, nil
}

type fakeResources struct {
	byID map[string]*resource.Resource
}

func (f *fakeResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return res, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	svc       Service
	repo      *fakeRepo
	conflicts *fakeConflicts
	bookings  *fakeBookings
	publisher *recordingPublisher
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	conflicts := &fakeConflicts{taken: true}
	bookings := &fakeBookings{}
	resources := &fakeResources{byID: map[string]*resource.Resource{
		"room-1": {ID: "room-1", OwnerID: "own-1", Title: "Room", Status: resource.StatusPublished},
		"room-draft": {
			ID: "room-draft", OwnerID: "own-1", Title: "Draft", Status: resource.StatusDraft,
		},
	}}
	publisher := &recordingPublisher{}
	return &testEnv{
		svc:       NewService(repo, bookings, conflicts, resources, publisher),
		repo:      repo,
		conflicts: conflicts,
		bookings:  bookings,
		publisher: publisher,
	}
}

func student(id string) booking.Principal {
	return booking.Principal{UserID: id, Role: user.RoleStudent}
}

func slot(t *testing.T) (time.Time, time.Time) {
	return mustTime(t, "2026-03-03T10:00:00Z"), mustTime(t, "2026-03-03T11:00:00Z")
}

func TestJoinTakenSlot(t *testing.T) {
	env := newTestEnv()
	start, end := slot(t)

	e, err := env.svc.Join(context.Background(), student("u-1"), JoinRequest{
		ResourceID: "room-1", Start: start, End: end,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, e.Status)
	assert.NotEmpty(t, e.ID)
}

func TestJoinFreeSlotRejected(t *testing.T) {
	env := newTestEnv()
	env.conflicts.taken = false
	start, end := slot(t)

	_, err := env.svc.Join(context.Background(), student("u-1"), JoinRequest{
		ResourceID: "room-1", Start: start, End: end,
	})
	assert.ErrorIs(t, err, ErrSlotFree)
}

func TestJoinDuplicateOverlapRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	_, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	// Half an hour in still overlaps the first request.
	_, err = env.svc.Join(ctx, student("u-1"), JoinRequest{
		ResourceID: "room-1",
		Start:      start.Add(30 * time.Minute),
		End:        end.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrAlreadyWaiting)

	// A different user may wait for the same interval.
	_, err = env.svc.Join(ctx, student("u-2"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	assert.NoError(t, err)
}

func TestJoinInvalidRange(t *testing.T) {
	env := newTestEnv()
	start, end := slot(t)

	_, err := env.svc.Join(context.Background(), student("u-1"), JoinRequest{
		ResourceID: "room-1", Start: end, End: start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestJoinUnpublishedResource(t *testing.T) {
	env := newTestEnv()
	start, end := slot(t)

	_, err := env.svc.Join(context.Background(), student("u-1"), JoinRequest{
		ResourceID: "room-draft", Start: start, End: end,
	})
	assert.ErrorIs(t, err, errNotBookable)
}

func TestOnSlotFreedNotifiesEarliestOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	first, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)
	second, err := env.svc.Join(ctx, student("u-2"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	require.NoError(t, env.svc.OnSlotFreed(ctx, "room-1", start, end))

	got1, _ := env.repo.GetByID(ctx, first.ID)
	got2, _ := env.repo.GetByID(ctx, second.ID)
	assert.Equal(t, StatusNotified, got1.Status)
	assert.NotNil(t, got1.NotifiedAt)
	assert.Equal(t, StatusActive, got2.Status)

	require.Len(t, env.publisher.events, 1)
	e := env.publisher.events[0]
	assert.Equal(t, notification.EventSlotAvailable, e.Type)
	assert.Equal(t, "u-1", e.ReceiverID)
	assert.Equal(t, first.ID, e.WaitlistEntryID)
}

func TestOnSlotFreedEmptyQueue(t *testing.T) {
	env := newTestEnv()
	start, end := slot(t)

	assert.NoError(t, env.svc.OnSlotFreed(context.Background(), "room-1", start, end))
	assert.Empty(t, env.publisher.events)
}

func TestOnSlotFreedSkipsNonOverlapping(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	_, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	// A freed afternoon slot is useless to someone waiting for the morning.
	require.NoError(t, env.svc.OnSlotFreed(ctx, "room-1", end.Add(time.Hour), end.Add(2*time.Hour)))
	assert.Empty(t, env.publisher.events)
}

func TestOnSlotFreedPartialOverlapCounts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	require.NoError(t, env.svc.OnSlotFreed(ctx, "room-1", start.Add(30*time.Minute), end.Add(time.Hour)))

	got, _ := env.repo.GetByID(ctx, e.ID)
	assert.Equal(t, StatusNotified, got.Status)
}

func TestConvertSuccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)
	require.NoError(t, env.svc.OnSlotFreed(ctx, "room-1", start, end))

	b, err := env.svc.Convert(ctx, student("u-1"), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "room-1", b.ResourceID)
	assert.Equal(t, "u-1", b.RequesterID)

	got, _ := env.repo.GetByID(ctx, e.ID)
	assert.Equal(t, StatusConverted, got.Status)
}

func TestConvertConflictKeepsEntry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)
	require.NoError(t, env.svc.OnSlotFreed(ctx, "room-1", start, end))

	// Somebody re-took the slot between the notification and the convert.
	env.bookings.err = booking.ErrTimeConflict

	_, err = env.svc.Convert(ctx, student("u-1"), e.ID)
	assert.ErrorIs(t, err, booking.ErrTimeConflict)

	got, _ := env.repo.GetByID(ctx, e.ID)
	assert.Equal(t, StatusNotified, got.Status)
}

func TestConvertWrongUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	_, err = env.svc.Convert(ctx, student("u-2"), e.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConvertAfterLeaveRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	_, err = env.svc.Leave(ctx, student("u-1"), e.ID)
	require.NoError(t, err)

	_, err = env.svc.Convert(ctx, student("u-1"), e.ID)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestLeavePermissions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	e, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	_, err = env.svc.Leave(ctx, student("u-2"), e.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Staff may prune entries.
	left, err := env.svc.Leave(ctx, booking.Principal{UserID: "staff-1", Role: user.RoleStaff}, e.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusLeft, left.Status)
}

func TestPositionFollowsQueueOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	first, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)
	second, err := env.svc.Join(ctx, student("u-2"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	pos, err := env.svc.Position(ctx, student("u-1"), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = env.svc.Position(ctx, student("u-2"), second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	// The head leaving moves everyone up.
	_, err = env.svc.Leave(ctx, student("u-1"), first.ID)
	require.NoError(t, err)

	pos, err = env.svc.Position(ctx, student("u-2"), second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestListByResourceRequiresOwnerOrStaff(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	start, end := slot(t)

	_, err := env.svc.Join(ctx, student("u-1"), JoinRequest{ResourceID: "room-1", Start: start, End: end})
	require.NoError(t, err)

	_, err = env.svc.ListByResource(ctx, student("u-1"), "room-1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	entries, err := env.svc.ListByResource(ctx, student("own-1"), "room-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
