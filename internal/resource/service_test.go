package resource

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

type fakeRepo struct {
	resources map[string]*Resource
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{resources: make(map[string]*Resource)}
}

func (r *fakeRepo) Create(_ context.Context, res *Resource) error {
	r.nextID++
	res.ID = fmt.Sprintf("res-%d", r.nextID)
	clone := *res
	r.resources[res.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Resource, int, error) {
	var out []*Resource
	for _, res := range r.resources {
		if filter.OwnerID != "" && res.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		clone := *res
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, res *Resource) error {
	if _, ok := r.resources[res.ID]; !ok {
		return ErrNotFound
	}
	clone := *res
	r.resources[res.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.resources[id]; !ok {
		return ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo), repo
}

func TestCreateResource(t *testing.T) {
	svc, _ := newTestService()

	res, err := svc.Create(context.Background(), CreateRequest{
		OwnerID:           "own-1",
		Title:             "  Study Room A  ",
		Description:       "Quiet room",
		Capacity:          6,
		AvailabilityRules: `{"monday": "09:00-17:00"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Study Room A", res.Title)
	assert.Equal(t, StatusDraft, res.Status)
	require.NotNil(t, res.Description)
	assert.Equal(t, "Quiet room", *res.Description)
}

func TestCreateResourceValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "  ", Capacity: 2})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "Room", Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = svc.Create(ctx, CreateRequest{
		OwnerID: "own-1", Title: "Room", Capacity: 2,
		AvailabilityRules: `{"monday": "9am-5pm"}`,
	})
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestUpdateResourcePermissions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "Room", Capacity: 2})
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.Update(ctx, res.ID, UpdateRequest{Title: &title}, "stranger", user.RoleStudent)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(ctx, res.ID, UpdateRequest{Title: &title}, "own-1", user.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	// Staff may edit anyone's resource.
	other := "Staff Renamed"
	updated, err = svc.Update(ctx, res.ID, UpdateRequest{Title: &other}, "staff-1", user.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "Staff Renamed", updated.Title)
}

func TestUpdateResourceStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "Room", Capacity: 2})
	require.NoError(t, err)

	status := "published"
	updated, err := svc.Update(ctx, res.ID, UpdateRequest{Status: &status}, "own-1", user.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, updated.Status)

	bad := "open"
	_, err = svc.Update(ctx, res.ID, UpdateRequest{Status: &bad}, "own-1", user.RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateResourceRulesValidated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "Room", Capacity: 2})
	require.NoError(t, err)

	bad := `{"someday": "09:00-17:00"}`
	_, err = svc.Update(ctx, res.ID, UpdateRequest{AvailabilityRules: &bad}, "own-1", user.RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestDeleteResourcePermissions(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateRequest{OwnerID: "own-1", Title: "Room", Capacity: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, res.ID, "stranger", user.RoleStudent), ErrPermissionDenied)
	assert.NoError(t, svc.Delete(ctx, res.ID, "own-1", user.RoleStudent))
	assert.Empty(t, repo.resources)
}
