package resource

import (
	"context"
	"strings"

	"github.com/yennietran/AIDD-Final-Project/internal/availability"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

type CreateRequest struct {
	OwnerID           string
	Title             string
	Description       string
	Category          string
	Location          string
	Capacity          int
	AvailabilityRules string
	RequiresApproval  bool
}

type UpdateRequest struct {
	Title             *string
	Description       *string
	Category          *string
	Location          *string
	Capacity          *int
	AvailabilityRules *string
	RequiresApproval  *bool
	Status            *string
}

// Service defines business logic for managing resources. Rules JSON is
// validated on write so obviously broken input is caught early; readers still
// parse defensively because older rows may predate validation.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string, actorRole user.Role) (*Resource, error)
	Delete(ctx context.Context, id string, actorID string, actorRole user.Role) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if _, err := availability.ParseRules(req.AvailabilityRules); err != nil {
		return nil, ErrInvalidRules
	}

	res := &Resource{
		OwnerID:           req.OwnerID,
		Title:             strings.TrimSpace(req.Title),
		Description:       optional(req.Description),
		Category:          optional(req.Category),
		Location:          optional(req.Location),
		Capacity:          req.Capacity,
		AvailabilityRules: strings.TrimSpace(req.AvailabilityRules),
		RequiresApproval:  req.RequiresApproval,
		Status:            StatusDraft,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string, actorRole user.Role) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.OwnerID != actorID && !actorRole.IsStaff() {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrEmptyTitle
		}
		res.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		res.Description = optional(*req.Description)
	}
	if req.Category != nil {
		res.Category = optional(*req.Category)
	}
	if req.Location != nil {
		res.Location = optional(*req.Location)
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		res.Capacity = *req.Capacity
	}
	if req.AvailabilityRules != nil {
		if _, err := availability.ParseRules(*req.AvailabilityRules); err != nil {
			return nil, ErrInvalidRules
		}
		res.AvailabilityRules = strings.TrimSpace(*req.AvailabilityRules)
	}
	if req.RequiresApproval != nil {
		res.RequiresApproval = *req.RequiresApproval
	}
	if req.Status != nil {
		st := Status(*req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		res.Status = st
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string, actorRole user.Role) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.OwnerID != actorID && !actorRole.IsStaff() {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func optional(s string) *string {
	if t := strings.TrimSpace(s); t != "" {
		return &t
	}
	return nil
}
