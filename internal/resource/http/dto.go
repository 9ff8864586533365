package http

import (
	"fmt"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/availability"
	"github.com/yennietran/AIDD-Final-Project/internal/catalog"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/request"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
)

// SearchResourcesRequest defines query parameters for the public catalog.
type SearchResourcesRequest struct {
	request.ListParams
	Keyword     string `form:"q"`
	Category    string `form:"category"`
	Location    string `form:"location"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=1"`
	AvailableOn string `form:"date"`
	AvailableAt string `form:"time"`
	Sort        string `form:"sort" binding:"omitempty,oneof=recent most_booked top_rated"`
}

type CreateResourceBody struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Location          string `json:"location"`
	Capacity          int    `json:"capacity" binding:"required,min=1"`
	AvailabilityRules string `json:"availability_rules"`
	RequiresApproval  bool   `json:"requires_approval"`
}

type UpdateResourceBody struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	Category          *string `json:"category"`
	Location          *string `json:"location"`
	Capacity          *int    `json:"capacity" binding:"omitempty,min=1"`
	AvailabilityRules *string `json:"availability_rules"`
	RequiresApproval  *bool   `json:"requires_approval"`
	Status            *string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type ResourceResponse struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Category          *string   `json:"category,omitempty"`
	Location          *string   `json:"location,omitempty"`
	Capacity          int       `json:"capacity"`
	AvailabilityRules string    `json:"availability_rules"`
	RequiresApproval  bool      `json:"requires_approval"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Title:             r.Title,
		Description:       r.Description,
		Category:          r.Category,
		Location:          r.Location,
		Capacity:          r.Capacity,
		AvailabilityRules: r.AvailabilityRules,
		RequiresApproval:  r.RequiresApproval,
		Status:            string(r.Status),
		CreatedAt:         r.CreatedAt,
	}
}

// CatalogItemResponse is a search hit with its ranking signals exposed.
type CatalogItemResponse struct {
	ResourceResponse
	BookedCount   int     `json:"booked_count"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

func NewCatalogItemResponse(item *catalog.Item) CatalogItemResponse {
	return CatalogItemResponse{
		ResourceResponse: NewResourceResponse(item.Resource),
		BookedCount:      item.HeldBookings,
		ReviewCount:      item.ReviewCount,
		AverageRating:    item.AverageRating,
	}
}

// SlotResponse is a time-of-day range rendered as clock strings.
type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewSlotResponse(w availability.Window) SlotResponse {
	return SlotResponse{Start: clockString(w.Start), End: clockString(w.End)}
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type DayAvailabilityResponse struct {
	Date      string         `json:"date"`
	Windows   []SlotResponse `json:"windows"`
	FreeSlots []SlotResponse `json:"free_slots"`
}
