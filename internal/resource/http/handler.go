package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yennietran/AIDD-Final-Project/internal/auth"
	"github.com/yennietran/AIDD-Final-Project/internal/availability"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/catalog"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/request"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/response"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

// BookingLister is the slice of the booking service the availability endpoint
// needs.
type BookingLister interface {
	List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int, error)
}

type Handler struct {
	service  resource.Service
	catalog  catalog.Service
	bookings BookingLister
}

func NewHandler(service resource.Service, catalogService catalog.Service, bookings BookingLister) *Handler {
	return &Handler{service: service, catalog: catalogService, bookings: bookings}
}

// Search is the public catalog: published resources only, with optional
// availability probing and ranked ordering.
func (h *Handler) Search(c *gin.Context) {
	var req SearchResourcesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	items, total, err := h.catalog.Search(c.Request.Context(), catalog.SearchRequest{
		Keyword:     req.Keyword,
		Category:    req.Category,
		Location:    req.Location,
		MinCapacity: req.MinCapacity,
		AvailableOn: req.AvailableOn,
		AvailableAt: req.AvailableAt,
		Sort:        req.Sort,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]CatalogItemResponse, len(items))
	for i, item := range items {
		out[i] = NewCatalogItemResponse(item)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

// ListMine returns the caller's own resources in any status.
func (h *Handler) ListMine(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	resources, total, err := h.service.List(c.Request.Context(), resource.Filter{
		OwnerID:  auth.GetUserID(c),
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ResourceResponse, len(resources))
	for i, res := range resources {
		items[i] = NewResourceResponse(res)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResourceResponse(res))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateResourceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		OwnerID:           auth.GetUserID(c),
		Title:             body.Title,
		Description:       body.Description,
		Category:          body.Category,
		Location:          body.Location,
		Capacity:          body.Capacity,
		AvailabilityRules: body.AvailabilityRules,
		RequiresApproval:  body.RequiresApproval,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResourceResponse(res))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	var body UpdateResourceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Update(c.Request.Context(), uri.ID, resource.UpdateRequest{
		Title:             body.Title,
		Description:       body.Description,
		Category:          body.Category,
		Location:          body.Location,
		Capacity:          body.Capacity,
		AvailabilityRules: body.AvailabilityRules,
		RequiresApproval:  body.RequiresApproval,
		Status:            body.Status,
	}, auth.GetUserID(c), user.Role(auth.GetUserRole(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(res))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c), user.Role(auth.GetUserRole(c))); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DayAvailability returns the configured windows for one calendar day and
// what remains of them after existing bookings.
func (h *Handler) DayAvailability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	res, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	schedule, err := availability.ParseRules(res.AvailabilityRules)
	if err != nil {
		// Unparseable rules mean no bookable windows at all.
		c.JSON(http.StatusOK, DayAvailabilityResponse{
			Date:      day.Format("2006-01-02"),
			Windows:   []SlotResponse{},
			FreeSlots: []SlotResponse{},
		})
		return
	}
	windows := schedule.WindowsFor(day.Weekday())

	dayEnd := day.Add(24 * time.Hour)
	held, _, err := h.bookings.List(ctx, booking.Filter{
		ResourceID: uri.ID,
		StartFrom:  &day,
		StartTo:    &dayEnd,
		PageSize:   scanPageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	var busy []availability.Window
	for _, b := range held {
		if !b.Status.HoldsSlot() {
			continue
		}
		busy = append(busy, availability.Window{
			Start: b.Start.Hour()*60 + b.Start.Minute(),
			End:   b.End.Hour()*60 + b.End.Minute(),
		})
	}

	resp := DayAvailabilityResponse{
		Date:      day.Format("2006-01-02"),
		Windows:   make([]SlotResponse, 0, len(windows)),
		FreeSlots: make([]SlotResponse, 0),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, NewSlotResponse(w))
	}
	for _, w := range availability.FreeWindows(windows, busy) {
		resp.FreeSlots = append(resp.FreeSlots, NewSlotResponse(w))
	}
	c.JSON(http.StatusOK, resp)
}

// scanPageSize bounds how many bookings one day-availability lookup loads.
const scanPageSize = 200
