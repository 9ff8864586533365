package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yennietran/AIDD-Final-Project/internal/auth"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	bookingHttp "github.com/yennietran/AIDD-Final-Project/internal/booking/http"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/request"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/response"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
	"github.com/yennietran/AIDD-Final-Project/internal/waitlist"
)

type Handler struct {
	service waitlist.Service
}

func NewHandler(service waitlist.Service) *Handler {
	return &Handler{service: service}
}

func principal(c *gin.Context) booking.Principal {
	return booking.Principal{
		UserID: auth.GetUserID(c),
		Role:   user.Role(auth.GetUserRole(c)),
	}
}

// Join queues the caller for a taken interval on a resource.
func (h *Handler) Join(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	var body JoinWaitlistBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	e, err := h.service.Join(c.Request.Context(), principal(c), waitlist.JoinRequest{
		ResourceID: uri.ID,
		Start:      body.StartTime,
		End:        body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewEntryResponse(e))
}

// ListForResource shows a resource's queue to its owner or staff.
func (h *Handler) ListForResource(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	entries, err := h.service.ListByResource(c.Request.Context(), principal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewEntryResponse(e)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ListMine(c *gin.Context) {
	entries, err := h.service.ListMine(c.Request.Context(), principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewEntryResponse(e)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Leave(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid waitlist entry id"})
		return
	}

	if _, err := h.service.Leave(c.Request.Context(), principal(c), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Convert turns a waitlist entry into a booking through the normal booking
// pipeline.
func (h *Handler) Convert(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid waitlist entry id"})
		return
	}

	b, err := h.service.Convert(c.Request.Context(), principal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingHttp.NewBookingResponse(b))
}

func (h *Handler) Position(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid waitlist entry id"})
		return
	}

	pos, err := h.service.Position(c.Request.Context(), principal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, PositionResponse{EntryID: uri.ID, Position: pos})
}
