package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yennietran/AIDD-Final-Project/internal/auth"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/request"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/response"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

type Handler struct {
	service   booking.Service
	resources booking.ResourceReader
}

func NewHandler(service booking.Service, resources booking.ResourceReader) *Handler {
	return &Handler{service: service, resources: resources}
}

func principal(c *gin.Context) booking.Principal {
	return booking.Principal{
		UserID: auth.GetUserID(c),
		Role:   user.Role(auth.GetUserRole(c)),
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), principal(c), booking.CreateRequest{
		ResourceID: body.ResourceID,
		Start:      body.StartTime,
		End:        body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), principal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	p := principal(c)
	requesterID := listRequesterScope(p, h.ownsResource(c, p.UserID, req.ResourceID), req.RequesterID)

	bookings, total, err := h.service.List(c.Request.Context(), booking.Filter{
		RequesterID: requesterID,
		ResourceID:  req.ResourceID,
		Status:      booking.Status(req.Status),
		StartFrom:   req.StartTimeFrom,
		StartTo:     req.StartTimeTo,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// listRequesterScope decides whose bookings a list call may see. Staff browse
// everyone, and a resource owner may see all bookings on a resource they own;
// everybody else is pinned to their own rows.
func listRequesterScope(p booking.Principal, ownsResource bool, requested string) string {
	if p.Role.IsStaff() || ownsResource {
		return requested
	}
	return p.UserID
}

func (h *Handler) ownsResource(c *gin.Context, userID, resourceID string) bool {
	if resourceID == "" || userID == "" {
		return false
	}
	res, err := h.resources.GetByID(c.Request.Context(), resourceID)
	if err != nil {
		return false
	}
	return res.OwnerID == userID
}

func (h *Handler) transition(c *gin.Context, do func(*gin.Context, string) (*booking.Booking, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := do(c, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Approve(c.Request.Context(), principal(c), id)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Reject(c.Request.Context(), principal(c), id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Cancel(c.Request.Context(), principal(c), id)
	})
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Complete(c.Request.Context(), principal(c), id)
	})
}
