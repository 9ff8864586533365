package http

import (
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/review"
)

type CreateReviewBody struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type ReviewResponse struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	BookingID  string    `json:"booking_id"`
	AuthorID   string    `json:"author_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		BookingID:  r.BookingID,
		AuthorID:   r.AuthorID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
