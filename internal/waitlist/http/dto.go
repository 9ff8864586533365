package http

import (
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/waitlist"
)

type JoinWaitlistBody struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Validate performs custom validation for JoinWaitlistBody.
func (b *JoinWaitlistBody) Validate() error {
	if !b.StartTime.Before(b.EndTime) {
		return waitlist.ErrInvalidTimeRange
	}
	return nil
}

type EntryResponse struct {
	ID         string     `json:"id"`
	ResourceID string     `json:"resource_id"`
	UserID     string     `json:"user_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
}

func NewEntryResponse(e *waitlist.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ResourceID: e.ResourceID,
		UserID:     e.UserID,
		StartTime:  e.Start,
		EndTime:    e.End,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		NotifiedAt: e.NotifiedAt,
	}
}

type PositionResponse struct {
	EntryID  string `json:"entry_id"`
	Position int    `json:"position"`
}
