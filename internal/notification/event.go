package notification

import "time"

type EventType string

const (
	EventBookingSubmitted EventType = "booking_submitted"
	EventBookingApproved  EventType = "booking_approved"
	EventBookingRejected  EventType = "booking_rejected"
	EventBookingCancelled EventType = "booking_cancelled"
	EventSlotAvailable    EventType = "slot_available"
)

// Event is the payload handed to the external messaging collaborator.
// Delivery is one-way and best-effort: a failed publish is logged and never
// affects the state change that produced the event.
type Event struct {
	ID              string            `json:"id"`
	Type            EventType         `json:"type"`
	SenderID        string            `json:"sender_id"`
	ReceiverID      string            `json:"receiver_id"`
	BookingID       string            `json:"booking_id,omitempty"`
	WaitlistEntryID string            `json:"waitlist_entry_id,omitempty"`
	Context         map[string]string `json:"context,omitempty"`
	OccurredAt      time.Time         `json:"occurred_at"`
}
