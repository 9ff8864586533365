package notification

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Publisher delivers notification events to the messaging collaborator.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit fills in the event id and timestamp, publishes, and swallows the
// error after logging it. Every caller that must not fail on delivery
// problems goes through here.
func Emit(ctx context.Context, p Publisher, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	if err := p.Publish(ctx, e); err != nil {
		log.Printf("notification publish failed (type=%s receiver=%s): %v", e.Type, e.ReceiverID, err)
	}
}

// LogPublisher writes events to the process log. Used when no broker is
// configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	log.Printf("notification event: type=%s sender=%s receiver=%s booking=%s waitlist=%s",
		e.Type, e.SenderID, e.ReceiverID, e.BookingID, e.WaitlistEntryID)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
