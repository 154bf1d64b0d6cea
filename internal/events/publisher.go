package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// EventSource identifies this service on the bus.
	EventSource = "student-management-service"

	// EventVersion is the schema version stamped on every event.
	EventVersion = "1.0"
)

// Event types published by the payment service.
const (
	PaymentCreated       = "payment.created"
	PaymentStatusUpdated = "payment.status_updated"
)

// Event is the envelope published to the event bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent stamps a fresh envelope around the payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// PaymentCreatedEvent is the payload for payment.created.
type PaymentCreatedEvent struct {
	PaymentID   uint    `json:"payment_id"`
	StudentCode string  `json:"student_code"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
}

// PaymentStatusUpdatedEvent is the payload for payment.status_updated.
type PaymentStatusUpdatedEvent struct {
	PaymentID      uint   `json:"payment_id"`
	StudentCode    string `json:"student_code"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

// EventPublisher publishes domain events. Implementations must be safe for
// concurrent use; publish failures are surfaced to the caller, which logs
// and continues (events never fail the originating request).
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
