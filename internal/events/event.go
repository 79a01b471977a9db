// Package events publishes appointment lifecycle events. Publishing is
// best-effort: the booking flow never fails because an event could not be
// delivered.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// Event types.
const (
	TypeCreated = "appointment.created"
	TypeUpdated = "appointment.updated"
	TypeDeleted = "appointment.deleted"
)

// Event is the JSON payload written to the topic. Appointment is nil for
// deletions.
type Event struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	AppointmentID string              `json:"appointmentId"`
	Appointment   *domain.Appointment `json:"appointment,omitempty"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// New builds an event with a fresh id and the current UTC time.
func New(typ, appointmentID string, a *domain.Appointment) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          typ,
		AppointmentID: appointmentID,
		Appointment:   a,
		OccurredAt:    time.Now().UTC(),
	}
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
