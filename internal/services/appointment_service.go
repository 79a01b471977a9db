// Package services – AppointmentService
//
// This file implements the AppointmentService, which orchestrates the
// appointment use-cases on top of a record store: listing (with optional
// date/name filters and pagination), creating through the booking checks,
// partial updates, deletes, the dashboard summary and slot availability.
//
// Observability: every public method opens an OpenTelemetry span. Mutations
// publish lifecycle events best-effort; a failed publish is logged and never
// changes the result returned to the caller.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/events"
	"github.com/tbourn/go-booking-backend/internal/observability"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/search"
	"github.com/tbourn/go-booking-backend/internal/slots"
	"github.com/tbourn/go-booking-backend/internal/utils"
)

// DateLayout is the wire format of Appointment.Date.
const DateLayout = "2006-01-02"

// AppointmentStore defines the record store contract required by
// AppointmentService. repo.GormStore, repo.MongoStore and cache.CachedStore
// implement it.
type AppointmentStore interface {
	BookingLookup

	// List returns every appointment ordered by date, then time label.
	List(ctx context.Context) ([]domain.Appointment, error)
	// ListAll returns every appointment in store order.
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	// ListByDate returns the appointments on one day.
	ListByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	// Get returns one appointment or repo.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	// Insert stores a and assigns its id.
	Insert(ctx context.Context, a *domain.Appointment) error
	// Update applies a partial change or returns repo.ErrNotFound.
	Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error)
	// Delete removes an appointment; unknown ids are not an error.
	Delete(ctx context.Context, id string) error
	// Summary counts appointments relative to today.
	Summary(ctx context.Context, today string) (domain.Summary, error)
}

// ListQuery narrows and pages GET /appointments. Zero values mean "no filter"
// and "no paging".
type ListQuery struct {
	Date     string
	Query    string
	Page     int
	PageSize int
}

// AppointmentService implements the appointment use-cases.
type AppointmentService struct {
	// Store is the record store used for persistence.
	Store AppointmentStore
	// Events receives lifecycle events. Nil disables publishing.
	Events events.Publisher
	// Now is the clock used for the summary; defaults to time.Now.
	Now func() time.Time
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(store AppointmentStore, pub events.Publisher) *AppointmentService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AppointmentService{Store: store, Events: pub, Now: time.Now}
}

func (s *AppointmentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func tracer() trace.Tracer { return otel.Tracer("services/AppointmentService") }

// List returns the appointments matching q, ordered by date and then by slot
// time, together with the number of matches before paging.
func (s *AppointmentService) List(ctx context.Context, q ListQuery) ([]domain.Appointment, int, error) {
	ctx, span := tracer().Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("filter.date", q.Date),
			attribute.Bool("filter.name", q.Query != ""),
		),
	)
	defer span.End()

	var (
		items []domain.Appointment
		err   error
	)
	if q.Date != "" {
		if !ValidDate(q.Date) {
			return nil, 0, ErrInvalidDate
		}
		items, err = s.Store.ListByDate(ctx, q.Date)
	} else {
		items, err = s.Store.List(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	items = search.FilterByName(items, q.Query)
	if items == nil {
		items = []domain.Appointment{}
	}
	SortChronologically(items)

	total := len(items)
	lo, hi := utils.Window(total, q.Page, q.PageSize)
	span.SetAttributes(attribute.Int("result.total", total))
	return items[lo:hi], total, nil
}

// ListAll returns every stored appointment without filtering or ordering.
func (s *AppointmentService) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	ctx, span := tracer().Start(ctx, "ListAll")
	defer span.End()

	items, err := s.Store.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if items == nil {
		items = []domain.Appointment{}
	}
	return items, nil
}

// Get returns the appointment with id or ErrAppointmentNotFound.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, span := tracer().Start(ctx, "Get",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	a, err := s.Store.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return a, nil
}

// Create runs the booking checks and, when they pass, stores the candidate
// verbatim. The returned appointment carries the store-assigned id.
//
// When the store enforces uniqueness itself, an insert that loses a race to a
// concurrent booking is reported with the same errors as the checks.
func (s *AppointmentService) Create(ctx context.Context, in domain.Appointment) (*domain.Appointment, error) {
	ctx, span := tracer().Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("appointment.date", in.Date),
			attribute.String("appointment.time", in.Time),
		),
	)
	defer span.End()

	in.ID = ""
	if err := ValidateForCreation(ctx, in, s.Store); err != nil {
		recordRejection(err)
		span.SetAttributes(attribute.String("rejection", err.Error()))
		return nil, err
	}

	if err := s.Store.Insert(ctx, &in); err != nil {
		switch {
		case errors.Is(err, repo.ErrMobileTaken):
			err = ErrDuplicateMobile
		case errors.Is(err, repo.ErrSlotTaken):
			err = ErrSlotTaken
		default:
			span.RecordError(err)
			return nil, err
		}
		recordRejection(err)
		return nil, err
	}

	appointmentsCreated.Inc()
	s.publish(ctx, events.New(events.TypeCreated, in.ID, &in))
	return &in, nil
}

// Update applies patch to the appointment with id and returns the result.
//
// No booking checks run here: an update may move an appointment onto a taken
// slot or reuse another appointment's mobile number. An empty patch returns
// the stored appointment unchanged.
func (s *AppointmentService) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	ctx, span := tracer().Start(ctx, "Update",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	var (
		a   *domain.Appointment
		err error
	)
	if patch.Empty() {
		a, err = s.Store.Get(ctx, id)
	} else {
		a, err = s.Store.Update(ctx, id, patch)
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case errors.Is(err, repo.ErrMobileTaken):
		// Only strict stores reject colliding updates.
		return nil, ErrDuplicateMobile
	case errors.Is(err, repo.ErrSlotTaken):
		return nil, ErrSlotTaken
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	if !patch.Empty() {
		log.Ctx(ctx).Debug().Str("appointment_id", id).Msg("appointment updated without booking checks")
		s.publish(ctx, events.New(events.TypeUpdated, a.ID, a))
	}
	return a, nil
}

// Delete removes the appointment with id. It succeeds whether or not the
// appointment existed.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer().Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	if err := s.Store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.publish(ctx, events.New(events.TypeDeleted, id, nil))
	return nil
}

// Summary counts appointments today, upcoming and past relative to the
// current UTC date.
func (s *AppointmentService) Summary(ctx context.Context) (domain.Summary, error) {
	ctx, span := tracer().Start(ctx, "Summary")
	defer span.End()

	today := s.now().UTC().Format(DateLayout)
	span.SetAttributes(attribute.String("today", today))
	sum, err := s.Store.Summary(ctx, today)
	if err != nil {
		span.RecordError(err)
	}
	return sum, err
}

// AvailableSlots returns the generated slot labels not yet booked on date.
func (s *AppointmentService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	ctx, span := tracer().Start(ctx, "AvailableSlots",
		trace.WithAttributes(attribute.String("date", date)),
	)
	defer span.End()

	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	booked, err := s.Store.ListByDate(ctx, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	taken := make([]string, 0, len(booked))
	for _, a := range booked {
		taken = append(taken, a.Time)
	}
	free := slots.Available(taken)
	if free == nil {
		free = []string{}
	}
	return free, nil
}

func (s *AppointmentService) publish(ctx context.Context, e events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", e.Type).Str("appointment_id", e.AppointmentID).Msg("event publish failed")
		observability.CaptureError(ctx, err, map[string]any{"event": e.Type, "appointment_id": e.AppointmentID})
	}
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// SortChronologically orders appointments by date, then by slot time, keeping
// the input order of ties.
func SortChronologically(items []domain.Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return slots.Compare(items[i].Time, items[j].Time) < 0
	})
}
