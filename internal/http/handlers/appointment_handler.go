// Appointment HTTP handlers.
//
// This file exposes the booking API:
//   - GET    /appointments                   (list, sorted by date then time)
//   - GET    /appointments/slots             (every booked record, unfiltered)
//   - GET    /appointments/slots/available   (free slot labels for a date)
//   - GET    /appointments/summary           (today / upcoming / past counts)
//   - POST   /appointments                   (book, idempotent with a key)
//   - PUT    /appointments/{id}              (partial update)
//   - DELETE /appointments/{id}              (remove)
//
// Handlers are transport-thin: they bind input, call the appointment service,
// and translate its sentinel errors into status codes.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/http/middleware"
	"github.com/tbourn/go-booking-backend/internal/services"
	"github.com/tbourn/go-booking-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AppointmentService defines the booking operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AppointmentService interface {
	// List returns one page of the filtered, sorted appointments and the
	// number of matches before paging.
	List(ctx context.Context, q services.ListQuery) ([]domain.Appointment, int, error)
	// ListAll returns every stored appointment.
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	// AvailableSlots returns the free slot labels on date.
	AvailableSlots(ctx context.Context, date string) ([]string, error)
	// Summary counts appointments relative to today.
	Summary(ctx context.Context) (domain.Summary, error)
	// Get returns one appointment.
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	// Create validates and stores a new appointment.
	Create(ctx context.Context, in domain.Appointment) (*domain.Appointment, error)
	// Update applies a partial change without booking checks.
	Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error)
	// Delete removes an appointment.
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which appointment an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string, now time.Time) (appointmentID string, status int, found bool, err error)
	Save(ctx context.Context, key, appointmentID string, status int, ttl time.Duration) error
}

//
// Handler wiring
//

// Handlers groups the appointment endpoints.
type Handlers struct {
	svc     AppointmentService
	idem    IdempotencyStore
	idemTTL time.Duration
}

// New constructs Handlers. idem may be nil, in which case Idempotency-Key
// headers are validated but nothing is remembered.
func New(svc AppointmentService, idem IdempotencyStore, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{svc: svc, idem: idem, idemTTL: idemTTL}
}

//
// DTOs
//

// CreateAppointmentRequest is the JSON payload for booking an appointment.
// Required fields are checked by the service so the rejection reason matches
// the booking rules.
type CreateAppointmentRequest struct {
	FirstName string       `json:"firstName" example:"Ann"`
	LastName  string       `json:"lastName" example:"Lee"`
	Mobile    textOrNumber `json:"mobile" swaggertype:"string" example:"0123456789"`
	Reason    string       `json:"reason" example:"Check-up"`
	Date      string       `json:"date" example:"2030-01-02"`
	Time      string       `json:"time" example:"9:15 AM"`
}

// textOrNumber decodes a JSON string or number into its text form, so a
// mobile sent as 9876543210 is stored as "9876543210". null leaves it empty.
type textOrNumber string

func (s *textOrNumber) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = textOrNumber(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = textOrNumber(n.String())
	return nil
}

func (r CreateAppointmentRequest) toDomain() domain.Appointment {
	return domain.Appointment{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Mobile:    string(r.Mobile),
		Reason:    r.Reason,
		Date:      r.Date,
		Time:      r.Time,
	}
}

// AvailableSlotsResponse lists the free slots of one day.
type AvailableSlotsResponse struct {
	Date  string   `json:"date" example:"2030-01-02"`
	Slots []string `json:"slots" example:"9:00 AM,9:15 AM"`
}

//
// Helpers
//

// listQuery reads the optional filters and paging of GET /appointments.
// Paging applies only when page or page_size is given.
func listQuery(c *gin.Context) services.ListQuery {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	q := services.ListQuery{
		Date:  strings.TrimSpace(c.Query("date")),
		Query: strings.TrimSpace(c.Query("q")),
	}
	if c.Query("page") == "" && c.Query("page_size") == "" {
		return q
	}
	q.Page = utils.AtoiDefault(c.Query("page"), 1)
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// failService maps service errors onto the error envelope. Unclassified
// errors are infrastructure failures and pass their message through.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		fail(c, http.StatusBadRequest, ErrCodeMissingFields, err.Error())
	case errors.Is(err, services.ErrDuplicateMobile):
		fail(c, http.StatusBadRequest, ErrCodeDuplicateMobile, err.Error())
	case errors.Is(err, services.ErrSlotTaken):
		fail(c, http.StatusBadRequest, ErrCodeSlotTaken, err.Error())
	case errors.Is(err, services.ErrInvalidDate):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrAppointmentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// replay serves the stored result of an Idempotency-Key, reporting whether it
// did. A key whose appointment has since been deleted is treated as new.
func (h *Handlers) replay(c *gin.Context, key string) bool {
	if h.idem == nil || !middleware.IsReplay(c) {
		return false
	}
	ctx := c.Request.Context()
	id, status, found, err := h.idem.Lookup(ctx, key, time.Now().UTC())
	if err != nil || !found {
		return false
	}
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, services.ErrAppointmentNotFound) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotent replay lookup failed")
		}
		return false
	}
	if status == 0 {
		status = http.StatusCreated
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, status, a)
	return true
}

//
// Handlers
//

// ListAppointments godoc
// @ID          listAppointments
// @Summary     List appointments
// @Description Returns appointments ordered by date, then by slot time. Optional filters narrow the result; paging applies when page or page_size is given.
// @Tags        Appointments
// @Produce     json
//
// @Param       date       query   string  false "Only this day (YYYY-MM-DD)"      example(2030-01-02)
// @Param       q          query   string  false "Case-insensitive name filter"     example(lee)
// @Param       page       query   int     false "Page number"                      minimum(1)
// @Param       page_size  query   int     false "Items per page"                   minimum(1) maximum(100)
//
// @Success     200  {array}   domain.Appointment
// @Header      200  {integer} X-Total-Count  "Matches before paging (paged requests only)"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid date"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments [get]
func (h *Handlers) ListAppointments(c *gin.Context) {
	q := listQuery(c)
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		failService(c, err)
		return
	}
	if q.PageSize > 0 {
		c.Header("X-Total-Count", strconv.Itoa(total))
	}
	ok(c, http.StatusOK, items)
}

// ListSlots godoc
// @ID          listSlots
// @Summary     List every booked record
// @Description Returns all stored appointments without filtering or ordering. Despite the path, the items are appointments, not generated slot labels; see /appointments/slots/available for those.
// @Tags        Appointments
// @Produce     json
// @Success     200  {array}   domain.Appointment
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments/slots [get]
func (h *Handlers) ListSlots(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// AvailableSlots godoc
// @ID          availableSlots
// @Summary     Free slots of a day
// @Description Returns the generated 15-minute slot labels (9:00 AM to 8:00 PM) not yet booked on the given date, in chronological order.
// @Tags        Appointments
// @Produce     json
// @Param       date  query  string  true  "Day (YYYY-MM-DD)"  example(2030-01-02)
// @Success     200  {object}  handlers.AvailableSlotsResponse
// @Failure     400  {object}  handlers.ErrorResponse "Missing or invalid date"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments/slots/available [get]
func (h *Handlers) AvailableSlots(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date is required")
		return
	}
	free, err := h.svc.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, AvailableSlotsResponse{Date: date, Slots: free})
}

// Summary godoc
// @ID          appointmentSummary
// @Summary     Appointment counts
// @Description Counts appointments booked for today, upcoming days and past days (UTC), plus the total.
// @Tags        Appointments
// @Produce     json
// @Success     200  {object}  domain.Summary
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments/summary [get]
func (h *Handlers) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

// CreateAppointment godoc
// @ID          createAppointment
// @Summary     Book an appointment
// @Description Books a slot. Checks run in order: required fields, unique mobile, free slot; the first failure is returned. With an Idempotency-Key, a retry returns the appointment created by the first attempt.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Makes retries safe"  example(book-7f3a)
// @Param       body             body    handlers.CreateAppointmentRequest  true  "Appointment"
//
// @Success     201  {object}  domain.Appointment
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous attempt"
// @Failure     400  {object}  handlers.ErrorResponse "Missing fields, duplicate mobile or slot taken"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments [post]
func (h *Handlers) CreateAppointment(c *gin.Context) {
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.replay(c, key) {
		return
	}

	// An empty body is an empty object: the booking checks report the
	// missing fields.
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	a, err := h.svc.Create(ctx, req.toDomain())
	if err != nil {
		failService(c, err)
		return
	}

	if hasKey && h.idem != nil {
		if err := h.idem.Save(ctx, key, a.ID, http.StatusCreated, h.idemTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("appointment_id", a.ID).Msg("idempotency save failed")
		}
	}
	ok(c, http.StatusCreated, a)
}

// UpdateAppointment godoc
// @ID          updateAppointment
// @Summary     Update an appointment
// @Description Applies the given fields to an existing appointment. No booking checks are performed on updates; a store with unique indexes still rejects collisions as duplicate_mobile or slot_taken.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       id    path    string  true  "Appointment ID (UUID)"  format(uuid)
// @Param       body  body    domain.AppointmentPatch  true  "Fields to change"
//
// @Success     200  {object}  domain.Appointment
// @Failure     400  {object}  handlers.ErrorResponse "Bad request, or a unique-index collision"
// @Failure     404  {object}  handlers.ErrorResponse "Appointment not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments/{id} [put]
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	var patch domain.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// DeleteAppointment godoc
// @ID          deleteAppointment
// @Summary     Delete an appointment
// @Description Removes an appointment. Deleting an unknown id also succeeds.
// @Tags        Appointments
// @Produce     json
// @Param       id  path  string  true  "Appointment ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /appointments/{id} [delete]
func (h *Handlers) DeleteAppointment(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Appointment deleted successfully"})
}
