// Package repo implements the data persistence layer for appointments. This
// file provides the GORM repository functions for the Appointment model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: persistence and query composition only, no booking rules.
//
// Error semantics:
//   - Point lookups used for existence checks (FindAppointmentByMobile,
//     FindAppointmentBySlot) return (nil, nil) when nothing matches.
//   - GetAppointment and UpdateAppointment return ErrNotFound for unknown ids.
//   - CreateAppointment returns ErrMobileTaken / ErrSlotTaken when a unique
//     index rejects the row (strict mode only).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use either sentinel.
var ErrNotFound = gorm.ErrRecordNotFound

// Unique-index violations, classified by index.
var (
	ErrMobileTaken = errors.New("mobile number already stored")
	ErrSlotTaken   = errors.New("date and time already stored")
)

// ListAppointments returns every appointment ordered by date, then time label.
// The time ordering is lexical; callers needing chronological order re-sort.
func ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).
		Order("date asc").
		Order("time asc").
		Find(&out).Error
	return out, err
}

// ListAllAppointments returns every appointment in storage order.
func ListAllAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).Find(&out).Error
	return out, err
}

// ListAppointmentsByDate returns the appointments booked on date.
func ListAppointmentsByDate(ctx context.Context, db *gorm.DB, date string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).
		Where("date = ?", date).
		Order("time asc").
		Find(&out).Error
	return out, err
}

// GetAppointment fetches a single appointment by id, or ErrNotFound.
func GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAppointmentByMobile returns the appointment holding mobile, if any.
func FindAppointmentByMobile(ctx context.Context, db *gorm.DB, mobile string) (*domain.Appointment, error) {
	return findOne(ctx, db, "mobile = ?", mobile)
}

// FindAppointmentBySlot returns the appointment booked at (date, time), if any.
func FindAppointmentBySlot(ctx context.Context, db *gorm.DB, date, time string) (*domain.Appointment, error) {
	return findOne(ctx, db, "date = ? AND time = ?", date, time)
}

func findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Appointment, error) {
	var out []domain.Appointment
	if err := db.WithContext(ctx).Where(query, args...).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// CreateAppointment inserts a with a fresh UUID and UTC timestamps. The caller's
// struct is updated in place with the assigned values.
func CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		a.ID = ""
		return classifyUnique(err)
	}
	return nil
}

// UpdateAppointment applies patch to the appointment identified by id and
// returns the stored result. No booking rules are checked here.
func UpdateAppointment(ctx context.Context, db *gorm.DB, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	var out *domain.Appointment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Appointment
		if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
			return err
		}
		patch.Apply(&a)
		a.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&a).Error; err != nil {
			return classifyUnique(err)
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAppointment removes the appointment with id. Deleting an unknown id
// is not an error.
func DeleteAppointment(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Appointment{}).Error
}

// AppointmentSummary counts appointments before, on and after today
// ("YYYY-MM-DD"). ISO dates compare correctly as strings.
func AppointmentSummary(ctx context.Context, db *gorm.DB, today string) (domain.Summary, error) {
	var s domain.Summary
	q := func() *gorm.DB { return db.WithContext(ctx).Model(&domain.Appointment{}) }

	if err := q().Count(&s.Total).Error; err != nil {
		return domain.Summary{}, err
	}
	if s.Total == 0 {
		return s, nil
	}
	if err := q().Where("date = ?", today).Count(&s.Today).Error; err != nil {
		return domain.Summary{}, err
	}
	if err := q().Where("date < ?", today).Count(&s.Past).Error; err != nil {
		return domain.Summary{}, err
	}
	if err := q().Where("date > ?", today).Count(&s.Upcoming).Error; err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

// classifyUnique maps unique-constraint failures on the appointments table to
// ErrMobileTaken or ErrSlotTaken. Anything else is returned unchanged.
//
// glebarez/sqlite reports "UNIQUE constraint failed: appointments.mobile" or
// "... appointments.date, appointments.time"; Postgres-style drivers name the
// index instead.
func classifyUnique(err error) error {
	if err == nil {
		return nil
	}
	low := strings.ToLower(err.Error())
	if !errors.Is(err, gorm.ErrDuplicatedKey) &&
		!strings.Contains(low, "unique constraint") &&
		!strings.Contains(low, "duplicate key") {
		return err
	}
	switch {
	case strings.Contains(low, uxMobile), strings.Contains(low, "appointments.mobile"):
		return ErrMobileTaken
	case strings.Contains(low, uxSlot), strings.Contains(low, "appointments.date"):
		return ErrSlotTaken
	}
	return err
}
