package services

import (
	"context"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// BookingLookup is the read side of the record store that the booking checks
// need. Both methods return (nil, nil) when nothing matches.
type BookingLookup interface {
	FindByMobile(ctx context.Context, mobile string) (*domain.Appointment, error)
	FindBySlot(ctx context.Context, date, time string) (*domain.Appointment, error)
}

// ValidateForCreation decides whether candidate may be inserted. Checks run in
// a fixed order and the first failure wins:
//
//  1. a blank required field yields ErrMissingFields without touching the store
//  2. a stored appointment with the same mobile yields ErrDuplicateMobile
//  3. a stored appointment at the same (date, time) yields ErrSlotTaken
//
// Lookup failures are returned as-is. The result is only advisory: nothing
// prevents a concurrent request from taking the slot between this call and
// the insert.
func ValidateForCreation(ctx context.Context, candidate domain.Appointment, lookup BookingLookup) error {
	if candidate.MissingRequired() {
		return ErrMissingFields
	}

	existing, err := lookup.FindByMobile(ctx, candidate.Mobile)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateMobile
	}

	existing, err = lookup.FindBySlot(ctx, candidate.Date, candidate.Time)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSlotTaken
	}
	return nil
}
