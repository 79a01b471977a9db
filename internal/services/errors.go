// Package services defines the business logic for appointment booking.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes and response bodies is performed at the
// handler layer. The Error() strings of the three booking rejections are the
// exact messages clients display, so they must not change.
package services

import "errors"

// Booking rejections, in the order the validator checks them.
var (
	// ErrMissingFields is returned when any of firstName, lastName, mobile,
	// date or time is blank.
	ErrMissingFields = errors.New("Missing required fields")

	// ErrDuplicateMobile is returned when another appointment already holds
	// the candidate's mobile number, on any date.
	ErrDuplicateMobile = errors.New("Mobile number already exists")

	// ErrSlotTaken is returned when the (date, time) pair is already booked.
	ErrSlotTaken = errors.New("Slot already booked")
)

// Other service errors.
var (
	// ErrAppointmentNotFound indicates that no appointment has the given id.
	ErrAppointmentNotFound = errors.New("Appointment not found")

	// ErrInvalidDate is returned when a date filter is not "YYYY-MM-DD".
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)
