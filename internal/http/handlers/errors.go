// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them, while the
// message carries the human-readable reason (for booking rejections, the exact
// reason string such as "Slot already booked").
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "slot_taken",
//	  "message": "Slot already booked"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Booking rejections:
	ErrCodeMissingFields   = "missing_fields"
	ErrCodeDuplicateMobile = "duplicate_mobile"
	ErrCodeSlotTaken       = "slot_taken"
)
