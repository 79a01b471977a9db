package services

import "github.com/prometheus/client_golang/prometheus"

// Rejection reason labels.
const (
	reasonMissingFields   = "missing_fields"
	reasonDuplicateMobile = "duplicate_mobile"
	reasonSlotTaken       = "slot_taken"
)

var (
	appointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Appointments accepted and stored.",
		},
	)
	appointmentRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_rejections_total",
			Help: "Booking requests rejected by validation, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(appointmentsCreated, appointmentRejections)
}

func recordRejection(err error) {
	switch err {
	case ErrMissingFields:
		appointmentRejections.WithLabelValues(reasonMissingFields).Inc()
	case ErrDuplicateMobile:
		appointmentRejections.WithLabelValues(reasonDuplicateMobile).Inc()
	case ErrSlotTaken:
		appointmentRejections.WithLabelValues(reasonSlotTaken).Inc()
	}
}
