package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// GormStore adapts the repository free functions to the record store
// contract used by services.AppointmentService.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore returns a GormStore bound to db.
func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

// List proxies ListAppointments.
func (s *GormStore) List(ctx context.Context) ([]domain.Appointment, error) {
	return ListAppointments(ctx, s.DB)
}

// ListAll proxies ListAllAppointments.
func (s *GormStore) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return ListAllAppointments(ctx, s.DB)
}

// ListByDate proxies ListAppointmentsByDate.
func (s *GormStore) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	return ListAppointmentsByDate(ctx, s.DB, date)
}

// Get proxies GetAppointment.
func (s *GormStore) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return GetAppointment(ctx, s.DB, id)
}

// FindByMobile proxies FindAppointmentByMobile.
func (s *GormStore) FindByMobile(ctx context.Context, mobile string) (*domain.Appointment, error) {
	return FindAppointmentByMobile(ctx, s.DB, mobile)
}

// FindBySlot proxies FindAppointmentBySlot.
func (s *GormStore) FindBySlot(ctx context.Context, date, time string) (*domain.Appointment, error) {
	return FindAppointmentBySlot(ctx, s.DB, date, time)
}

// Insert proxies CreateAppointment.
func (s *GormStore) Insert(ctx context.Context, a *domain.Appointment) error {
	return CreateAppointment(ctx, s.DB, a)
}

// Update proxies UpdateAppointment.
func (s *GormStore) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	return UpdateAppointment(ctx, s.DB, id, patch)
}

// Delete proxies DeleteAppointment.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	return DeleteAppointment(ctx, s.DB, id)
}

// Summary proxies AppointmentSummary.
func (s *GormStore) Summary(ctx context.Context, today string) (domain.Summary, error) {
	return AppointmentSummary(ctx, s.DB, today)
}

// Ping checks that the underlying connection pool is reachable.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
