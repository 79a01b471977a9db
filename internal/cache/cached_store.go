package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/services"
)

const (
	keyList   = "appointments:list"
	keyAll    = "appointments:all"
	keyByDate = "appointments:date:"
)

// CachedStore decorates an AppointmentStore with a read-through cache of the
// three listing queries. Point lookups always hit the store so the booking
// checks never see stale data. Every successful mutation drops the cached
// listings it could have changed.
//
// Cache failures are logged and the store is used directly.
type CachedStore struct {
	services.AppointmentStore
	Cache Cache
	TTL   time.Duration
}

// NewCachedStore wraps store. A non-positive ttl defaults to 30 seconds.
func NewCachedStore(store services.AppointmentStore, c Cache, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{AppointmentStore: store, Cache: c, TTL: ttl}
}

// List implements services.AppointmentStore.
func (s *CachedStore) List(ctx context.Context) ([]domain.Appointment, error) {
	return s.cached(ctx, keyList, s.AppointmentStore.List)
}

// ListAll implements services.AppointmentStore.
func (s *CachedStore) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.cached(ctx, keyAll, s.AppointmentStore.ListAll)
}

// ListByDate implements services.AppointmentStore.
func (s *CachedStore) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	return s.cached(ctx, keyByDate+date, func(ctx context.Context) ([]domain.Appointment, error) {
		return s.AppointmentStore.ListByDate(ctx, date)
	})
}

// Insert implements services.AppointmentStore.
func (s *CachedStore) Insert(ctx context.Context, a *domain.Appointment) error {
	if err := s.AppointmentStore.Insert(ctx, a); err != nil {
		return err
	}
	s.invalidate(ctx, a.Date)
	return nil
}

// Update implements services.AppointmentStore. Both the old and the new date
// listings are dropped.
func (s *CachedStore) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	var oldDate string
	if prev, err := s.AppointmentStore.Get(ctx, id); err == nil {
		oldDate = prev.Date
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	a, err := s.AppointmentStore.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, oldDate, a.Date)
	return a, nil
}

// Delete implements services.AppointmentStore.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	var date string
	if prev, err := s.AppointmentStore.Get(ctx, id); err == nil {
		date = prev.Date
	}
	if err := s.AppointmentStore.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, date)
	return nil
}

func (s *CachedStore) cached(ctx context.Context, key string, load func(context.Context) ([]domain.Appointment, error)) ([]domain.Appointment, error) {
	raw, err := s.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var out []domain.Appointment
		if jerr := json.Unmarshal([]byte(raw), &out); jerr == nil {
			return out, nil
		}
		log.Ctx(ctx).Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, ErrMiss):
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if b, jerr := json.Marshal(items); jerr == nil {
		if serr := s.Cache.Set(ctx, key, string(b), s.TTL); serr != nil {
			log.Ctx(ctx).Warn().Err(serr).Str("key", key).Msg("cache write failed")
		}
	}
	return items, nil
}

func (s *CachedStore) invalidate(ctx context.Context, dates ...string) {
	keys := []string{keyList, keyAll}
	for _, d := range dates {
		if d != "" {
			keys = append(keys, keyByDate+d)
		}
	}
	if err := s.Cache.Del(ctx, keys...); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
