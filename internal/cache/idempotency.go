package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const keyIdempotency = "idempotency:"

type idemRecord struct {
	AppointmentID string `json:"appointmentId"`
	Status        int    `json:"status"`
}

// RedisIdempotency stores POST /appointments outcomes keyed by the client's
// Idempotency-Key. Expiry is left to Redis.
type RedisIdempotency struct {
	Cache Cache
}

// Lookup reports the appointment recorded for key, if any.
func (r RedisIdempotency) Lookup(ctx context.Context, key string, _ time.Time) (string, int, bool, error) {
	raw, err := r.Cache.Get(ctx, keyIdempotency+key)
	if errors.Is(err, ErrMiss) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	var rec idemRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", 0, false, err
	}
	return rec.AppointmentID, rec.Status, true, nil
}

// Save records the outcome for key unless one is already stored.
func (r RedisIdempotency) Save(ctx context.Context, key, appointmentID string, status int, ttl time.Duration) error {
	b, err := json.Marshal(idemRecord{AppointmentID: appointmentID, Status: status})
	if err != nil {
		return err
	}
	_, err = r.Cache.SetNX(ctx, keyIdempotency+key, string(b), ttl)
	return err
}
