package domain

import "time"

// Idempotency records the outcome of a POST /appointments request that carried
// an Idempotency-Key header. A retry with the same key replays the stored
// appointment instead of running the booking checks again (which would
// otherwise reject the retry as a duplicate mobile number).
type Idempotency struct {
	ID            string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Key           string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idempotency_key"`
	AppointmentID string    `gorm:"type:TEXT NOT NULL"`
	Status        int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt     time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
