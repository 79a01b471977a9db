// Package domain defines the persistence model for appointments. The same
// struct is mapped by GORM (SQLite) and by the MongoDB driver (bson tags), so
// both store backends share one shape and one JSON representation.
package domain

import (
	"strings"
	"time"
)

// Appointment is a single booking of a time slot by a client.
//
// Fields:
//   - ID: UUID assigned by the store on creation; immutable.
//   - FirstName / LastName: client name, required on creation.
//   - Mobile: 10-digit phone number; unique across the collection.
//   - Reason: optional free text.
//   - Date: calendar day, ISO "YYYY-MM-DD".
//   - Time: a slot label such as "9:15 AM"; (Date, Time) is unique.
//   - CreatedAt / UpdatedAt: timestamps managed by the store.
//
// Uniqueness of Mobile and of (Date, Time) is checked before insert. The
// indexes below are plain lookups; unique variants are only created when the
// store runs in strict mode.
type Appointment struct {
	ID        string    `json:"id"               gorm:"type:char(36);primaryKey"                                  bson:"id"`
	FirstName string    `json:"firstName"        gorm:"type:varchar(64);not null"                                 bson:"firstName"`
	LastName  string    `json:"lastName"         gorm:"type:varchar(64);not null"                                 bson:"lastName"`
	Mobile    string    `json:"mobile"           gorm:"type:varchar(20);not null;index:idx_appointments_mobile"   bson:"mobile"`
	Reason    string    `json:"reason,omitempty" gorm:"type:varchar(500)"                                         bson:"reason,omitempty"`
	Date      string    `json:"date"             gorm:"type:char(10);not null;index:idx_appointments_slot,priority:1" bson:"date"`
	Time      string    `json:"time"             gorm:"type:varchar(16);not null;index:idx_appointments_slot,priority:2" bson:"time"`
	CreatedAt time.Time `json:"createdAt"                                                                         bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"                                                                         bson:"updatedAt"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// MissingRequired reports whether any of the five required fields is empty.
// Only "" counts; a whitespace-only value is present.
func (a Appointment) MissingRequired() bool {
	for _, v := range []string{a.FirstName, a.LastName, a.Mobile, a.Date, a.Time} {
		if v == "" {
			return true
		}
	}
	return false
}

// FullName joins first and last name with a single space.
func (a Appointment) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// AppointmentPatch carries a partial update. Nil fields are left unchanged;
// a non-nil pointer to "" clears the field. The identifier is never part of a
// patch.
type AppointmentPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Mobile    *string `json:"mobile,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
}

// Apply copies every set field of p onto a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.Mobile != nil {
		a.Mobile = *p.Mobile
	}
	if p.Reason != nil {
		a.Reason = *p.Reason
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
}

// Fields returns the set fields keyed by their wire (and bson) names.
func (p AppointmentPatch) Fields() map[string]any {
	out := make(map[string]any, 6)
	if p.FirstName != nil {
		out["firstName"] = *p.FirstName
	}
	if p.LastName != nil {
		out["lastName"] = *p.LastName
	}
	if p.Mobile != nil {
		out["mobile"] = *p.Mobile
	}
	if p.Reason != nil {
		out["reason"] = *p.Reason
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.Time != nil {
		out["time"] = *p.Time
	}
	return out
}

// Empty reports whether the patch sets no field at all.
func (p AppointmentPatch) Empty() bool { return len(p.Fields()) == 0 }

// Summary is the dashboard breakdown of appointments relative to a day.
type Summary struct {
	Today    int64 `json:"today"`
	Upcoming int64 `json:"upcoming"`
	Past     int64 `json:"past"`
	Total    int64 `json:"total"`
}
