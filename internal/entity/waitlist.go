package entity

import (
	"database/sql"
	"time"
)

// WaitlistEntry represents a consumer waitlist signup row.
type WaitlistEntry struct {
	Id           int            `db:"id"`
	Email        string         `db:"email"`
	Name         sql.NullString `db:"name"`
	VehicleYear  sql.NullInt32  `db:"vehicle_year"`
	VehicleModel sql.NullString `db:"vehicle_model"`
	ReferralCode string         `db:"referral_code"`
	ReferredBy   sql.NullString `db:"referred_by"`
	Language     string         `db:"language"`
	CreatedAt    time.Time      `db:"created_at"`
}

// WaitlistEntryInsert carries the fields accepted at signup time.
// ReferralCode is the code assigned to the new entry, ReferredBy the code of
// the referrer when the visitor arrived through a referral link.
type WaitlistEntryInsert struct {
	Email        string
	Name         string
	VehicleYear  int
	VehicleModel string
	ReferralCode string
	ReferredBy   string
	Language     string
}

// ReferralClick is a best-effort attribution record for a referral link visit.
type ReferralClick struct {
	Id           int            `db:"id"`
	ReferralCode string         `db:"referral_code"`
	Email        sql.NullString `db:"email"`
	CreatedAt    time.Time      `db:"created_at"`
}
