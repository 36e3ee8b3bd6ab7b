package model

import "time"

// Setting holds the business-wide configuration edited from the
// dashboard.  The `settings` table contains exactly one row (id=1);
// it is only ever updated, never inserted or deleted at runtime.
//
// Fields:
//  ID                  – always 1.
//  MinBookingLength    – minimum nights per booking.
//  MaxBookingLength    – maximum nights per booking.
//  MaxGuestsPerBooking – guest cap for a single booking.
//  BreakfastPrice      – per-guest breakfast price in cents.
//  UpdatedAt           – timestamp of last update.
type Setting struct {
	ID                  uint64    `json:"id"`
	MinBookingLength    uint32    `json:"min_booking_length"`
	MaxBookingLength    uint32    `json:"max_booking_length"`
	MaxGuestsPerBooking uint32    `json:"max_guests_per_booking"`
	BreakfastPrice      uint32    `json:"breakfast_price"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SettingPatch carries a partial settings update.  Nil fields are
// left unchanged by the repository.
type SettingPatch struct {
	MinBookingLength    *uint32 `json:"min_booking_length"`
	MaxBookingLength    *uint32 `json:"max_booking_length"`
	MaxGuestsPerBooking *uint32 `json:"max_guests_per_booking"`
	BreakfastPrice      *uint32 `json:"breakfast_price"`
}
