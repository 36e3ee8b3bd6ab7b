package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/willowbend/lodge-admin/internal/model"
)

// ErrSettingsNotFound is returned when the settings row is missing.
// The row is created by the schema migration, so hitting this error
// indicates a broken installation rather than a user mistake.
var ErrSettingsNotFound = errors.New("settings not found")

// SettingRepo reads and updates the single-row `settings` table.
type SettingRepo struct {
	db *sql.DB
}

func NewSettingRepo(db *sql.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

// Get returns the settings row (id=1).
func (r *SettingRepo) Get(ctx context.Context) (*model.Setting, error) {
	const q = `SELECT id, min_booking_length, max_booking_length, max_guests_per_booking,
	                  breakfast_price, updated_at
	           FROM settings WHERE id = 1`
	s := new(model.Setting)
	err := r.db.QueryRowContext(ctx, q).Scan(&s.ID, &s.MinBookingLength, &s.MaxBookingLength,
		&s.MaxGuestsPerBooking, &s.BreakfastPrice, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update applies a partial update to the settings row and returns the
// resulting row.  Nil fields in the patch keep their current value.
func (r *SettingRepo) Update(ctx context.Context, p model.SettingPatch) (*model.Setting, error) {
	const q = `UPDATE settings
	           SET min_booking_length     = COALESCE(?, min_booking_length),
	               max_booking_length     = COALESCE(?, max_booking_length),
	               max_guests_per_booking = COALESCE(?, max_guests_per_booking),
	               breakfast_price        = COALESCE(?, breakfast_price),
	               updated_at             = CURRENT_TIMESTAMP
	           WHERE id = 1`
	if _, err := r.db.ExecContext(ctx, q,
		p.MinBookingLength, p.MaxBookingLength, p.MaxGuestsPerBooking, p.BreakfastPrice); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
