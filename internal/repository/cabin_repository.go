// Package repository contains data access logic separated from HTTP
// handlers and services.  This file defines the Cabin repository with
// CRUD operations over the `cabins` table.  A Cabin is a bookable unit;
// its Image column stores the public URL of a photo in object storage.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values

	"github.com/willowbend/lodge-admin/internal/model"
)

// ErrCabinNotFound is returned when a cabin cannot be found in the DB.
var ErrCabinNotFound = errors.New("cabin not found")

// CabinRepo encapsulates all database queries related to cabins.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CabinRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCabinRepo constructs a CabinRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewCabinRepo(db *sql.DB) *CabinRepo {
	return &CabinRepo{db: db}
}

// Insert persists a new cabin.  On success the cabin's ID field is
// populated with the auto-generated value and a follow-up SELECT fills
// the timestamp columns so that callers receive a fully populated row.
func (r *CabinRepo) Insert(ctx context.Context, c *model.Cabin) error {
	const qInsert = `INSERT INTO cabins (name, max_capacity, regular_price, discount, description, image)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		c.Name, c.MaxCapacity, c.RegularPrice, c.Discount, c.Description, c.Image)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.refetch(ctx, c)
}

// Update overwrites the business fields of the cabin identified by
// c.ID.  The image column is only replaced when c.Image is non-empty;
// an empty value keeps whatever photo the row already references
// (the edit-without-new-photo case).  Returns ErrCabinNotFound when
// the row does not exist.
func (r *CabinRepo) Update(ctx context.Context, c *model.Cabin) error {
	const q = `UPDATE cabins
	           SET name = ?, max_capacity = ?, regular_price = ?, discount = ?,
	               description = ?, image = COALESCE(NULLIF(?, ''), image),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		c.Name, c.MaxCapacity, c.RegularPrice, c.Discount, c.Description, c.Image, c.ID); err != nil {
		return err
	}
	// Refetch rather than checking RowsAffected: MySQL reports zero
	// affected rows for a no-op update on an existing row.
	return r.refetch(ctx, c)
}

// DeleteByID removes a cabin row.  Deleting an id that does not exist
// is not an error, which makes the call safe to use as a compensating
// action for a row inserted in the same logical operation.
func (r *CabinRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cabins WHERE id = ?`, id)
	return err
}

// GetByID fetches a cabin by its ID.  It returns ErrCabinNotFound if
// no row is found.
func (r *CabinRepo) GetByID(ctx context.Context, id uint64) (*model.Cabin, error) {
	c := &model.Cabin{ID: id}
	if err := r.refetch(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListAll returns all cabins ordered by name.
func (r *CabinRepo) ListAll(ctx context.Context) ([]*model.Cabin, error) {
	const q = `SELECT id, name, max_capacity, regular_price, discount, description, image,
	                  created_at, updated_at
	           FROM cabins ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Cabin
	for rows.Next() {
		c := new(model.Cabin)
		if err := rows.Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPrice, &c.Discount,
			&c.Description, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// refetch loads the row for c.ID into c, mapping sql.ErrNoRows to
// ErrCabinNotFound.
func (r *CabinRepo) refetch(ctx context.Context, c *model.Cabin) error {
	const q = `SELECT id, name, max_capacity, regular_price, discount, description, image,
	                  created_at, updated_at
	           FROM cabins WHERE id = ?`
	err := r.db.QueryRowContext(ctx, q, c.ID).Scan(&c.ID, &c.Name, &c.MaxCapacity,
		&c.RegularPrice, &c.Discount, &c.Description, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCabinNotFound
	}
	return err
}
