package model

import "time"

// Cabin represents a bookable unit managed through the admin API.
// It corresponds to a row in the `cabins` table.  The Image field
// holds the public URL of the cabin photo in object storage, or an
// empty string when no photo has been attached yet.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – short display name (e.g. "001", "Birch").
//  MaxCapacity  – maximum number of guests.
//  RegularPrice – nightly price in cents.
//  Discount     – discount in cents, must not exceed RegularPrice.
//  Description  – free-form description shown to guests.
//  Image        – public URL of the stored photo ("" when absent).
//  CreatedAt    – timestamp when the row was created.
//  UpdatedAt    – timestamp of last update.
type Cabin struct {
	ID           uint64    `json:"id"`            // cabins.id
	Name         string    `json:"name"`          // cabins.name
	MaxCapacity  uint32    `json:"max_capacity"`  // cabins.max_capacity
	RegularPrice uint32    `json:"regular_price"` // cabins.regular_price
	Discount     uint32    `json:"discount"`      // cabins.discount
	Description  string    `json:"description"`   // cabins.description
	Image        string    `json:"image"`         // cabins.image
	CreatedAt    time.Time `json:"created_at"`    // cabins.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // cabins.updated_at
}
