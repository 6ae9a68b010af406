package model

import (
	"time"

	"roost/shared/model"
)

const (
	TableName  = "availability_overrides"
	EntityName = "availability_override"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldDate       = "date"
	FieldAvailable  = "available"
	FieldPrice      = "price"
	FieldMinStay    = "min_stay"
)

// Override is a host-set per-date exception to a property's default
// bookability and pricing. At most one row exists per (property, date).
type Override struct {
	ID         string    `db:"id"`
	PropertyID string    `db:"property_id"`
	Date       time.Time `db:"date"`
	Available  bool      `db:"available"`
	Price      *int64    `db:"price"`
	MinStay    *int      `db:"min_stay"`
	model.Metadata
}

// Day normalizes the override date to midnight UTC so map lookups by
// calendar date are stable regardless of how the driver scanned it.
func (o Override) Day() time.Time {
	return time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), 0, 0, 0, 0, time.UTC)
}
