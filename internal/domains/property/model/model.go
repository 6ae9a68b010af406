package model

import "roost/shared/model"

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID                = "id"
	FieldHostID            = "host_id"
	FieldName              = "name"
	FieldLocation          = "location"
	FieldBaseRate          = "base_rate"
	FieldWeekendPremiumPct = "weekend_premium_pct"
	FieldCleaningFee       = "cleaning_fee"
	FieldSecurityDeposit   = "security_deposit"
	FieldServiceFeeRate    = "service_fee_rate"
	FieldMinStay           = "min_stay"
	FieldMaxStay           = "max_stay"
	FieldMaxGuests         = "max_guests"
	FieldActive            = "active"
)

// DefaultServiceFeeRate applies when a property has no explicit rate configured.
const DefaultServiceFeeRate = 0.05

// Property is the rate configuration the booking core consumes. Monetary
// amounts are whole currency units.
type Property struct {
	ID                string  `db:"id"`
	HostID            string  `db:"host_id"`
	Name              string  `db:"name"`
	Location          string  `db:"location"`
	BaseRate          int64   `db:"base_rate"`
	WeekendPremiumPct float64 `db:"weekend_premium_pct"`
	CleaningFee       int64   `db:"cleaning_fee"`
	SecurityDeposit   int64   `db:"security_deposit"`
	ServiceFeeRate    float64 `db:"service_fee_rate"`
	MinStay           int     `db:"min_stay"`
	MaxStay           int     `db:"max_stay"`
	MaxGuests         int     `db:"max_guests"`
	Active            bool    `db:"active"`
	model.Metadata
}

// EffectiveServiceFeeRate falls back to the marketplace default when the host
// never configured a rate.
func (p Property) EffectiveServiceFeeRate() float64 {
	if p.ServiceFeeRate <= 0 {
		return DefaultServiceFeeRate
	}

	return p.ServiceFeeRate
}
