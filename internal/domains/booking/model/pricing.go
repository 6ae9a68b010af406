package model

import "time"

// NightRate is one line of the per-date pricing trace.
type NightRate struct {
	Date      time.Time `json:"date"`
	Rate      int64     `json:"rate"`
	IsWeekend bool      `json:"is_weekend"`
}

// PriceBreakdown is produced fresh on every quote or recompute. Only the
// rolled-up amounts survive onto the persisted booking.
type PriceBreakdown struct {
	Nights      []NightRate `json:"nights"`
	BaseAmount  int64       `json:"base_amount"`
	CleaningFee int64       `json:"cleaning_fee"`
	ServiceFee  int64       `json:"service_fee"`
	Taxes       int64       `json:"taxes"`
	Discounts   int64       `json:"discounts"`
	TotalAmount int64       `json:"total_amount"`
}
