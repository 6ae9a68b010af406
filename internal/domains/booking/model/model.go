package model

import (
	"time"

	"roost/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldBookingNumber = "booking_number"
	FieldPropertyID    = "property_id"
	FieldCustomerID    = "customer_id"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldAdults        = "adults"
	FieldChildren      = "children"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldBaseAmount    = "base_amount"
	FieldCleaningFee   = "cleaning_fee"
	FieldServiceFee    = "service_fee"
	FieldTaxes         = "taxes"
	FieldDiscounts     = "discounts"
	FieldTotalAmount   = "total_amount"
	FieldPaidAmount    = "paid_amount"
	FieldRefundAmount  = "refund_amount"

	FieldApprovedBy         = "approved_by"
	FieldApprovedAt         = "approved_at"
	FieldCancellationReason = "cancellation_reason"
	FieldCancelledAt        = "cancelled_at"
)

// Booking is the central mutable record of the marketplace. Cancellation is
// a status transition, never a physical delete. Monetary amounts are whole
// currency units.
type Booking struct {
	ID                 string        `db:"id"`
	BookingNumber      string        `db:"booking_number"`
	PropertyID         string        `db:"property_id"`
	CustomerID         string        `db:"customer_id"`
	CheckIn            time.Time     `db:"check_in"`
	CheckOut           time.Time     `db:"check_out"`
	Adults             int           `db:"adults"`
	Children           int           `db:"children"`
	Status             Status        `db:"status"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	BaseAmount         int64         `db:"base_amount"`
	CleaningFee        int64         `db:"cleaning_fee"`
	ServiceFee         int64         `db:"service_fee"`
	Taxes              int64         `db:"taxes"`
	Discounts          int64         `db:"discounts"`
	TotalAmount        int64         `db:"total_amount"`
	PaidAmount         int64         `db:"paid_amount"`
	RefundAmount       *int64        `db:"refund_amount"`
	ApprovedBy         *string       `db:"approved_by"`
	ApprovedAt         *time.Time    `db:"approved_at"`
	CancellationReason *string       `db:"cancellation_reason"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	model.Metadata
}

func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// ApplyBreakdown replaces the stored rolled-up amounts with a freshly
// computed breakdown. The per-night trace is never persisted.
func (b *Booking) ApplyBreakdown(breakdown PriceBreakdown) {
	b.BaseAmount = breakdown.BaseAmount
	b.CleaningFee = breakdown.CleaningFee
	b.ServiceFee = breakdown.ServiceFee
	b.Taxes = breakdown.Taxes
	b.Discounts = breakdown.Discounts
	b.TotalAmount = breakdown.TotalAmount
}
