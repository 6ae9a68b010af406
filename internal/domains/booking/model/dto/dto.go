package dto

import (
	"time"

	"roost/internal/domains/booking/model"
	"roost/shared"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/failure"
	gModel "roost/shared/model"
	"roost/shared/timezone"

	"github.com/google/uuid"
)

type QuoteBookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in"    validate:"required,dateonly"`
	CheckOut   string `json:"check_out"   validate:"required,dateonly"`
	Adults     int    `json:"adults"      validate:"required,gte=1"`
	Children   int    `json:"children"    validate:"omitempty,gte=0"`
}

// StayRange parses the dates and enforces check-out strictly after check-in.
func (r *QuoteBookingRequest) StayRange() (time.Time, time.Time, error) {
	return ParseStayRange(r.CheckIn, r.CheckOut)
}

type CreateBookingRequest struct {
	QuoteBookingRequest
}

// ToModel builds the initial booking record. Amounts are zero until the
// pricing engine fills them in.
func (r *CreateBookingRequest) ToModel(customerID, bookingNumber string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		BookingNumber: bookingNumber,
		PropertyID:    r.PropertyID,
		CustomerID:    customerID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        r.Adults,
		Children:      r.Children,
		Status:        model.StatusPendingApproval,
		PaymentStatus: model.PaymentStatusUnpaid,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

// UpdateBookingRequest changes dates or guest counts. Any change triggers a
// pricing recompute.
type UpdateBookingRequest struct {
	CheckIn  string `json:"check_in"  validate:"omitempty,dateonly"`
	CheckOut string `json:"check_out" validate:"omitempty,dateonly"`
	Adults   int    `json:"adults"    validate:"omitempty,gte=1"`
	Children *int   `json:"children"  validate:"omitempty,gte=0"`
}

func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.CheckIn == constant.Empty && r.CheckOut == constant.Empty && r.Adults == 0 && r.Children == nil
}

type CancelBookingRequest struct {
	Reason       string `json:"reason"        validate:"required,max=500"`
	RefundAmount *int64 `json:"refund_amount" validate:"omitempty,gte=0"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type NightRateResponse struct {
	Date      string `json:"date"`
	Rate      int64  `json:"rate"`
	IsWeekend bool   `json:"is_weekend"`
}

type QuoteResponse struct {
	PropertyID  string              `json:"property_id"`
	CheckIn     string              `json:"check_in"`
	CheckOut    string              `json:"check_out"`
	Nights      []NightRateResponse `json:"nights"`
	BaseAmount  int64               `json:"base_amount"`
	CleaningFee int64               `json:"cleaning_fee"`
	ServiceFee  int64               `json:"service_fee"`
	Taxes       int64               `json:"taxes"`
	Discounts   int64               `json:"discounts"`
	TotalAmount int64               `json:"total_amount"`
}

func (r *QuoteResponse) FromBreakdown(propertyID string, checkIn, checkOut time.Time, breakdown model.PriceBreakdown) {
	r.PropertyID = propertyID
	r.CheckIn = checkIn.Format(constant.DateOnlyFormat)
	r.CheckOut = checkOut.Format(constant.DateOnlyFormat)
	r.BaseAmount = breakdown.BaseAmount
	r.CleaningFee = breakdown.CleaningFee
	r.ServiceFee = breakdown.ServiceFee
	r.Taxes = breakdown.Taxes
	r.Discounts = breakdown.Discounts
	r.TotalAmount = breakdown.TotalAmount

	r.Nights = make([]NightRateResponse, len(breakdown.Nights))
	for i, night := range breakdown.Nights {
		r.Nights[i] = NightRateResponse{
			Date:      night.Date.Format(constant.DateOnlyFormat),
			Rate:      night.Rate,
			IsWeekend: night.IsWeekend,
		}
	}
}

type BookingResponse struct {
	ID                 string  `json:"id"`
	BookingNumber      string  `json:"booking_number"`
	PropertyID         string  `json:"property_id"`
	CustomerID         string  `json:"customer_id"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	Nights             int     `json:"nights"`
	Adults             int     `json:"adults"`
	Children           int     `json:"children"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"payment_status"`
	BaseAmount         int64   `json:"base_amount"`
	CleaningFee        int64   `json:"cleaning_fee"`
	ServiceFee         int64   `json:"service_fee"`
	Taxes              int64   `json:"taxes"`
	Discounts          int64   `json:"discounts"`
	TotalAmount        int64   `json:"total_amount"`
	PaidAmount         int64   `json:"paid_amount"`
	RefundAmount       *int64  `json:"refund_amount,omitempty"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.BookingNumber = mod.BookingNumber
	r.PropertyID = mod.PropertyID
	r.CustomerID = mod.CustomerID
	r.CheckIn = mod.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = mod.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = mod.Nights()
	r.Adults = mod.Adults
	r.Children = mod.Children
	r.Status = string(mod.Status)
	r.PaymentStatus = string(mod.PaymentStatus)
	r.BaseAmount = mod.BaseAmount
	r.CleaningFee = mod.CleaningFee
	r.ServiceFee = mod.ServiceFee
	r.Taxes = mod.Taxes
	r.Discounts = mod.Discounts
	r.TotalAmount = mod.TotalAmount
	r.PaidAmount = mod.PaidAmount
	r.RefundAmount = mod.RefundAmount
	r.ApprovedBy = mod.ApprovedBy
	r.CancellationReason = mod.CancellationReason

	if mod.ApprovedAt != nil {
		approvedAt := mod.ApprovedAt.Format(constant.DateFormat)
		r.ApprovedAt = &approvedAt
	}

	if mod.CancelledAt != nil {
		cancelledAt := mod.CancelledAt.Format(constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ParseStayRange parses a check-in/check-out pair and enforces the ordering
// rule shared by quotes, creates, and updates.
func ParseStayRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(constant.DateOnlyFormat, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("check_in must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	out, err := time.Parse(constant.DateOnlyFormat, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("check_out must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if !out.After(in) {
		return time.Time{}, time.Time{}, model.ErrInvalidRange() // nolint:wrapcheck
	}

	return in, out, nil
}
