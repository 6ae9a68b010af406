package dto_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"roost/internal/domains/booking/model"
	"roost/internal/domains/booking/model/dto"
	"roost/shared/failure"
)

func TestParseStayRange(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
		wantCode int
	}{
		{
			name:     "valid range",
			checkIn:  "2025-06-01",
			checkOut: "2025-06-05",
			wantErr:  false,
		},
		{
			name:     "check out equals check in",
			checkIn:  "2025-06-01",
			checkOut: "2025-06-01",
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "check out before check in",
			checkIn:  "2025-06-05",
			checkOut: "2025-06-01",
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed check in",
			checkIn:  "01-06-2025",
			checkOut: "2025-06-05",
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed check out",
			checkIn:  "2025-06-01",
			checkOut: "june 5th",
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, err := dto.ParseStayRange(tt.checkIn, tt.checkOut)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.True(t, out.After(in))
		})
	}
}

func TestUpdateBookingRequest_IsEmpty(t *testing.T) {
	empty := dto.UpdateBookingRequest{}
	assert.True(t, empty.IsEmpty())

	withDates := dto.UpdateBookingRequest{CheckIn: "2025-06-01"}
	assert.False(t, withDates.IsEmpty())

	zero := 0
	withChildren := dto.UpdateBookingRequest{Children: &zero}
	assert.False(t, withChildren.IsEmpty())
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		QuoteBookingRequest: dto.QuoteBookingRequest{
			PropertyID: "property-id",
			Adults:     2,
			Children:   1,
		},
	}

	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	booking := req.ToModel("customer-id", "BK-2025-0001", checkIn, checkOut)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "BK-2025-0001", booking.BookingNumber)
	assert.Equal(t, "property-id", booking.PropertyID)
	assert.Equal(t, "customer-id", booking.CustomerID)
	assert.Equal(t, model.StatusPendingApproval, booking.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, booking.PaymentStatus)
	assert.Equal(t, 2, booking.Adults)
	assert.Equal(t, 1, booking.Children)
	assert.Equal(t, 4, booking.Nights())
	assert.Equal(t, "customer-id", booking.CreatedBy)
}
