package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"roost/config"
	kafkaMocks "roost/infras/kafka/mocks"
	"roost/infras/otel/mocks"
	bookingMocks "roost/internal/domains/booking/mocks"
	"roost/internal/domains/booking/model"
	"roost/internal/domains/booking/model/dto"
	"roost/internal/domains/booking/service"
	calendarMocks "roost/internal/domains/calendar/mocks"
	calendarModel "roost/internal/domains/calendar/model"
	propertyMocks "roost/internal/domains/property/mocks"
	cacheMocks "roost/shared/cache/mocks"
	"roost/shared/failure"
)

func TestBookingService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCalendarRepo := calendarMocks.NewMockCalendar(ctrl)
	mockPropertyRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockCalendarRepo, mockPropertyRepo, cfg, mockCache, mockKafka, mockOtel)

	jun3 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	jun4 := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	jun9 := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	jun10 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	jun11 := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		checkIn     time.Time
		checkOut    time.Time
		setupMock   func()
		wantErr     bool
		wantCode    int
		wantFree    bool
		wantBlocked []time.Time
	}{
		{
			name:     "free range",
			checkIn:  jun3,
			checkOut: jun4,
			setupMock: func() {
				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantFree: true,
		},
		{
			name:     "overlapping confirmed booking blocks the range",
			checkIn:  jun3,
			checkOut: jun4,
			setupMock: func() {
				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						{
							ID:         "booking-id",
							PropertyID: "property-id",
							CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
							CheckOut:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
							Status:     model.StatusConfirmed,
						},
					}, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantFree: false,
		},
		{
			name:     "unavailable override blocks its date",
			checkIn:  jun9,
			checkOut: jun11,
			setupMock: func() {
				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]calendarModel.Override{
						{PropertyID: "property-id", Date: jun10, Available: false},
					}, nil)
			},
			wantFree:    false,
			wantBlocked: []time.Time{jun10},
		},
		{
			name:     "available override does not block",
			checkIn:  jun9,
			checkOut: jun11,
			setupMock: func() {
				price := int64(8000)

				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]calendarModel.Override{
						{PropertyID: "property-id", Date: jun10, Available: true, Price: &price},
					}, nil)
			},
			wantFree: true,
		},
		{
			name:      "check out must be after check in",
			checkIn:   jun4,
			checkOut:  jun4,
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			availability, err := svc.CheckAvailability(context.Background(), "property-id", tt.checkIn, tt.checkOut)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFree, availability.Available)
			assert.Equal(t, tt.wantBlocked, availability.BlockedDates)
		})
	}
}

func TestBookingService_Quote_BlockedDatesInDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCalendarRepo := calendarMocks.NewMockCalendar(ctrl)
	mockPropertyRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockCalendarRepo, mockPropertyRepo, cfg, mockCache, mockKafka, mockOtel)

	mockPropertyRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testProperty(), nil)

	mockRepo.EXPECT().
		FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	mockCalendarRepo.EXPECT().
		GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]calendarModel.Override{
			{
				PropertyID: "property-id",
				Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				Available:  false,
			},
		}, nil)

	_, err := svc.Quote(context.Background(), dto.QuoteBookingRequest{
		PropertyID: "property-id",
		CheckIn:    "2025-06-09",
		CheckOut:   "2025-06-11",
		Adults:     2,
	})

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	details, ok := failure.GetDetails(err).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, []string{"2025-06-10"}, details["blocked_dates"])
}
