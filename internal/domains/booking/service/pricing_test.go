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
	"roost/internal/domains/booking/model/dto"
	"roost/internal/domains/booking/service"
	calendarMocks "roost/internal/domains/calendar/mocks"
	calendarModel "roost/internal/domains/calendar/model"
	propertyMocks "roost/internal/domains/property/mocks"
	propertyModel "roost/internal/domains/property/model"
	cacheMocks "roost/shared/cache/mocks"
	"roost/shared/failure"
)

func testProperty() propertyModel.Property {
	return propertyModel.Property{
		ID:                "property-id",
		HostID:            "host-id",
		Name:              "Beach House",
		BaseRate:          10000,
		WeekendPremiumPct: 20,
		CleaningFee:       5000,
		MinStay:           1,
		MaxGuests:         4,
		Active:            true,
	}
}

func TestBookingService_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCalendarRepo := calendarMocks.NewMockCalendar(ctrl)
	mockPropertyRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockCalendarRepo, mockPropertyRepo, cfg, mockCache, mockKafka, mockOtel)

	overridePrice := int64(8000)
	overrideMinStay := 3

	tests := []struct {
		name      string
		req       dto.QuoteBookingRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.QuoteResponse)
	}{
		{
			name: "one weekday and one weekend night",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-06",
				CheckOut:   "2025-06-08",
				Adults:     2,
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)

				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			check: func(t *testing.T, res dto.QuoteResponse) {
				assert.Equal(t, int64(22000), res.BaseAmount)
				assert.Equal(t, int64(5000), res.CleaningFee)
				assert.Equal(t, int64(1350), res.ServiceFee)
				assert.Equal(t, int64(28350), res.TotalAmount)

				assert.Len(t, res.Nights, 2)
				assert.Equal(t, int64(10000), res.Nights[0].Rate)
				assert.False(t, res.Nights[0].IsWeekend)
				assert.Equal(t, int64(12000), res.Nights[1].Rate)
				assert.True(t, res.Nights[1].IsWeekend)
			},
		},
		{
			name: "override price wins over weekend premium",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-06",
				CheckOut:   "2025-06-08",
				Adults:     2,
			},
			setupMock: func() {
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
							Date:       time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
							Available:  true,
							Price:      &overridePrice,
						},
					}, nil)
			},
			check: func(t *testing.T, res dto.QuoteResponse) {
				assert.Equal(t, int64(18000), res.BaseAmount)
				assert.Equal(t, int64(1150), res.ServiceFee)
				assert.Equal(t, int64(24150), res.TotalAmount)

				assert.Len(t, res.Nights, 2)
				assert.Equal(t, int64(8000), res.Nights[1].Rate)
				assert.True(t, res.Nights[1].IsWeekend)
			},
		},
		{
			name: "guest count over capacity",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-06",
				CheckOut:   "2025-06-08",
				Adults:     5,
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)

				mockRepo.EXPECT().
					FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockCalendarRepo.EXPECT().
					GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "override raises the minimum stay",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-06",
				CheckOut:   "2025-06-08",
				Adults:     2,
			},
			setupMock: func() {
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
							Date:       time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
							Available:  true,
							MinStay:    &overrideMinStay,
						},
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid range is rejected before pricing",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-08",
				CheckOut:   "2025-06-06",
				Adults:     2,
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "inactive property is not quotable",
			req: dto.QuoteBookingRequest{
				PropertyID: "property-id",
				CheckIn:    "2025-06-06",
				CheckOut:   "2025-06-08",
				Adults:     2,
			},
			setupMock: func() {
				inactive := testProperty()
				inactive.Active = false

				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactive, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Quote(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestBookingService_Quote_Deterministic(t *testing.T) {
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
		Return(testProperty(), nil).
		Times(2)

	mockRepo.EXPECT().
		FindBlocking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(2)

	mockCalendarRepo.EXPECT().
		GetRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(2)

	req := dto.QuoteBookingRequest{
		PropertyID: "property-id",
		CheckIn:    "2025-06-02",
		CheckOut:   "2025-06-09",
		Adults:     2,
	}

	first, err := svc.Quote(context.Background(), req)
	assert.NoError(t, err)

	second, err := svc.Quote(context.Background(), req)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
