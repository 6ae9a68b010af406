package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"roost/config"
	"roost/infras/otel/mocks"
	calendarMocks "roost/internal/domains/calendar/mocks"
	calendarModel "roost/internal/domains/calendar/model"
	"roost/internal/domains/calendar/model/dto"
	"roost/internal/domains/calendar/service"
	propertyMocks "roost/internal/domains/property/mocks"
	propertyModel "roost/internal/domains/property/model"
	cacheMocks "roost/shared/cache/mocks"
	"roost/shared/constant"
	"roost/shared/failure"
)

func ctxWithUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func testProperty() propertyModel.Property {
	return propertyModel.Property{
		ID:        "property-id",
		HostID:    "host-id",
		Name:      "Beach House",
		BaseRate:  10000,
		MaxGuests: 4,
		Active:    true,
	}
}

func TestCalendarService_Upsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := calendarMocks.NewMockCalendar(ctrl)
	mockPropertyRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockPropertyRepo, cfg, mockCache, mockOtel)

	price := int64(8000)

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpsertCalendarRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "host sets overrides on their property",
			ctx:  ctxWithUser("host-id", constant.RoleHost),
			req: dto.UpsertCalendarRequest{
				Overrides: []dto.OverrideEntry{
					{Date: "2025-06-10", Available: false},
					{Date: "2025-06-11", Available: true, Price: &price},
				},
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)

				mockRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "another host is rejected",
			ctx:  ctxWithUser("other-host-id", constant.RoleHost),
			req: dto.UpsertCalendarRequest{
				Overrides: []dto.OverrideEntry{{Date: "2025-06-10", Available: false}},
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "duplicate dates are rejected",
			ctx:  ctxWithUser("host-id", constant.RoleHost),
			req: dto.UpsertCalendarRequest{
				Overrides: []dto.OverrideEntry{
					{Date: "2025-06-10", Available: false},
					{Date: "2025-06-10", Available: true},
				},
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "malformed date is rejected",
			ctx:  ctxWithUser("host-id", constant.RoleHost),
			req: dto.UpsertCalendarRequest{
				Overrides: []dto.OverrideEntry{{Date: "10/06/2025", Available: false}},
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testProperty(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing property is not found",
			ctx:  ctxWithUser("host-id", constant.RoleHost),
			req: dto.UpsertCalendarRequest{
				Overrides: []dto.OverrideEntry{{Date: "2025-06-10", Available: false}},
			},
			setupMock: func() {
				mockPropertyRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(propertyModel.Property{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Upsert(tt.ctx, tt.req, "property-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "property-id", res.PropertyID)
			assert.Len(t, res.Overrides, len(tt.req.Overrides))
		})
	}
}

func TestCalendarService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := calendarMocks.NewMockCalendar(ctrl)
	mockPropertyRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockPropertyRepo, cfg, mockCache, mockOtel)

	t.Run("cache miss reads the overrides", func(t *testing.T) {
		mockPropertyRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			GetRange(gomock.Any(), "property-id", gomock.Any(), gomock.Any()).
			Return([]calendarModel.Override{}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "property-id", "2025-06-01", "2025-07-01")

		assert.NoError(t, err)
		assert.Equal(t, "property-id", res.PropertyID)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		mockPropertyRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.Get(context.Background(), "property-id", "2025-06-01", "2025-07-01")

		assert.NoError(t, err)
	})

	t.Run("missing property is not found", func(t *testing.T) {
		mockPropertyRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := svc.Get(context.Background(), "property-id", "2025-06-01", "2025-07-01")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("reversed range is rejected", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "property-id", "2025-07-01", "2025-06-01")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("range over one year is rejected", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "property-id", "2025-01-01", "2026-06-01")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
