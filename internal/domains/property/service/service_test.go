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
	propertyMocks "roost/internal/domains/property/mocks"
	"roost/internal/domains/property/model"
	"roost/internal/domains/property/model/dto"
	"roost/internal/domains/property/service"
	cacheMocks "roost/shared/cache/mocks"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/failure"
)

func ctxWithUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func testProperty() model.Property {
	return model.Property{
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

func TestPropertyService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		req       dto.CreatePropertyRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreatePropertyRequest{
				Name:      "Beach House",
				BaseRate:  10000,
				MaxGuests: 4,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "max stay below min stay",
			req: dto.CreatePropertyRequest{
				Name:      "Beach House",
				BaseRate:  10000,
				MaxGuests: 4,
				MinStay:   5,
				MaxStay:   2,
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "repository error",
			req: dto.CreatePropertyRequest{
				Name:      "Beach House",
				BaseRate:  10000,
				MaxGuests: 4,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(ctxWithUser("host-id", constant.RoleHost), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "host-id", res.HostID)
			assert.True(t, res.Active)
		})
	}
}

func TestPropertyService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	t.Run("cache miss falls back to the database", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testProperty(), nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "property-id")

		assert.NoError(t, err)
		assert.Equal(t, "property-id", res.ID)
	})

	t.Run("missing property is not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Property{}, nil)

		_, err := svc.Get(context.Background(), "missing-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPropertyService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	t.Run("owner updates the rate", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testProperty(), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Update(ctxWithUser("host-id", constant.RoleHost), dto.UpdatePropertyRequest{BaseRate: 12000}, "property-id")

		assert.NoError(t, err)
	})

	t.Run("empty update request", func(t *testing.T) {
		err := svc.Update(ctxWithUser("host-id", constant.RoleHost), dto.UpdatePropertyRequest{}, "property-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("another host is rejected", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testProperty(), nil)

		err := svc.Update(ctxWithUser("other-host-id", constant.RoleHost), dto.UpdatePropertyRequest{BaseRate: 12000}, "property-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestPropertyService_Deactivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := propertyMocks.NewMockProperty(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	t.Run("admin deactivates any property", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testProperty(), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldActive])

				return nil
			})

		err := svc.Deactivate(ctxWithUser("admin-id", constant.RoleAdmin), "property-id")

		assert.NoError(t, err)
	})

	t.Run("missing property is not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Property{}, nil)

		err := svc.Deactivate(ctxWithUser("admin-id", constant.RoleAdmin), "property-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
