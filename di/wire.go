//go:build wireinject
// +build wireinject

package di

import (
	"roost/config"
	"roost/infras/jwt"
	"roost/infras/kafka"
	"roost/infras/otel"
	"roost/infras/postgres"
	"roost/infras/redis"
	"roost/permissions"
	"roost/shared/cache"
	"roost/transport/http"
	"roost/transport/http/middleware"
	"roost/transport/http/router"

	bookingRepository "roost/internal/domains/booking/repository"
	bookingService "roost/internal/domains/booking/service"
	calendarRepository "roost/internal/domains/calendar/repository"
	calendarService "roost/internal/domains/calendar/service"
	propertyRepository "roost/internal/domains/property/repository"
	propertyService "roost/internal/domains/property/service"

	bookingHandler "roost/internal/handlers/booking"
	calendarHandler "roost/internal/handlers/calendar"
	propertyHandler "roost/internal/handlers/property"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var propertyDomain = wire.NewSet(
	propertyRepository.New,
	propertyService.New,
)

var calendarDomain = wire.NewSet(
	calendarRepository.New,
	calendarService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	propertyDomain,
	calendarDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	propertyHandler.New,
	calendarHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
