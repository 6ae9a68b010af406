package service

import (
	"context"
	"fmt"
	"time"

	"roost/config"
	"roost/infras/otel"
	"roost/internal/domains/calendar/model/dto"
	"roost/internal/domains/calendar/repository"
	propertyModel "roost/internal/domains/property/model"
	propertyRepository "roost/internal/domains/property/repository"
	"roost/shared"
	"roost/shared/cache"
	"roost/shared/constant"
	"roost/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetCalendar = "calendar:get"

// maxCalendarRangeDays bounds a single calendar read to one year plus a day
// so leap years fit.
const maxCalendarRangeDays = 366

type Calendar interface {
	Upsert(ctx context.Context, req dto.UpsertCalendarRequest, propertyID string) (dto.GetCalendarResponse, error)
	Get(ctx context.Context, propertyID, from, to string) (dto.GetCalendarResponse, error)
}

type serviceImpl struct {
	repo         repository.Calendar
	propertyRepo propertyRepository.Property
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Calendar, propertyRepo propertyRepository.Property, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Calendar {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Upsert(ctx context.Context, req dto.UpsertCalendarRequest, propertyID string) (res dto.GetCalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Upsert")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.authorizeOwner(ctx, propertyID)
	if err != nil {
		return res, err
	}

	overrides, err := req.ToModels(propertyID, user)
	if err != nil {
		return res, failure.BadRequestFromString("dates must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	seen := make(map[time.Time]bool, len(overrides))
	for _, override := range overrides {
		if seen[override.Day()] {
			return res, failure.BadRequestFromString(fmt.Sprintf("duplicate override for date %s", override.Day().Format(constant.DateOnlyFormat))) // nolint:wrapcheck
		}

		seen[override.Day()] = true
	}

	if err = s.repo.Upsert(ctx, overrides); err != nil {
		log.Error().Err(err).Msg("failed to upsert calendar overrides")

		return res, fmt.Errorf("failed to upsert calendar overrides: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetCalendar, propertyID))
	}()

	res.FromModels(propertyID, overrides)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, propertyID, from, to string) (res dto.GetCalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return res, err
	}

	exist, err := s.propertyRepo.Exist(ctx, shared.FilterByID(propertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check property")

		return res, fmt.Errorf("failed to check property: %w", err)
	}

	if !exist {
		return res, failure.NotFound("property not found") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetCalendar, propertyID, from, to)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for calendar")

		return res, nil
	}

	overrides, err := s.repo.GetRange(ctx, propertyID, fromDate, toDate)
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar overrides")

		return res, fmt.Errorf("failed to get calendar overrides: %w", err)
	}

	res.FromModels(propertyID, overrides)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save calendar to cache")
		}
	}()

	return res, nil
}

// parseRange validates the query window. The upper bound is exclusive.
func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := time.Parse(constant.DateOnlyFormat, from)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("from date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	toDate, err := time.Parse(constant.DateOnlyFormat, to)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("to date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if !toDate.After(fromDate) {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("to date must be after from date") // nolint:wrapcheck
	}

	if toDate.Sub(fromDate) > maxCalendarRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("calendar range cannot exceed one year") // nolint:wrapcheck
	}

	return fromDate, toDate, nil
}

func (s *serviceImpl) authorizeOwner(ctx context.Context, propertyID string) (string, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(propertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return user, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return user, failure.NotFound("property not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && property.HostID != user {
		return user, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return user, nil
}
