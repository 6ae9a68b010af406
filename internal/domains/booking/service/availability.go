package service

import (
	"context"
	"time"

	"roost/internal/domains/booking/model"
	calendarModel "roost/internal/domains/calendar/model"
	"roost/shared/constant"

	"github.com/jmoiron/sqlx"
)

// Availability is the outcome of a date-range check. BlockedDates is only
// populated when the conflict comes from availability overrides.
type Availability struct {
	Available    bool
	BlockedDates []time.Time
}

// CheckAvailability decides whether the property is free for [checkIn,
// checkOut). Read-only, safe to call concurrently.
func (s *serviceImpl) CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (Availability, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()

	if !checkOut.After(checkIn) {
		return Availability{}, model.ErrInvalidRange() // nolint:wrapcheck
	}

	blocking, err := s.repo.FindBlocking(ctx, propertyID, checkIn, checkOut, constant.Empty)
	if err != nil {
		return Availability{}, err
	}

	overrides, err := s.calendarRepo.GetRange(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return Availability{}, err
	}

	return decideAvailability(blocking, overrides), nil
}

// checkAvailabilityTx is the transactional twin used by create and update so
// the decision and the write share one isolation boundary. It returns the
// overrides so pricing does not read them a second time.
func (s *serviceImpl) checkAvailabilityTx(ctx context.Context, tx *sqlx.Tx, propertyID string, checkIn, checkOut time.Time, excludeID string) (Availability, []calendarModel.Override, error) {
	blocking, err := s.repo.FindBlockingTx(ctx, tx, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return Availability{}, nil, err
	}

	overrides, err := s.calendarRepo.GetRangeTx(ctx, tx, propertyID, checkIn, checkOut)
	if err != nil {
		return Availability{}, nil, err
	}

	return decideAvailability(blocking, overrides), overrides, nil
}

// decideAvailability applies the two-step rule: any blocking booking makes
// the whole range unavailable, then any override with its flag off blocks
// its date. All blocked dates are reported, not just the first.
func decideAvailability(blocking []model.Booking, overrides []calendarModel.Override) Availability {
	if len(blocking) > 0 {
		return Availability{Available: false}
	}

	var blockedDates []time.Time

	for _, override := range overrides {
		if !override.Available {
			blockedDates = append(blockedDates, override.Day())
		}
	}

	if len(blockedDates) > 0 {
		return Availability{Available: false, BlockedDates: blockedDates}
	}

	return Availability{Available: true}
}

// indexOverrides keys the overrides by calendar day for per-date lookups.
func indexOverrides(overrides []calendarModel.Override) map[time.Time]calendarModel.Override {
	index := make(map[time.Time]calendarModel.Override, len(overrides))
	for _, override := range overrides {
		index[override.Day()] = override
	}

	return index
}
