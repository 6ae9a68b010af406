package service

import (
	"math"
	"time"

	"roost/internal/domains/booking/model"
	calendarModel "roost/internal/domains/calendar/model"
	propertyModel "roost/internal/domains/property/model"
)

// buildBreakdown walks the stay one calendar date at a time and rolls the
// nightly rates up into the final amounts. Deterministic for a fixed rate
// configuration and override set.
func buildBreakdown(property propertyModel.Property, checkIn, checkOut time.Time, overrides map[time.Time]calendarModel.Override) model.PriceBreakdown {
	var breakdown model.PriceBreakdown

	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		isWeekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
		rate := property.BaseRate

		// An explicit per-date price wins outright, weekend premium is
		// not applied on top of it.
		if override, ok := overrides[date]; ok && override.Price != nil {
			rate = *override.Price
		} else if isWeekend {
			rate = roundAmount(float64(property.BaseRate) * (1 + property.WeekendPremiumPct/100))
		}

		breakdown.BaseAmount += rate
		breakdown.Nights = append(breakdown.Nights, model.NightRate{
			Date:      date,
			Rate:      rate,
			IsWeekend: isWeekend,
		})
	}

	breakdown.CleaningFee = property.CleaningFee
	breakdown.ServiceFee = roundAmount(float64(breakdown.BaseAmount+breakdown.CleaningFee) * property.EffectiveServiceFeeRate())
	breakdown.TotalAmount = breakdown.BaseAmount + breakdown.CleaningFee + breakdown.ServiceFee + breakdown.Taxes - breakdown.Discounts

	return breakdown
}

// validateStay enforces guest capacity and stay-length bounds, including
// per-date minimum-stay overrides.
func validateStay(property propertyModel.Property, checkIn, checkOut time.Time, adults int, overrides map[time.Time]calendarModel.Override) error {
	if adults > property.MaxGuests {
		return model.ErrGuestCountExceeded(property.MaxGuests) // nolint:wrapcheck
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	minStay := property.MinStay
	for _, override := range overrides {
		if override.MinStay != nil && *override.MinStay > minStay {
			minStay = *override.MinStay
		}
	}

	if nights < minStay {
		return model.ErrStayTooShort(minStay) // nolint:wrapcheck
	}

	if property.MaxStay > 0 && nights > property.MaxStay {
		return model.ErrStayTooLong(property.MaxStay) // nolint:wrapcheck
	}

	return nil
}

// roundAmount rounds to the nearest whole currency unit. No sub-unit
// fractions are retained anywhere in the breakdown.
func roundAmount(amount float64) int64 {
	return int64(math.Round(amount))
}
