package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"roost/config"
	"roost/infras/kafka"
	"roost/infras/otel"
	"roost/internal/domains/booking/model"
	"roost/internal/domains/booking/model/dto"
	"roost/internal/domains/booking/repository"
	calendarRepository "roost/internal/domains/calendar/repository"
	propertyModel "roost/internal/domains/property/model"
	propertyRepository "roost/internal/domains/property/repository"
	"roost/shared"
	"roost/shared/cache"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/failure"
	"roost/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Quote(ctx context.Context, req dto.QuoteBookingRequest) (dto.QuoteResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Approve(ctx context.Context, id string) (dto.BookingResponse, error)
	Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	CompleteDueCheckouts(ctx context.Context) (int, error)
	CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (Availability, error)
}

type serviceImpl struct {
	repo         repository.Booking
	calendarRepo calendarRepository.Calendar
	propertyRepo propertyRepository.Property
	cfg          *config.Config
	cache        cache.RedisCache
	kafka        kafka.Client
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	calendarRepo calendarRepository.Calendar,
	propertyRepo propertyRepository.Property,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		calendarRepo: calendarRepo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
		cache:        cache,
		kafka:        kafka,
		otel:         otel,
	}
}

// Quote prices a stay without persisting anything. Availability is checked
// first, a stay must not be priced when it cannot be booked.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteBookingRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.StayRange()
	if err != nil {
		return res, err
	}

	property, err := s.loadActiveProperty(ctx, req.PropertyID)
	if err != nil {
		return res, err
	}

	blocking, err := s.repo.FindBlocking(ctx, req.PropertyID, checkIn, checkOut, constant.Empty)
	if err != nil {
		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	overrides, err := s.calendarRepo.GetRange(ctx, req.PropertyID, checkIn, checkOut)
	if err != nil {
		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	availability := decideAvailability(blocking, overrides)
	if !availability.Available {
		return res, model.ErrUnavailable(availability.BlockedDates) // nolint:wrapcheck
	}

	index := indexOverrides(overrides)

	if err = validateStay(property, checkIn, checkOut, req.Adults, index); err != nil {
		return res, err
	}

	res.FromBreakdown(req.PropertyID, checkIn, checkOut, buildBreakdown(property, checkIn, checkOut, index))

	return res, nil
}

// Create books the stay. The availability re-check, booking-number
// allocation, and insert run in one serializable transaction, so of two
// concurrent overlapping creates exactly one commits. Serialization
// conflicts are retried a bounded number of times.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleCustomer && role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	checkIn, checkOut, err := req.StayRange()
	if err != nil {
		return res, err
	}

	property, err := s.loadActiveProperty(ctx, req.PropertyID)
	if err != nil {
		return res, err
	}

	var booking model.Booking

	for attempt := 0; ; attempt++ {
		err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
			availability, overrides, txErr := s.checkAvailabilityTx(ctx, tx, req.PropertyID, checkIn, checkOut, constant.Empty)
			if txErr != nil {
				return txErr
			}

			if !availability.Available {
				return model.ErrUnavailable(availability.BlockedDates) // nolint:wrapcheck
			}

			index := indexOverrides(overrides)

			if txErr = validateStay(property, checkIn, checkOut, req.Adults, index); txErr != nil {
				return txErr
			}

			prefix := fmt.Sprintf("%s-%d-", s.cfg.Booking.NumberPrefix, timezone.Now().Year())

			sequence, txErr := s.repo.NextSequenceTx(ctx, tx, prefix)
			if txErr != nil {
				return txErr
			}

			booking = req.ToModel(user, fmt.Sprintf("%s%04d", prefix, sequence), checkIn, checkOut)
			booking.ApplyBreakdown(buildBreakdown(property, checkIn, checkOut, index))

			return s.repo.InsertTx(ctx, tx, booking)
		})
		if err == nil {
			break
		}

		if pqErrorCode(err) == constant.PqErrorCodeSerializationFail && attempt < s.cfg.Booking.CreateMaxRetry {
			log.Warn().Int("attempt", attempt+1).Msg("booking create hit a serialization conflict, retrying")

			continue
		}

		return res, mapCreateError(err)
	}

	s.publishStatusEvent(ctx, booking, model.ActionCreate)
	s.invalidateLists(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err = s.scopeFilter(ctx, filter)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.authorizeView(ctx, booking); err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Update changes dates or guest counts on an existing booking and replaces
// the stored amounts with a fresh pricing run. The availability re-check
// excludes the booking itself.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && booking.CustomerID != user {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	// Only administrators may touch a completed booking. Privilege relaxes
	// nothing else.
	if booking.Status == model.StatusCompleted && role != constant.RoleAdmin {
		return res, failure.Forbidden("a completed booking can only be modified by an administrator") // nolint:wrapcheck
	}

	checkIn, checkOut := booking.CheckIn, booking.CheckOut

	if req.CheckIn != constant.Empty || req.CheckOut != constant.Empty {
		inRaw, outRaw := req.CheckIn, req.CheckOut
		if inRaw == constant.Empty {
			inRaw = booking.CheckIn.Format(constant.DateOnlyFormat)
		}

		if outRaw == constant.Empty {
			outRaw = booking.CheckOut.Format(constant.DateOnlyFormat)
		}

		checkIn, checkOut, err = dto.ParseStayRange(inRaw, outRaw)
		if err != nil {
			return res, err
		}
	}

	adults := booking.Adults
	if req.Adults > 0 {
		adults = req.Adults
	}

	children := booking.Children
	if req.Children != nil {
		children = *req.Children
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return res, err
	}

	for attempt := 0; ; attempt++ {
		err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
			availability, overrides, txErr := s.checkAvailabilityTx(ctx, tx, booking.PropertyID, checkIn, checkOut, booking.ID)
			if txErr != nil {
				return txErr
			}

			if !availability.Available {
				return model.ErrUnavailable(availability.BlockedDates) // nolint:wrapcheck
			}

			index := indexOverrides(overrides)

			if txErr = validateStay(property, checkIn, checkOut, adults, index); txErr != nil {
				return txErr
			}

			breakdown := buildBreakdown(property, checkIn, checkOut, index)

			fields := map[string]any{
				model.FieldCheckIn:       checkIn,
				model.FieldCheckOut:      checkOut,
				model.FieldAdults:        adults,
				model.FieldChildren:      children,
				model.FieldBaseAmount:    breakdown.BaseAmount,
				model.FieldCleaningFee:   breakdown.CleaningFee,
				model.FieldServiceFee:    breakdown.ServiceFee,
				model.FieldTaxes:         breakdown.Taxes,
				model.FieldDiscounts:     breakdown.Discounts,
				model.FieldTotalAmount:   breakdown.TotalAmount,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: user,
			}

			return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
		})
		if err == nil {
			break
		}

		if pqErrorCode(err) == constant.PqErrorCodeSerializationFail && attempt < s.cfg.Booking.CreateMaxRetry {
			log.Warn().Int("attempt", attempt+1).Msg("booking update hit a serialization conflict, retrying")

			continue
		}

		return res, mapCreateError(err)
	}

	s.invalidate(ctx, id)

	updated, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (dto.BookingResponse, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.transition(ctx, id, model.ActionApprove, map[string]any{
		model.FieldApprovedBy: user,
		model.FieldApprovedAt: timezone.Now(),
	})
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.ActionReject, map[string]any{
		model.FieldCancellationReason: req.Reason,
		model.FieldCancelledAt:        timezone.Now(),
	})
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.ActionConfirm, nil)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.ActionCheckIn, nil)
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.ActionCheckOut, nil)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error) {
	fields := map[string]any{
		model.FieldCancellationReason: req.Reason,
		model.FieldCancelledAt:        timezone.Now(),
	}

	if req.RefundAmount != nil {
		fields[model.FieldPaymentStatus] = string(model.PaymentStatusRefunded)
		fields[model.FieldRefundAmount] = *req.RefundAmount
	}

	return s.transition(ctx, id, model.ActionCancel, fields)
}

// CompleteDueCheckouts is the externally-triggered completion sweep: every
// checked-out booking whose check-out date has passed moves to completed.
// Idempotent, a booking already moved on is skipped via the status guard.
func (s *serviceImpl) CompleteDueCheckouts(ctx context.Context) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CompleteDueCheckouts")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if !model.ActionComplete.AllowedForRole(role) {
		return 0, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.RoleSystem
	}

	due, err := s.repo.FindDueCompletion(ctx, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to find due checkouts")

		return 0, fmt.Errorf("failed to find due checkouts: %w", err)
	}

	for _, booking := range due {
		fields := map[string]any{
			model.FieldStatus:        string(model.StatusCompleted),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		affected, err := s.repo.UpdateWhereStatus(ctx, fields, booking.ID, model.StatusCheckedOut)
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to complete booking")

			return completed, fmt.Errorf("failed to complete booking: %w", err)
		}

		if affected == 0 {
			continue
		}

		booking.Status = model.StatusCompleted
		s.publishStatusEvent(ctx, booking, model.ActionComplete)
		s.invalidate(ctx, booking.ID)

		completed++
	}

	log.Info().Int("completed", completed).Msg("completion sweep finished")

	return completed, nil
}

// transition performs a single status move. The update is guarded on the
// status the booking was loaded with, so a concurrent transition makes this
// one fail instead of silently double-applying.
func (s *serviceImpl) transition(ctx context.Context, id string, action model.Action, extra map[string]any) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, fmt.Sprintf("%s.booking.%s", constant.OtelServiceScopeName, action))
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.authorizeTransition(ctx, action, booking); err != nil {
		return res, err
	}

	next, ok := action.NextStatus(booking.Status)
	if !ok {
		return res, model.ErrInvalidTransition(booking.Status, action) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		model.FieldStatus:        string(next),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	maps.Copy(fields, extra)

	affected, err := s.repo.UpdateWhereStatus(ctx, fields, id, booking.Status)
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to transition booking")

		return res, fmt.Errorf("failed to transition booking: %w", err)
	}

	if affected == 0 {
		fresh, loadErr := s.loadBooking(ctx, id)
		if loadErr != nil {
			return res, loadErr
		}

		return res, model.ErrInvalidTransition(fresh.Status, action) // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	updated, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	s.publishStatusEvent(ctx, updated, action)

	res.FromModel(updated)

	return res, nil
}

// scopeFilter narrows a booking list to what the caller may see: customers
// their own bookings, hosts the bookings on their properties. GetAll applies
// it once, Count trusts its caller.
func (s *serviceImpl) scopeFilter(ctx context.Context, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	switch role {
	case constant.RoleAdmin, constant.RoleSystem:
		return filter, nil
	case constant.RoleCustomer:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCustomerID,
			Operator: gDto.FilterOperatorEq,
			Value:    user,
			Table:    model.TableName,
		})
	case constant.RoleHost:
		properties, err := s.propertyRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    propertyModel.FieldHostID,
					Operator: gDto.FilterOperatorEq,
					Value:    user,
					Table:    propertyModel.TableName,
				},
			},
		}, propertyModel.FieldID)
		if err != nil {
			log.Error().Err(err).Msg("failed to get host properties")

			return filter, fmt.Errorf("failed to get host properties: %w", err)
		}

		ids := make([]string, 0, len(properties))
		for _, property := range properties {
			ids = append(ids, property.ID)
		}

		if len(ids) == 0 {
			ids = append(ids, constant.Empty)
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldPropertyID,
			Operator: gDto.FilterOperatorIn,
			Value:    ids,
			Table:    model.TableName,
		})
	default:
		return filter, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return filter, nil
}

// authorizeTransition layers ownership on top of the role rule: hosts act
// only on their own properties, customers only on their own bookings.
func (s *serviceImpl) authorizeTransition(ctx context.Context, action model.Action, booking model.Booking) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if !action.AllowedForRole(role) {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	switch role {
	case constant.RoleAdmin, constant.RoleSystem:
		return nil
	case constant.RoleHost:
		property, err := s.loadProperty(ctx, booking.PropertyID)
		if err != nil {
			return err
		}

		if property.HostID != user {
			return failure.ResourceRestrictedError // nolint:wrapcheck
		}
	case constant.RoleCustomer:
		if booking.CustomerID != user {
			return failure.ResourceRestrictedError // nolint:wrapcheck
		}
	default:
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) authorizeView(ctx context.Context, booking model.Booking) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	switch role {
	case constant.RoleAdmin, constant.RoleSystem:
		return nil
	case constant.RoleCustomer:
		if booking.CustomerID == user {
			return nil
		}
	case constant.RoleHost:
		property, err := s.loadProperty(ctx, booking.PropertyID)
		if err != nil {
			return err
		}

		if property.HostID == user {
			return nil
		}
	}

	return failure.ResourceRestrictedError // nolint:wrapcheck
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) loadProperty(ctx context.Context, id string) (propertyModel.Property, error) {
	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(id, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return property, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return property, failure.NotFound("property not found") // nolint:wrapcheck
	}

	return property, nil
}

func (s *serviceImpl) loadActiveProperty(ctx context.Context, id string) (propertyModel.Property, error) {
	property, err := s.loadProperty(ctx, id)
	if err != nil {
		return property, err
	}

	if !property.Active {
		return property, failure.NotFound("property not found") // nolint:wrapcheck
	}

	return property, nil
}

type statusEvent struct {
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	PropertyID    string `json:"property_id"`
	CustomerID    string `json:"customer_id"`
	Action        string `json:"action"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"total_amount"`
	OccurredAt    string `json:"occurred_at"`
}

// publishStatusEvent emits the lifecycle event for downstream notification
// consumers. Fire and forget, a broker outage never fails the request.
func (s *serviceImpl) publishStatusEvent(ctx context.Context, booking model.Booking, action model.Action) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := statusEvent{
			BookingID:     booking.ID,
			BookingNumber: booking.BookingNumber,
			PropertyID:    booking.PropertyID,
			CustomerID:    booking.CustomerID,
			Action:        string(action),
			Status:        string(booking.Status),
			TotalAmount:   booking.TotalAmount,
			OccurredAt:    timezone.Now().Format(constant.DateFormat),
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.TopicBooking, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking status event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func pqErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return constant.Empty
}

// mapCreateError translates database conflicts into the availability
// failure. The exclusion constraint and the unique booking number are the
// last line of defense under concurrent writes.
func mapCreateError(err error) error {
	switch pqErrorCode(err) {
	case constant.PqErrorCodeExclusionViolation:
		return model.ErrUnavailable(nil) // nolint:wrapcheck
	case constant.PqErrorCodeUniqueViolation:
		return failure.Conflict("booking could not be created, please retry") // nolint:wrapcheck
	case constant.PqErrorCodeSerializationFail:
		return failure.Conflict("booking conflicted with a concurrent request, please retry") // nolint:wrapcheck
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	log.Error().Err(err).Msg("failed to create booking")

	return fmt.Errorf("failed to create booking: %w", err)
}
