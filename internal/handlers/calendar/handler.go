package calendar

import (
	"net/http"

	"roost/infras/otel"
	"roost/internal/domains/calendar/model/dto"
	"roost/internal/domains/calendar/service"
	"roost/shared/constant"
	"roost/shared/validator"
	"roost/transport/http/middleware"
	"roost/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Calendar
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Calendar, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties/{id}/calendar", func(routerGroup chi.Router) {
		routerGroup.Put("/", handler.UpsertCalendar)
		routerGroup.Get("/", handler.GetCalendar)
	})
}

// UpsertCalendar writes per-date availability overrides for a property.
// @Summary Upsert availability overrides
// @Description Create or replace per-date availability, price, and minimum-stay overrides.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpsertCalendarRequest true "Upsert Calendar Request"
// @Success 200 {object} dto.GetCalendarResponse "Overrides saved"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id}/calendar [put]
// @Security BearerAuth
func (handler *Handler) UpsertCalendar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertCalendar")
	defer scope.End()

	propertyID := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpsertCalendarRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Upsert(ctx, req, propertyID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upsert calendar overrides")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Calendar overrides saved successfully")

	response.WithJSON(writer, http.StatusOK, res)
}

// GetCalendar reads a property's overrides inside a date window.
// @Summary Get availability overrides
// @Description Retrieve the availability overrides for a property between two dates.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param from query string true "Window start (YYYY-MM-DD, inclusive)"
// @Param to query string true "Window end (YYYY-MM-DD, exclusive)"
// @Success 200 {object} dto.GetCalendarResponse "Overrides in the window"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id}/calendar [get]
// @Security BearerAuth
func (handler *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendar")
	defer scope.End()

	propertyID := chi.URLParam(r, constant.RequestParamID)
	from := r.URL.Query().Get(constant.RequestParamFrom)
	to := r.URL.Query().Get(constant.RequestParamTo)

	res, err := handler.service.Get(ctx, propertyID, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get calendar overrides")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Calendar retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
