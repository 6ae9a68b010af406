package property

import (
	"net/http"

	"roost/infras/otel"
	"roost/internal/domains/property/model"
	"roost/internal/domains/property/model/dto"
	"roost/internal/domains/property/service"
	"roost/shared"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/validator"
	"roost/transport/http/middleware"
	"roost/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Property
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Property, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateProperty)
		routerGroup.Get("/", handler.GetProperties)
		routerGroup.Get("/{id}", handler.GetPropertyByID)
		routerGroup.Patch("/{id}", handler.UpdateProperty)
		routerGroup.Delete("/{id}", handler.DeactivateProperty)
	})
}

// CreateProperty registers a new property listing.
// @Summary Create a new property
// @Description Create a new property listing with its rate configuration.
// @Tags Property
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Create Property Request"
// @Success 201 {object} dto.PropertyResponse "Property created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [post]
// @Security BearerAuth
func (handler *Handler) CreateProperty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProperty")
	defer scope.End()

	req := dto.CreatePropertyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create property")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Property created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetProperties lists property listings.
// @Summary Get all properties
// @Description Retrieve property listings with optional filtering and pagination.
// @Tags Property
// @Accept json
// @Produce json
// @Param name query string false "Filter by name"
// @Param host_id query string false "Filter by host"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} dto.GetPropertiesResponse "List of properties"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [get]
// @Security BearerAuth
func (handler *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldName),
				Table:    model.TableName,
			},
		},
	}

	if hostID := r.URL.Query().Get(model.FieldHostID); hostID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldHostID,
			Operator: gDto.FilterOperatorEq,
			Value:    hostID,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	properties, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get properties")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Properties retrieved successfully")

	response.WithJSON(w, http.StatusOK, properties)
}

// GetPropertyByID retrieves a single property.
// @Summary Get a property by ID
// @Description Retrieve a property listing by its unique identifier.
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} dto.PropertyResponse "Property details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	property, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get property")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Property retrieved successfully")

	response.WithJSON(w, http.StatusOK, property)
}

// UpdateProperty changes a property's rate configuration.
// @Summary Update a property
// @Description Update a property listing. Only the host or an admin may update it.
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Update Property Request"
// @Success 200 {object} response.Message "Property updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update property")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Property updated successfully")

	response.WithMessage(w, http.StatusOK, "Property updated successfully")
}

// DeactivateProperty takes a listing off the marketplace. Existing bookings
// are untouched.
// @Summary Deactivate a property
// @Description Deactivate a property listing so no new bookings can target it.
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Property deactivated successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeactivateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Deactivate(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate property")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Property deactivated successfully")

	response.WithMessage(w, http.StatusOK, "Property deactivated successfully")
}
