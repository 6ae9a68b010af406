package router

import (
	"roost/internal/handlers/booking"
	"roost/internal/handlers/calendar"
	"roost/internal/handlers/property"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Property property.Handler
	Calendar calendar.Handler
	Booking  booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
