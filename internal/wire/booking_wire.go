package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Post("/", bookingHandler.Create)
		r.Get("/", bookingHandler.List)
		r.Get("/{id}", bookingHandler.GetByID)
		r.Patch("/{id}", bookingHandler.Reschedule)
		r.Delete("/{id}", bookingHandler.Cancel)
	})

	// Lifecycle transitions (confirm, check in, check out) are staff-only.
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin)

		r.Put("/{id}/status", bookingHandler.TransitionStatus)
		r.Get("/{id}/history", bookingHandler.History)
	})
}
