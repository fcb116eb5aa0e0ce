package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	reportHandler *adaptor.ReportHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/me", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Get("/", userHandler.GetProfile)
		r.Patch("/", userHandler.UpdateProfile)
		r.Put("/password", userHandler.ChangePassword)
		r.Get("/booking-counts", reportHandler.MyBookingCounts)
	})
}
