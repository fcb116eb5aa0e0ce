package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReport(
	r chi.Router,
	reportHandler *adaptor.ReportHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/admin/reports", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin)

		r.Get("/occupancy", reportHandler.HotelOccupancies)
		r.Get("/occupancy/{id}", reportHandler.HotelOccupancy)
	})
}
