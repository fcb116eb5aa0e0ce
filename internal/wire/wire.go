package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service/handler graph and mounts every route group.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, handler.Report, config, logger)
	wireHotel(r, handler.Hotel, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wireReport(r, handler.Report, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
