package adaptor

import (
	"errors"
	"net/http"

	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Hotel   *HotelHandler
	Booking *BookingHandler
	Report  *ReportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Hotel:   NewHotelHandler(service.Hotel, log),
		Booking: NewBookingHandler(service.Booking, log),
		Report:  NewReportHandler(service.Report, log),
	}
}

// identityFromContext rebuilds the actor from the values the auth
// middleware stored.
func identityFromContext(r *http.Request) (usecase.Identity, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Identity{}, false
	}
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return usecase.Identity{}, false
	}
	return usecase.Identity{UserID: userID, Role: role}, true
}

// respondError translates the service error taxonomy into HTTP status
// codes. Unrecognized errors become opaque 500s; the details stay in the
// log, not the response.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, err.Error())
	case errors.Is(err, repository.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, repository.ErrNoAvailability):
		utils.ResponseConflict(w, err.Error())
	case errors.Is(err, repository.ErrConflict):
		utils.ResponseConflict(w, err.Error())
	default:
		log.Error("Unhandled service error", zap.Error(err), zap.String("op", op))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
