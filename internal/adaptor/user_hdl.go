package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), actor.UserID)
	if err != nil {
		respondError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// UpdateProfile handles PATCH /api/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), actor.UserID, &req)
	if err != nil {
		respondError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// ChangePassword handles PUT /api/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ChangePassword(r.Context(), actor.UserID, &req); err != nil {
		respondError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "password updated", nil)
}
