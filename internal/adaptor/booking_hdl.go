package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Create handles POST /api/bookings (protected)
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// List handles GET /api/bookings (protected). Non-admins only see their
// own bookings regardless of filters.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		HotelID: query.Get("hotel_id"),
		Status:  query.Get("status"),
		From:    query.Get("from"),
		To:      query.Get("to"),
	}

	bookings, err := h.service.List(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetByID handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Reschedule handles PATCH /api/bookings/{id} (protected)
func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Reschedule(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "reschedule booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Cancel handles DELETE /api/bookings/{id} (protected). The body is
// optional and may carry a note.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CancelBookingRequest
	if r.Body != nil {
		// An empty or absent body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	booking, err := h.service.Cancel(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// History handles GET /api/admin/bookings/{id}/history (admin)
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	history, err := h.service.History(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "booking history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}

// TransitionStatus handles PUT /api/admin/bookings/{id}/status (admin)
func (h *BookingHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.TransitionStatus(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "transition booking status")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
