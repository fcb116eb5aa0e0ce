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

type HotelHandler struct {
	service usecase.HotelService
	log     *zap.Logger
}

func NewHotelHandler(service usecase.HotelService, log *zap.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log.With(zap.String("handler", "hotel")),
	}
}

// List handles GET /api/hotels (public)
func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	hotels, err := h.service.ListHotels(r.Context(), query.Get("search"), query.Get("city"), page)
	if err != nil {
		respondError(w, h.log, err, "list hotels")
		return
	}

	utils.ResponseSuccess(w, "success", hotels)
}

// GetByID handles GET /api/hotels/{id} (public)
func (h *HotelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.service.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get hotel")
		return
	}

	utils.ResponseSuccess(w, "success", hotel)
}

// Availability handles GET /api/hotels/{id}/availability (public).
// check_in/check_out query params accept YYYY-MM-DD or RFC 3339.
func (h *HotelHandler) Availability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
	}

	availability, err := h.service.Availability(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "hotel availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// Create handles POST /api/admin/hotels (admin)
func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.HotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hotel, err := h.service.CreateHotel(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create hotel")
		return
	}

	utils.ResponseCreated(w, "success", hotel)
}

// Update handles PATCH /api/admin/hotels/{id} (admin)
func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.HotelUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hotel, err := h.service.UpdateHotel(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update hotel")
		return
	}

	utils.ResponseSuccess(w, "success", hotel)
}

// Delete handles DELETE /api/admin/hotels/{id} (admin)
func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteHotel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete hotel")
		return
	}

	utils.ResponseSuccess(w, "hotel deleted", nil)
}

// ListRoomTypes handles GET /api/hotels/{id}/room-types (public)
func (h *HotelHandler) ListRoomTypes(w http.ResponseWriter, r *http.Request) {
	roomTypes, err := h.service.ListRoomTypes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "list room types")
		return
	}

	utils.ResponseSuccess(w, "success", roomTypes)
}

// CreateRoomType handles POST /api/admin/hotels/{id}/room-types (admin)
func (h *HotelHandler) CreateRoomType(w http.ResponseWriter, r *http.Request) {
	var req request.RoomTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	roomType, err := h.service.CreateRoomType(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "create room type")
		return
	}

	utils.ResponseCreated(w, "success", roomType)
}

// UpdateRoomType handles PATCH /api/admin/room-types/{id} (admin)
func (h *HotelHandler) UpdateRoomType(w http.ResponseWriter, r *http.Request) {
	var req request.RoomTypeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	roomType, err := h.service.UpdateRoomType(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update room type")
		return
	}

	utils.ResponseSuccess(w, "success", roomType)
}

// DeleteRoomType handles DELETE /api/admin/room-types/{id} (admin)
func (h *HotelHandler) DeleteRoomType(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRoomType(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete room type")
		return
	}

	utils.ResponseSuccess(w, "room type deleted", nil)
}

// ListRooms handles GET /api/admin/hotels/{id}/rooms (admin)
func (h *HotelHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

// CreateRoom handles POST /api/admin/hotels/{id}/rooms (admin)
func (h *HotelHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "create room")
		return
	}

	utils.ResponseCreated(w, "success", room)
}

// UpdateRoom handles PATCH /api/admin/rooms/{id} (admin)
func (h *HotelHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.RoomUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update room")
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// DeleteRoom handles DELETE /api/admin/rooms/{id} (admin)
func (h *HotelHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete room")
		return
	}

	utils.ResponseSuccess(w, "room deleted", nil)
}
