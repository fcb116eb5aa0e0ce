package adaptor

import (
	"net/http"

	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With(zap.String("handler", "report")),
	}
}

// HotelOccupancies handles GET /api/admin/reports/occupancy (admin)
func (h *ReportHandler) HotelOccupancies(w http.ResponseWriter, r *http.Request) {
	occupancies, err := h.service.HotelOccupancies(r.Context())
	if err != nil {
		respondError(w, h.log, err, "hotel occupancies")
		return
	}

	utils.ResponseSuccess(w, "success", occupancies)
}

// HotelOccupancy handles GET /api/admin/reports/occupancy/{id} (admin)
func (h *ReportHandler) HotelOccupancy(w http.ResponseWriter, r *http.Request) {
	occupancy, err := h.service.HotelOccupancy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "hotel occupancy")
		return
	}

	utils.ResponseSuccess(w, "success", occupancy)
}

// MyBookingCounts handles GET /api/me/booking-counts (protected)
func (h *ReportHandler) MyBookingCounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	counts, err := h.service.MyBookingCounts(r.Context(), actor, r.URL.Query().Get("hotel_id"))
	if err != nil {
		respondError(w, h.log, err, "my booking counts")
		return
	}

	utils.ResponseSuccess(w, "success", counts)
}
