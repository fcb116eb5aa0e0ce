package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHotel(
	r chi.Router,
	hotelHandler *adaptor.HotelHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Public browse surface
	r.Get("/api/hotels", hotelHandler.List)
	r.Get("/api/hotels/{id}", hotelHandler.GetByID)
	r.Get("/api/hotels/{id}/availability", hotelHandler.Availability)
	r.Get("/api/hotels/{id}/room-types", hotelHandler.ListRoomTypes)

	// Admin inventory management
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin)

		r.Post("/hotels", hotelHandler.Create)
		r.Patch("/hotels/{id}", hotelHandler.Update)
		r.Delete("/hotels/{id}", hotelHandler.Delete)

		r.Post("/hotels/{id}/room-types", hotelHandler.CreateRoomType)
		r.Patch("/room-types/{id}", hotelHandler.UpdateRoomType)
		r.Delete("/room-types/{id}", hotelHandler.DeleteRoomType)

		r.Get("/hotels/{id}/rooms", hotelHandler.ListRooms)
		r.Post("/hotels/{id}/rooms", hotelHandler.CreateRoom)
		r.Patch("/rooms/{id}", hotelHandler.UpdateRoom)
		r.Delete("/rooms/{id}", hotelHandler.DeleteRoom)
	})
}
