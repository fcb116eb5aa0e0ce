package response

import "hotel-booking/internal/data/repository"

type HotelOccupancyResponse struct {
	HotelID        string `json:"hotel_id"`
	Name           string `json:"name"`
	AvailableRooms int64  `json:"available_rooms"`
	TotalRooms     int64  `json:"total_rooms"`
	Status         string `json:"status"`
}

type UserHotelBookingCountResponse struct {
	HotelID  string `json:"hotel_id"`
	Bookings int64  `json:"bookings"`
}

func OccupancyToResponse(o *repository.HotelOccupancy) HotelOccupancyResponse {
	return HotelOccupancyResponse{
		HotelID:        o.HotelID.String(),
		Name:           o.Name,
		AvailableRooms: o.AvailableRooms,
		TotalRooms:     o.TotalRooms,
		Status:         o.Status,
	}
}

func UserBookingCountToResponse(c *repository.UserHotelBookingCount) UserHotelBookingCountResponse {
	return UserHotelBookingCountResponse{
		HotelID:  c.HotelID.String(),
		Bookings: c.Bookings,
	}
}
