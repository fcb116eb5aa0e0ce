package response

import (
	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
)

type HotelResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	City        string         `json:"city"`
	Country     string         `json:"country"`
	Address     *string        `json:"address,omitempty"`
	Description *string        `json:"description,omitempty"`
	StarRating  *int           `json:"star_rating,omitempty"`
	Amenities   map[string]any `json:"amenities,omitempty"`

	Occupancy *OccupancySummary `json:"occupancy,omitempty"`
}

// OccupancySummary is the room availability snapshot attached to browse
// responses.
type OccupancySummary struct {
	AvailableRooms int64  `json:"available_rooms"`
	TotalRooms     int64  `json:"total_rooms"`
	Status         string `json:"status"`
}

func OccupancyToSummary(o *repository.HotelOccupancy) *OccupancySummary {
	return &OccupancySummary{
		AvailableRooms: o.AvailableRooms,
		TotalRooms:     o.TotalRooms,
		Status:         o.Status,
	}
}

type HotelImageResponse struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	AltText   *string `json:"alt_text,omitempty"`
	IsPrimary bool    `json:"is_primary"`
}

type HotelDetailResponse struct {
	HotelResponse
	Images    []HotelImageResponse `json:"images"`
	RoomTypes []RoomTypeResponse   `json:"room_types"`
}

type RoomTypeResponse struct {
	ID          string         `json:"id"`
	HotelID     string         `json:"hotel_id"`
	Name        string         `json:"name"`
	Capacity    int            `json:"capacity"`
	BasePrice   float64        `json:"base_price"`
	Description *string        `json:"description,omitempty"`
	Amenities   map[string]any `json:"amenities,omitempty"`
	Active      bool           `json:"active"`
}

type RoomResponse struct {
	ID         string            `json:"id"`
	HotelID    string            `json:"hotel_id"`
	RoomTypeID string            `json:"room_type_id"`
	RoomNumber string            `json:"room_number"`
	Status     entity.RoomStatus `json:"status"`
	Active     bool              `json:"active"`
}

// RoomTypeAvailabilityResponse is one row of the per-type availability
// answer for a hotel and stay window.
type RoomTypeAvailabilityResponse struct {
	RoomTypeID string  `json:"room_type_id"`
	Name       string  `json:"name"`
	Capacity   int     `json:"capacity"`
	BasePrice  float64 `json:"base_price"`
	FreeRooms  int64   `json:"free_rooms"`
}

func HotelToResponse(hotel *entity.Hotel) HotelResponse {
	return HotelResponse{
		ID:          hotel.ID.String(),
		Name:        hotel.Name,
		City:        hotel.City,
		Country:     hotel.Country,
		Address:     hotel.Address,
		Description: hotel.Description,
		StarRating:  hotel.StarRating,
		Amenities:   hotel.Amenities,
	}
}

func HotelImageToResponse(img *entity.HotelImage) HotelImageResponse {
	return HotelImageResponse{
		ID:        img.ID.String(),
		URL:       img.URL,
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
	}
}

func RoomTypeToResponse(rt *entity.RoomType) RoomTypeResponse {
	return RoomTypeResponse{
		ID:          rt.ID.String(),
		HotelID:     rt.HotelID.String(),
		Name:        rt.Name,
		Capacity:    rt.Capacity,
		BasePrice:   rt.BasePrice,
		Description: rt.Description,
		Amenities:   rt.Amenities,
		Active:      rt.Active,
	}
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:         room.ID.String(),
		HotelID:    room.HotelID.String(),
		RoomTypeID: room.RoomTypeID.String(),
		RoomNumber: room.RoomNumber,
		Status:     room.Status,
		Active:     room.Active,
	}
}

func AvailabilityToResponse(a repository.RoomTypeAvailability) RoomTypeAvailabilityResponse {
	return RoomTypeAvailabilityResponse{
		RoomTypeID: a.RoomTypeID.String(),
		Name:       a.Name,
		Capacity:   a.Capacity,
		BasePrice:  a.BasePrice,
		FreeRooms:  a.FreeRooms,
	}
}
