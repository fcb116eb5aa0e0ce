package entity

import "github.com/google/uuid"

type RoomType struct {
	Base
	HotelID     uuid.UUID      `db:"hotel_id"`
	Name        string         `db:"name"`
	Capacity    int            `db:"capacity"`
	BasePrice   float64        `db:"base_price"`
	Description *string        `db:"description"`
	Amenities   map[string]any `db:"amenities"`
	Active      bool           `db:"active"`
}
