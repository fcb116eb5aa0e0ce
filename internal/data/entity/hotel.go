package entity

import "github.com/google/uuid"

type Hotel struct {
	Base
	Name        string         `db:"name"`
	City        string         `db:"city"`
	Country     string         `db:"country"`
	Address     *string        `db:"address"`
	Description *string        `db:"description"`
	StarRating  *int           `db:"star_rating"`
	Amenities   map[string]any `db:"amenities"`
}

type HotelImage struct {
	BaseSimple
	HotelID   uuid.UUID `db:"hotel_id"`
	URL       string    `db:"url"`
	AltText   *string   `db:"alt_text"`
	IsPrimary bool      `db:"is_primary"`
}
