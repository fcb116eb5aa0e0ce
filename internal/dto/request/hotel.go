package request

type HotelRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=200"`
	City        string         `json:"city" validate:"required,min=1,max=100"`
	Country     string         `json:"country" validate:"required,min=1,max=100"`
	Address     *string        `json:"address,omitempty" validate:"omitempty,max=300"`
	Description *string        `json:"description,omitempty"`
	StarRating  *int           `json:"star_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Amenities   map[string]any `json:"amenities,omitempty"`
}

type HotelUpdateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	City        *string        `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Country     *string        `json:"country,omitempty" validate:"omitempty,min=1,max=100"`
	Address     *string        `json:"address,omitempty" validate:"omitempty,max=300"`
	Description *string        `json:"description,omitempty"`
	StarRating  *int           `json:"star_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Amenities   map[string]any `json:"amenities,omitempty"`
}

type RoomTypeRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=100"`
	Capacity    int            `json:"capacity" validate:"required,min=1,max=20"`
	BasePrice   float64        `json:"base_price" validate:"required,gt=0"`
	Description *string        `json:"description,omitempty"`
	Amenities   map[string]any `json:"amenities,omitempty"`
	Active      *bool          `json:"active,omitempty"`
}

type RoomTypeUpdateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity    *int           `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	BasePrice   *float64       `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	Description *string        `json:"description,omitempty"`
	Amenities   map[string]any `json:"amenities,omitempty"`
	Active      *bool          `json:"active,omitempty"`
}

type RoomRequest struct {
	RoomTypeID string `json:"room_type_id" validate:"required,uuid4"`
	RoomNumber string `json:"room_number" validate:"required,min=1,max=20"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=available maintenance inactive"`
}

type RoomUpdateRequest struct {
	RoomTypeID *string `json:"room_type_id,omitempty" validate:"omitempty,uuid4"`
	RoomNumber *string `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=available maintenance inactive"`
	Active     *bool   `json:"active,omitempty"`
}

// AvailabilityRequest carries the stay window for availability lookups.
// Dates accept either YYYY-MM-DD or full RFC 3339 timestamps.
type AvailabilityRequest struct {
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}
