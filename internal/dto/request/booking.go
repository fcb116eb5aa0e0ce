package request

type CreateBookingRequest struct {
	HotelID    string `json:"hotel_id" validate:"required,uuid4"`
	RoomTypeID string `json:"room_type_id" validate:"required,uuid4"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
	NumGuests  int    `json:"num_guests" validate:"required,min=1"`

	// The stay total is quoted upstream and accepted as-is. Currency
	// defaults from config when omitted.
	TotalAmount float64 `json:"total_amount" validate:"gte=0"`
	Currency    string  `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`

	// Admins may book on behalf of another registered user or a walk-in
	// guest known only by name. Mutually exclusive; both empty means the
	// caller books for themselves.
	GuestUserID *string `json:"guest_user_id,omitempty" validate:"omitempty,uuid4"`
	GuestName   *string `json:"guest_name,omitempty" validate:"omitempty,min=1,max=120"`
}

// RescheduleBookingRequest edits are partial: omitted dates keep the
// booking's current values, so a guest-count-only change is valid.
type RescheduleBookingRequest struct {
	CheckIn   string `json:"check_in,omitempty"`
	CheckOut  string `json:"check_out,omitempty"`
	NumGuests *int   `json:"num_guests,omitempty" validate:"omitempty,min=1"`
}

type TransitionStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed checked_in checked_out cancelled"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	HotelID string `json:"hotel_id,omitempty" validate:"omitempty,uuid4"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}
