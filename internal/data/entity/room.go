package entity

import "github.com/google/uuid"

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusInactive    RoomStatus = "inactive"
)

// Room is a physical unit. Its identity is stable; only status and the
// active flag change over its lifetime.
type Room struct {
	Base
	HotelID    uuid.UUID  `db:"hotel_id"`
	RoomTypeID uuid.UUID  `db:"room_type_id"`
	RoomNumber string     `db:"room_number"` // unique within the hotel
	Status     RoomStatus `db:"status"`
	Active     bool       `db:"active"`
}

// Bookable reports whether the room can receive new assignments at all.
// Whether it is free for a given window is a separate question answered
// against the bookings table.
func (r *Room) Bookable() bool {
	return r.Active && r.Status == RoomStatusAvailable
}
