package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// BlocksRoom reports whether a booking in this status occupies its room for
// the stay window. Cancelled and checked-out bookings release the room.
func (s BookingStatus) BlocksRoom() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn:
		return true
	}
	return false
}

// Editable reports whether dates and guest count may still change.
func (s BookingStatus) Editable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransitionTo validates the lifecycle state machine:
// pending → confirmed → checked_in → checked_out. Any non-cancelled status
// may move to cancelled except after checkout. Cancelled and checked_out
// are terminal.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCheckedIn || to == BookingStatusCancelled
	case BookingStatusCheckedIn:
		return to == BookingStatusCheckedOut || to == BookingStatusCancelled
	}
	return false
}

type Booking struct {
	Base
	BookedByUserID uuid.UUID     `db:"booked_by_user_id"`
	GuestUserID    *uuid.UUID    `db:"guest_user_id"`
	GuestName      *string       `db:"guest_name"`
	HotelID        uuid.UUID     `db:"hotel_id"`
	RoomTypeID     uuid.UUID     `db:"room_type_id"`
	RoomID         uuid.UUID     `db:"room_id"`
	CheckIn        time.Time     `db:"check_in"`
	CheckOut       time.Time     `db:"check_out"`
	Status         BookingStatus `db:"status"`
	NumGuests      int           `db:"num_guests"`
	TotalAmount    float64       `db:"total_amount"`
	Currency       string        `db:"currency"`
}

func (b *Booking) Window() Window {
	return Window{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// IsParty reports whether the given user is the guest or the original booker.
func (b *Booking) IsParty(userID uuid.UUID) bool {
	if b.BookedByUserID == userID {
		return true
	}
	return b.GuestUserID != nil && *b.GuestUserID == userID
}
