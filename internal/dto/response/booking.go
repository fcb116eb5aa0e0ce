package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type BookingResponse struct {
	ID             string               `json:"id"`
	BookedByUserID string               `json:"booked_by_user_id"`
	GuestUserID    *string              `json:"guest_user_id,omitempty"`
	GuestName      *string              `json:"guest_name,omitempty"`
	HotelID        string               `json:"hotel_id"`
	RoomTypeID     string               `json:"room_type_id"`
	RoomID         string               `json:"room_id"`
	CheckIn        time.Time            `json:"check_in"`
	CheckOut       time.Time            `json:"check_out"`
	Nights         int                  `json:"nights"`
	Status         entity.BookingStatus `json:"status"`
	NumGuests      int                  `json:"num_guests"`
	TotalAmount    float64              `json:"total_amount"`
	Currency       string               `json:"currency"`
	CreatedAt      time.Time            `json:"created_at"`
}

type StatusLogResponse struct {
	ID              string                `json:"id"`
	ChangedByUserID string                `json:"changed_by_user_id"`
	FromStatus      *entity.BookingStatus `json:"from_status,omitempty"`
	ToStatus        entity.BookingStatus  `json:"to_status"`
	Note            *string               `json:"note,omitempty"`
	ChangedAt       time.Time             `json:"changed_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	History []StatusLogResponse `json:"history"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	var guestUserID *string
	if b.GuestUserID != nil {
		s := b.GuestUserID.String()
		guestUserID = &s
	}

	return BookingResponse{
		ID:             b.ID.String(),
		BookedByUserID: b.BookedByUserID.String(),
		GuestUserID:    guestUserID,
		GuestName:      b.GuestName,
		HotelID:        b.HotelID.String(),
		RoomTypeID:     b.RoomTypeID.String(),
		RoomID:         b.RoomID.String(),
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
		Nights:         b.Window().Nights(),
		Status:         b.Status,
		NumGuests:      b.NumGuests,
		TotalAmount:    b.TotalAmount,
		Currency:       b.Currency,
		CreatedAt:      b.CreatedAt,
	}
}

func StatusLogToResponse(l *entity.BookingStatusLog) StatusLogResponse {
	return StatusLogResponse{
		ID:              l.ID.String(),
		ChangedByUserID: l.ChangedByUserID.String(),
		FromStatus:      l.FromStatus,
		ToStatus:        l.ToStatus,
		Note:            l.Note,
		ChangedAt:       l.ChangedAt,
	}
}
