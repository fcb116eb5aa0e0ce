package repository

import (
	"hotel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Hotel     HotelRepository
	RoomType  RoomTypeRepository
	Room      RoomRepository
	Booking   BookingRepository
	StatusLog StatusLogRepository
	Report    ReportRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Hotel:     NewHotelRepository(db, log),
		RoomType:  NewRoomTypeRepository(db, log),
		Room:      NewRoomRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		StatusLog: NewStatusLogRepository(db, log),
		Report:    NewReportRepository(db, log),
	}
}
