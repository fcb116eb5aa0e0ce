package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// HotelOccupancy is one row of the v_hotel_occupancy view: room counts per
// hotel and a coarse status label for dashboards.
type HotelOccupancy struct {
	HotelID        uuid.UUID
	Name           string
	AvailableRooms int64
	TotalRooms     int64
	Status         string
}

// UserHotelBookingCount is one row of v_user_booking_counts_per_hotel:
// non-cancelled bookings a user holds at a hotel.
type UserHotelBookingCount struct {
	UserID   uuid.UUID
	HotelID  uuid.UUID
	Bookings int64
}

// ReportRepository serves the read-only aggregations. All queries go
// through SQL views so the reporting surface cannot drift from the booking
// data it summarizes.
type ReportRepository interface {
	HotelOccupancies(ctx context.Context) ([]*HotelOccupancy, error)
	HotelOccupancyByID(ctx context.Context, hotelID uuid.UUID) (*HotelOccupancy, error)
	UserBookingCount(ctx context.Context, userID, hotelID uuid.UUID) (int64, error)
	UserBookingCounts(ctx context.Context, userID uuid.UUID) ([]*UserHotelBookingCount, error)
}

type reportRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReportRepository(db database.PgxIface, log *zap.Logger) ReportRepository {
	return &reportRepository{
		db:  db,
		log: log.With(zap.String("repository", "report")),
	}
}

const occupancyColumns = `hotel_id, name, total_available_rooms, total_rooms, hotel_status`

func (r *reportRepository) HotelOccupancies(ctx context.Context) ([]*HotelOccupancy, error) {
	query := `SELECT ` + occupancyColumns + ` FROM v_hotel_occupancy ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query hotel occupancy", zap.Error(err))
		return nil, fmt.Errorf("hotel occupancy: %w", err)
	}
	defer rows.Close()

	var occupancies []*HotelOccupancy
	for rows.Next() {
		var o HotelOccupancy
		if err := rows.Scan(&o.HotelID, &o.Name, &o.AvailableRooms, &o.TotalRooms, &o.Status); err != nil {
			return nil, fmt.Errorf("scan occupancy row: %w", err)
		}
		occupancies = append(occupancies, &o)
	}

	return occupancies, rows.Err()
}

func (r *reportRepository) HotelOccupancyByID(ctx context.Context, hotelID uuid.UUID) (*HotelOccupancy, error) {
	query := `SELECT ` + occupancyColumns + ` FROM v_hotel_occupancy WHERE hotel_id = $1`

	var o HotelOccupancy
	err := r.db.QueryRow(ctx, query, hotelID).Scan(&o.HotelID, &o.Name, &o.AvailableRooms, &o.TotalRooms, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("hotel %s: %w", hotelID.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to query hotel occupancy",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("occupancy for hotel %s: %w", hotelID.String(), err)
	}

	return &o, nil
}

func (r *reportRepository) UserBookingCount(ctx context.Context, userID, hotelID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(bookings_count, 0)
		FROM v_user_booking_counts_per_hotel
		WHERE user_id = $1 AND hotel_id = $2
	`

	var count int64
	err := r.db.QueryRow(ctx, query, userID, hotelID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to query user booking count",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("hotel_id", hotelID.String()),
		)
		return 0, fmt.Errorf("booking count for user %s at hotel %s: %w", userID.String(), hotelID.String(), err)
	}

	return count, nil
}

func (r *reportRepository) UserBookingCounts(ctx context.Context, userID uuid.UUID) ([]*UserHotelBookingCount, error) {
	query := `
		SELECT user_id, hotel_id, bookings_count
		FROM v_user_booking_counts_per_hotel
		WHERE user_id = $1
		ORDER BY hotel_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to query user booking counts",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("booking counts for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var counts []*UserHotelBookingCount
	for rows.Next() {
		var c UserHotelBookingCount
		if err := rows.Scan(&c.UserID, &c.HotelID, &c.Bookings); err != nil {
			return nil, fmt.Errorf("scan booking count row: %w", err)
		}
		counts = append(counts, &c)
	}

	return counts, rows.Err()
}
