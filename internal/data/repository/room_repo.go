package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*entity.Room, error)
	ListActiveOfType(ctx context.Context, hotelID, roomTypeID uuid.UUID) ([]*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `id, hotel_id, room_type_id, room_number, status, active, created_at, updated_at`

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	query := `
		INSERT INTO rooms (` + roomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		room.ID,
		room.HotelID,
		room.RoomTypeID,
		room.RoomNumber,
		room.Status,
		room.Active,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room number %s already exists in hotel %s: %w", room.RoomNumber, room.HotelID.String(), ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("hotel or room type for room %s: %w", room.RoomNumber, ErrNotFound)
		}
		r.log.Error("Failed to create room",
			zap.Error(err),
			zap.String("hotel_id", room.HotelID.String()),
			zap.String("room_number", room.RoomNumber),
		)
		return fmt.Errorf("create room %s: %w", room.RoomNumber, err)
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("room %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find room by ID",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return nil, fmt.Errorf("find room by ID %s: %w", id.String(), err)
	}

	return room, nil
}

func (r *roomRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 ORDER BY room_number`

	return r.queryRooms(ctx, query, hotelID)
}

func (r *roomRepository) ListActiveOfType(ctx context.Context, hotelID, roomTypeID uuid.UUID) ([]*entity.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE hotel_id = $1 AND room_type_id = $2 AND active AND status = 'available'
		ORDER BY id
	`

	return r.queryRooms(ctx, query, hotelID, roomTypeID)
}

func (r *roomRepository) queryRooms(ctx context.Context, query string, args ...any) ([]*entity.Room, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list rooms", zap.Error(err))
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	query := `
		UPDATE rooms
		SET room_type_id = $2, room_number = $3, status = $4, active = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		room.ID,
		room.RoomTypeID,
		room.RoomNumber,
		room.Status,
		room.Active,
		room.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room number %s already exists in hotel %s: %w", room.RoomNumber, room.HotelID.String(), ErrConflict)
		}
		r.log.Error("Failed to update room",
			zap.Error(err),
			zap.String("room_id", room.ID.String()),
		)
		return fmt.Errorf("update room %s: %w", room.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", room.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Bookings reference rooms with RESTRICT; a room that ever hosted a
	// booking stays for history and is retired via status/active instead.
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("room %s has bookings: %w", id.String(), ErrConflict)
		}
		r.log.Error("Failed to delete room",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return fmt.Errorf("delete room %s: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

func scanRoom(row pgx.Row) (*entity.Room, error) {
	var room entity.Room
	err := row.Scan(
		&room.ID,
		&room.HotelID,
		&room.RoomTypeID,
		&room.RoomNumber,
		&room.Status,
		&room.Active,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
