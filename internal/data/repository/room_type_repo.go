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

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *entity.RoomType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error)
	FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*entity.RoomType, error)
	Update(ctx context.Context, roomType *entity.RoomType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomTypeRepository(db database.PgxIface, log *zap.Logger) RoomTypeRepository {
	return &roomTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "room_type")),
	}
}

const roomTypeColumns = `id, hotel_id, name, capacity, base_price, description, amenities, active, created_at, updated_at`

func (r *roomTypeRepository) Create(ctx context.Context, roomType *entity.RoomType) error {
	query := `
		INSERT INTO room_types (` + roomTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		roomType.ID,
		roomType.HotelID,
		roomType.Name,
		roomType.Capacity,
		roomType.BasePrice,
		roomType.Description,
		roomType.Amenities,
		roomType.Active,
		roomType.CreatedAt,
		roomType.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("hotel %s: %w", roomType.HotelID.String(), ErrNotFound)
		}
		r.log.Error("Failed to create room type",
			zap.Error(err),
			zap.String("hotel_id", roomType.HotelID.String()),
			zap.String("name", roomType.Name),
		)
		return fmt.Errorf("create room type %s: %w", roomType.Name, err)
	}

	return nil
}

func (r *roomTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error) {
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = $1`

	roomType, err := scanRoomType(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("room type %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find room type by ID",
			zap.Error(err),
			zap.String("room_type_id", id.String()),
		)
		return nil, fmt.Errorf("find room type by ID %s: %w", id.String(), err)
	}

	return roomType, nil
}

func (r *roomTypeRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*entity.RoomType, error) {
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE hotel_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, hotelID)
	if err != nil {
		r.log.Error("Failed to list room types",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("list room types for hotel %s: %w", hotelID.String(), err)
	}
	defer rows.Close()

	var roomTypes []*entity.RoomType
	for rows.Next() {
		roomType, err := scanRoomType(rows)
		if err != nil {
			r.log.Error("Failed to scan room type row", zap.Error(err))
			return nil, fmt.Errorf("scan room type row: %w", err)
		}
		roomTypes = append(roomTypes, roomType)
	}

	return roomTypes, rows.Err()
}

func (r *roomTypeRepository) Update(ctx context.Context, roomType *entity.RoomType) error {
	query := `
		UPDATE room_types
		SET name = $2, capacity = $3, base_price = $4, description = $5,
		    amenities = $6, active = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		roomType.ID,
		roomType.Name,
		roomType.Capacity,
		roomType.BasePrice,
		roomType.Description,
		roomType.Amenities,
		roomType.Active,
		roomType.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update room type",
			zap.Error(err),
			zap.String("room_type_id", roomType.ID.String()),
		)
		return fmt.Errorf("update room type %s: %w", roomType.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room type %s: %w", roomType.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *roomTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Bookings reference room types with RESTRICT; history wins over
	// deletion. Soft-disable via the active flag instead.
	tag, err := r.db.Exec(ctx, `DELETE FROM room_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("room type %s has bookings: %w", id.String(), ErrConflict)
		}
		r.log.Error("Failed to delete room type",
			zap.Error(err),
			zap.String("room_type_id", id.String()),
		)
		return fmt.Errorf("delete room type %s: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room type %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Room type deleted", zap.String("room_type_id", id.String()))
	return nil
}

func scanRoomType(row pgx.Row) (*entity.RoomType, error) {
	var roomType entity.RoomType
	err := row.Scan(
		&roomType.ID,
		&roomType.HotelID,
		&roomType.Name,
		&roomType.Capacity,
		&roomType.BasePrice,
		&roomType.Description,
		&roomType.Amenities,
		&roomType.Active,
		&roomType.CreatedAt,
		&roomType.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}
