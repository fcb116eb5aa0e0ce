package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *entity.Hotel) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error)
	FindAll(ctx context.Context, search, city string, limit, offset int) ([]*entity.Hotel, error)
	Count(ctx context.Context, search, city string) (int64, error)
	Update(ctx context.Context, hotel *entity.Hotel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindImages(ctx context.Context, hotelID uuid.UUID) ([]*entity.HotelImage, error)
}

type hotelRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHotelRepository(db database.PgxIface, log *zap.Logger) HotelRepository {
	return &hotelRepository{
		db:  db,
		log: log.With(zap.String("repository", "hotel")),
	}
}

const hotelColumns = `id, name, city, country, address, description, star_rating, amenities, created_at, updated_at`

func (r *hotelRepository) Create(ctx context.Context, hotel *entity.Hotel) error {
	query := `
		INSERT INTO hotels (` + hotelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.City,
		hotel.Country,
		hotel.Address,
		hotel.Description,
		hotel.StarRating,
		hotel.Amenities,
		hotel.CreatedAt,
		hotel.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create hotel",
			zap.Error(err),
			zap.String("name", hotel.Name),
		)
		return fmt.Errorf("create hotel %s: %w", hotel.Name, err)
	}

	return nil
}

func (r *hotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`

	hotel, err := scanHotel(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("hotel %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find hotel by ID",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return nil, fmt.Errorf("find hotel by ID %s: %w", id.String(), err)
	}

	return hotel, nil
}

func hotelSearchFilter(search, city string) (string, []any) {
	var sb strings.Builder
	var args []any

	if search != "" {
		args = append(args, "%"+search+"%")
		fmt.Fprintf(&sb, " AND (name ILIKE $%[1]d OR city ILIKE $%[1]d)", len(args))
	}
	if city != "" {
		args = append(args, "%"+city+"%")
		fmt.Fprintf(&sb, " AND city ILIKE $%d", len(args))
	}

	return sb.String(), args
}

func (r *hotelRepository) FindAll(ctx context.Context, search, city string, limit, offset int) ([]*entity.Hotel, error) {
	where, args := hotelSearchFilter(search, city)
	args = append(args, limit, offset)

	query := fmt.Sprintf(
		`SELECT `+hotelColumns+` FROM hotels WHERE 1=1%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list hotels", zap.Error(err))
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*entity.Hotel
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			r.log.Error("Failed to scan hotel row", zap.Error(err))
			return nil, fmt.Errorf("scan hotel row: %w", err)
		}
		hotels = append(hotels, hotel)
	}

	return hotels, rows.Err()
}

func (r *hotelRepository) Count(ctx context.Context, search, city string) (int64, error) {
	where, args := hotelSearchFilter(search, city)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hotels WHERE 1=1`+where, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count hotels", zap.Error(err))
		return 0, fmt.Errorf("count hotels: %w", err)
	}

	return count, nil
}

func (r *hotelRepository) Update(ctx context.Context, hotel *entity.Hotel) error {
	query := `
		UPDATE hotels
		SET name = $2, city = $3, country = $4, address = $5, description = $6,
		    star_rating = $7, amenities = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.City,
		hotel.Country,
		hotel.Address,
		hotel.Description,
		hotel.StarRating,
		hotel.Amenities,
		hotel.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update hotel",
			zap.Error(err),
			zap.String("hotel_id", hotel.ID.String()),
		)
		return fmt.Errorf("update hotel %s: %w", hotel.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s: %w", hotel.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *hotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Room types and rooms cascade; bookings RESTRICT, so a hotel with
	// booking history cannot be removed.
	tag, err := r.db.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("hotel %s has bookings: %w", id.String(), ErrConflict)
		}
		r.log.Error("Failed to delete hotel",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return fmt.Errorf("delete hotel %s: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Hotel deleted", zap.String("hotel_id", id.String()))
	return nil
}

func (r *hotelRepository) FindImages(ctx context.Context, hotelID uuid.UUID) ([]*entity.HotelImage, error) {
	query := `
		SELECT id, hotel_id, url, alt_text, is_primary, created_at
		FROM hotel_images
		WHERE hotel_id = $1
		ORDER BY is_primary DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, hotelID)
	if err != nil {
		r.log.Error("Failed to list hotel images",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("list images for hotel %s: %w", hotelID.String(), err)
	}
	defer rows.Close()

	var images []*entity.HotelImage
	for rows.Next() {
		var img entity.HotelImage
		if err := rows.Scan(&img.ID, &img.HotelID, &img.URL, &img.AltText, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hotel image row: %w", err)
		}
		images = append(images, &img)
	}

	return images, rows.Err()
}

func scanHotel(row pgx.Row) (*entity.Hotel, error) {
	var hotel entity.Hotel
	err := row.Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.City,
		&hotel.Country,
		&hotel.Address,
		&hotel.Description,
		&hotel.StarRating,
		&hotel.Amenities,
		&hotel.CreatedAt,
		&hotel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}
