package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// maxAllocationAttempts bounds the optimistic retry loop when concurrent
// writers race for the same candidate rooms. Each lost race excludes the
// contested room and re-selects, so the loop only spins while other
// requests are actively claiming rooms of the same type.
const maxAllocationAttempts = 5

// BookingFilter narrows List/Count. ForUser matches bookings where the user
// is either the guest or the original booker.
type BookingFilter struct {
	ForUser *uuid.UUID
	HotelID *uuid.UUID
	Status  *entity.BookingStatus
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// RoomTypeAvailability is one row of the per-type free-room report for a
// hotel and stay window.
type RoomTypeAvailability struct {
	RoomTypeID uuid.UUID
	Name       string
	Capacity   int
	BasePrice  float64
	FreeRooms  int64
}

type BookingRepository interface {
	// CreateAllocated picks a free room for the booking's window and inserts
	// the booking in a single atomic step. On success booking.RoomID is set.
	// Returns ErrNoAvailability when no candidate exists and ErrConflict when
	// concurrent writers exhausted the retry budget. Nothing is persisted on
	// failure.
	CreateAllocated(ctx context.Context, booking *entity.Booking) error

	// Reallocate re-runs allocation for the booking's (possibly new) window
	// and updates room assignment, window and guest count atomically. The
	// booking's own row is ignored during the overlap check, so keeping the
	// current room across compatible windows is allowed.
	Reallocate(ctx context.Context, booking *entity.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	// UpdateStatus transitions the booking from one status to another and
	// appends the audit row in the same transaction. The update is
	// optimistic: if the booking is no longer in the expected from-status,
	// ErrConflict is returned and nothing changes.
	UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, from, to entity.BookingStatus, note *string) error

	// FindFreeRoom answers which room of the type, if any, is free for the
	// window. Candidates are active, available rooms ordered by id so the
	// answer is deterministic. Read-only; callers that need to claim the
	// room must go through CreateAllocated/Reallocate.
	FindFreeRoom(ctx context.Context, hotelID, roomTypeID uuid.UUID, window entity.Window) (uuid.UUID, error)

	// IsRoomFree reports whether the room has no non-cancelled booking
	// intersecting the window under half-open semantics.
	IsRoomFree(ctx context.Context, roomID uuid.UUID, window entity.Window) (bool, error)

	// FreeRoomCounts returns, per active room type of the hotel, how many
	// rooms are free for the window.
	FreeRoomCounts(ctx context.Context, hotelID uuid.UUID, window entity.Window) ([]RoomTypeAvailability, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booked_by_user_id, guest_user_id, guest_name, hotel_id, room_type_id, room_id,
	check_in, check_out, status, num_guests, total_amount, currency, created_at, updated_at`

// findFreeRoomQuery mirrors the structural exclusion constraint: a room is a
// candidate when it is active and available and no booking in a
// room-blocking status has a stay range intersecting the requested one.
// tstzrange(..., '[)') keeps the check half-open, so back-to-back stays
// touching on an endpoint do not conflict. ORDER BY r.id makes allocation
// deterministic for identical sequential inputs.
const findFreeRoomQuery = `
	SELECT r.id
	FROM rooms r
	WHERE r.hotel_id = $1
	  AND r.room_type_id = $2
	  AND r.active
	  AND r.status = 'available'
	  AND NOT (r.id = ANY($5::uuid[]))
	  AND NOT EXISTS (
	    SELECT 1 FROM bookings b
	    WHERE b.room_id = r.id
	      AND b.id <> $6
	      AND b.status IN ('pending','confirmed','checked_in')
	      AND tstzrange(b.check_in, b.check_out, '[)') && tstzrange($3, $4, '[)')
	  )
	ORDER BY r.id
	LIMIT 1
`

func (r *bookingRepository) findFreeRoom(ctx context.Context, hotelID, roomTypeID uuid.UUID, window entity.Window, excludedRooms []string, excludeBooking uuid.UUID) (uuid.UUID, error) {
	if excludedRooms == nil {
		excludedRooms = []string{}
	}

	var roomID uuid.UUID
	err := r.db.QueryRow(ctx, findFreeRoomQuery,
		hotelID, roomTypeID, window.CheckIn, window.CheckOut, excludedRooms, excludeBooking,
	).Scan(&roomID)

	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("hotel %s room type %s: %w", hotelID.String(), roomTypeID.String(), ErrNoAvailability)
	}
	if err != nil {
		r.log.Error("Failed to find free room",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
			zap.String("room_type_id", roomTypeID.String()),
		)
		return uuid.Nil, fmt.Errorf("find free room: %w", err)
	}

	return roomID, nil
}

func (r *bookingRepository) FindFreeRoom(ctx context.Context, hotelID, roomTypeID uuid.UUID, window entity.Window) (uuid.UUID, error) {
	return r.findFreeRoom(ctx, hotelID, roomTypeID, window, nil, uuid.Nil)
}

func (r *bookingRepository) IsRoomFree(ctx context.Context, roomID uuid.UUID, window entity.Window) (bool, error) {
	query := `
		SELECT NOT EXISTS (
		  SELECT 1 FROM bookings b
		  WHERE b.room_id = $1
		    AND b.status IN ('pending','confirmed','checked_in')
		    AND tstzrange(b.check_in, b.check_out, '[)') && tstzrange($2, $3, '[)')
		)
	`

	var free bool
	if err := r.db.QueryRow(ctx, query, roomID, window.CheckIn, window.CheckOut).Scan(&free); err != nil {
		r.log.Error("Failed to check room availability",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return false, fmt.Errorf("check room %s availability: %w", roomID.String(), err)
	}

	return free, nil
}

func (r *bookingRepository) CreateAllocated(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var lost []string
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		roomID, err := r.findFreeRoom(ctx, booking.HotelID, booking.RoomTypeID, booking.Window(), lost, uuid.Nil)
		if err != nil {
			return err
		}
		booking.RoomID = roomID

		_, err = r.db.Exec(ctx, query,
			booking.ID,
			booking.BookedByUserID,
			booking.GuestUserID,
			booking.GuestName,
			booking.HotelID,
			booking.RoomTypeID,
			booking.RoomID,
			booking.CheckIn,
			booking.CheckOut,
			booking.Status,
			booking.NumGuests,
			booking.TotalAmount,
			booking.Currency,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err == nil {
			return nil
		}

		// The exclusion constraint is the authoritative guard; losing it here
		// just means a concurrent writer claimed the room between selection
		// and insert. Exclude the room and pick the next candidate.
		if isExclusionViolation(err) {
			r.log.Warn("Lost allocation race, retrying with next room",
				zap.String("booking_id", booking.ID.String()),
				zap.String("room_id", roomID.String()),
				zap.Int("attempt", attempt+1),
			)
			lost = append(lost, roomID.String())
			continue
		}

		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("room_id", roomID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return fmt.Errorf("create booking %s: allocation retries exhausted: %w", booking.ID.String(), ErrConflict)
}

func (r *bookingRepository) Reallocate(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET room_id = $2, check_in = $3, check_out = $4, num_guests = $5, updated_at = $6
		WHERE id = $1 AND status IN ('pending','confirmed')
	`

	var lost []string
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		roomID, err := r.findFreeRoom(ctx, booking.HotelID, booking.RoomTypeID, booking.Window(), lost, booking.ID)
		if err != nil {
			return err
		}
		booking.RoomID = roomID

		tag, err := r.db.Exec(ctx, query,
			booking.ID,
			booking.RoomID,
			booking.CheckIn,
			booking.CheckOut,
			booking.NumGuests,
			booking.UpdatedAt,
		)
		if err == nil {
			if tag.RowsAffected() == 0 {
				// Status changed underneath us; the booking is no longer
				// editable.
				return fmt.Errorf("reallocate booking %s: %w", booking.ID.String(), ErrConflict)
			}
			return nil
		}

		if isExclusionViolation(err) {
			r.log.Warn("Lost reallocation race, retrying with next room",
				zap.String("booking_id", booking.ID.String()),
				zap.String("room_id", roomID.String()),
				zap.Int("attempt", attempt+1),
			)
			lost = append(lost, roomID.String())
			continue
		}

		r.log.Error("Failed to reallocate booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("reallocate booking %s: %w", booking.ID.String(), err)
	}

	return fmt.Errorf("reallocate booking %s: allocation retries exhausted: %w", booking.ID.String(), ErrConflict)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func buildBookingFilter(filter BookingFilter) (string, []any) {
	var sb strings.Builder
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND "+clause, len(args))
	}

	if filter.ForUser != nil {
		add("(guest_user_id = $%[1]d OR booked_by_user_id = $%[1]d)", *filter.ForUser)
	}
	if filter.HotelID != nil {
		add("hotel_id = $%d", *filter.HotelID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("check_in >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("check_out <= $%d", *filter.To)
	}

	return sb.String(), args
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	where, args := buildBookingFilter(filter)

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1` + where +
		` ORDER BY check_in DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := buildBookingFilter(filter)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE 1=1`+where, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, from, to entity.BookingStatus, note *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		bookingID, from, to,
	)
	if err != nil {
		if isExclusionViolation(err) {
			// A status change can only shrink the set of room-blocking
			// bookings, so the constraint firing here means the allocation
			// path was bypassed somewhere.
			r.log.Error("Overlap constraint rejected a status update",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
				zap.String("from", string(from)),
				zap.String("to", string(to)),
			)
			return fmt.Errorf("update booking %s status: %w", bookingID.String(), ErrInvariantViolation)
		}
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(to), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s no longer in status %s: %w", bookingID.String(), string(from), ErrConflict)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_status_log (id, booking_id, changed_by_user_id, from_status, to_status, note, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, uuid.New(), bookingID, actorID, from, to, note)
	if err != nil {
		r.log.Error("Failed to append status log",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("append status log for booking %s: %w", bookingID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status update for booking %s: %w", bookingID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FreeRoomCounts(ctx context.Context, hotelID uuid.UUID, window entity.Window) ([]RoomTypeAvailability, error) {
	query := `
		SELECT rt.id, rt.name, rt.capacity, rt.base_price, COUNT(r.id) AS free_rooms
		FROM room_types rt
		LEFT JOIN rooms r ON r.room_type_id = rt.id
		  AND r.active
		  AND r.status = 'available'
		  AND NOT EXISTS (
		    SELECT 1 FROM bookings b
		    WHERE b.room_id = r.id
		      AND b.status IN ('pending','confirmed','checked_in')
		      AND tstzrange(b.check_in, b.check_out, '[)') && tstzrange($2, $3, '[)')
		  )
		WHERE rt.hotel_id = $1 AND rt.active
		GROUP BY rt.id, rt.name, rt.capacity, rt.base_price
		ORDER BY rt.id
	`

	rows, err := r.db.Query(ctx, query, hotelID, window.CheckIn, window.CheckOut)
	if err != nil {
		r.log.Error("Failed to query free room counts",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("free room counts for hotel %s: %w", hotelID.String(), err)
	}
	defer rows.Close()

	var result []RoomTypeAvailability
	for rows.Next() {
		var a RoomTypeAvailability
		if err := rows.Scan(&a.RoomTypeID, &a.Name, &a.Capacity, &a.BasePrice, &a.FreeRooms); err != nil {
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		result = append(result, a)
	}

	return result, rows.Err()
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookedByUserID,
		&booking.GuestUserID,
		&booking.GuestName,
		&booking.HotelID,
		&booking.RoomTypeID,
		&booking.RoomID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.Status,
		&booking.NumGuests,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// isExclusionViolation matches the no_overlap_per_room exclusion constraint
// (SQLSTATE 23P01).
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// isForeignKeyViolation matches RESTRICT rejections (SQLSTATE 23503), e.g.
// deleting a room that bookings still reference.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isUniqueViolation matches SQLSTATE 23505, e.g. duplicate room numbers
// within a hotel.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
