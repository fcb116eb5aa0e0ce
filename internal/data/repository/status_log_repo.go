package repository

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusLogRepository is read-only: audit rows are written by
// BookingRepository.UpdateStatus inside the same transaction as the status
// change, and are never mutated afterwards.
type StatusLogRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingStatusLog, error)
}

type statusLogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStatusLogRepository(db database.PgxIface, log *zap.Logger) StatusLogRepository {
	return &statusLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "status_log")),
	}
}

func (r *statusLogRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingStatusLog, error) {
	query := `
		SELECT id, booking_id, changed_by_user_id, from_status, to_status, note, changed_at
		FROM booking_status_log
		WHERE booking_id = $1
		ORDER BY changed_at, id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to list status log",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list status log for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.BookingStatusLog
	for rows.Next() {
		var entry entity.BookingStatusLog
		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.ChangedByUserID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.Note,
			&entry.ChangedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan status log row", zap.Error(err))
			return nil, fmt.Errorf("scan status log row: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
