package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusLog is an append-only audit entry. Rows are written whenever
// a booking's status changes (never for the initial insert) and are never
// mutated or deleted afterwards.
type BookingStatusLog struct {
	ID              uuid.UUID      `db:"id"`
	BookingID       uuid.UUID      `db:"booking_id"`
	ChangedByUserID uuid.UUID      `db:"changed_by_user_id"`
	FromStatus      *BookingStatus `db:"from_status"`
	ToStatus        BookingStatus  `db:"to_status"`
	Note            *string        `db:"note"`
	ChangedAt       time.Time      `db:"changed_at"`
}
