package model

import "time"

// Checkin logs a single gym visit, stored in the `checkins` table.
// Rows are append-only; they are never mutated or deleted.
type Checkin struct {
	ID        uint64    // checkins.id
	UserID    uint64    // checkins.usuario_id
	CheckinAt time.Time // checkins.data_checkin
}
