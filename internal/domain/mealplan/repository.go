package mealplan

import (
	"context"
	"time"
)

// Repository defines the plan store. It is the only component allowed to
// mutate Record rows; callers re-read current state on every decision instead
// of holding records across iterations.
type Repository interface {
	// FindForDay looks up the record for (email, day). Returns
	// database.ErrPlanNotFound when no record exists.
	FindForDay(ctx context.Context, email string, day time.Time) (*Record, error)

	// Create inserts a new record and fills in ID and CreatedAt. Returns
	// database.ErrDuplicatePlan when a record for (email, day) already
	// exists; callers treat that as "someone else is handling this day".
	Create(ctx context.Context, rec *Record) error

	// MarkSent sets the sent marker. Idempotent: marking an already-sent
	// record again leaves the original timestamp in place.
	MarkSent(ctx context.Context, recordID int64, sentAt time.Time) error
}
