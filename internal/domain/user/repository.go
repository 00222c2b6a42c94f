package user

import (
	"context"
)

// ScheduleFields carries a partial update of a profile's delivery settings.
// Nil fields are left untouched. Validation happens in the application layer;
// the repository persists what it is given.
type ScheduleFields struct {
	DeliveryEnabled   *bool
	DeliveryTime      *string // HH:MM
	DeliveryStartDate *string // YYYY-MM-DD
	Timezone          *string
}

// Repository defines the operations for retrieving and updating user profiles.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	ListDeliveryEnabled(ctx context.Context) ([]*Profile, error)
	UpdateScheduleFields(ctx context.Context, email string, fields ScheduleFields) (*Profile, error)
}
