package app

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"mealplan_delivery_service/internal/domain/user"
)

// ErrInvalidScheduleField marks a rejected schedule-settings update.
var ErrInvalidScheduleField = fmt.Errorf("invalid schedule field")

// deliveryTimePattern requires the zero-padded form the dispatch evaluator
// compares against. time.Parse alone would accept "8:00", which can never
// match a formatted wall-clock minute.
var deliveryTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ScheduleService owns writes to the delivery schedule fields. The dispatch
// pipeline only ever reads them.
type ScheduleService struct {
	users user.Repository
}

func NewScheduleService(ur user.Repository) *ScheduleService {
	return &ScheduleService{users: ur}
}

// UpdateSchedule validates and applies a partial schedule update, returning
// the refreshed profile.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, email string, fields user.ScheduleFields) (*user.Profile, error) {
	if fields.DeliveryTime != nil {
		if !deliveryTimePattern.MatchString(*fields.DeliveryTime) {
			return nil, fmt.Errorf("%w: delivery_time must be zero-padded HH:MM", ErrInvalidScheduleField)
		}
		if _, err := time.Parse("15:04", *fields.DeliveryTime); err != nil {
			return nil, fmt.Errorf("%w: delivery_time must be HH:MM", ErrInvalidScheduleField)
		}
	}
	if fields.DeliveryStartDate != nil && *fields.DeliveryStartDate != "" {
		if _, err := time.Parse("2006-01-02", *fields.DeliveryStartDate); err != nil {
			return nil, fmt.Errorf("%w: delivery_start_date must be YYYY-MM-DD", ErrInvalidScheduleField)
		}
	}
	if fields.Timezone != nil {
		if _, err := time.LoadLocation(*fields.Timezone); err != nil {
			return nil, fmt.Errorf("%w: timezone must be a valid IANA zone name", ErrInvalidScheduleField)
		}
	}

	return s.users.UpdateScheduleFields(ctx, email, fields)
}
