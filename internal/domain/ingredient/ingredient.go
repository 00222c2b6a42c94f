package ingredient

import (
	"context"
	"time"
)

// Ingredient is one pantry item owned by a user, the raw input for plan
// generation.
type Ingredient struct {
	ID        int64
	UserEmail string
	Name      string
	Quantity  float64
	Unit      string
	CreatedAt time.Time
}

// Repository defines persistence for per-user ingredient sets.
type Repository interface {
	ListByUser(ctx context.Context, email string) ([]Ingredient, error)
	// ReplaceForUser swaps the user's entire ingredient set atomically.
	ReplaceForUser(ctx context.Context, email string, items []Ingredient) error
}
