package plangen

import (
	"context"

	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"
)

// Generator produces a full day's meal plan from a user's ingredient set.
// Implementations must return a non-empty plan or an error; the dispatch
// pipeline treats any error as a generation failure and aborts for that user
// this cycle without retrying.
type Generator interface {
	Generate(ctx context.Context, items []ingredient.Ingredient) (*mealplan.Plan, error)
}
