package mealplan

import (
	"database/sql"
	"time"
)

// IngredientLine is one ingredient as used inside a recipe.
type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is one meal's worth of generated content.
type Recipe struct {
	Name            string           `json:"recipe_name"`
	IngredientsUsed []IngredientLine `json:"ingredients_used"`
	Steps           []string         `json:"steps"`
	PrepTime        string           `json:"prep_time,omitempty"`
	CookTime        string           `json:"cook_time,omitempty"`
	Calories        string           `json:"calories,omitempty"`
}

// Plan is a full day's generated meal plan.
type Plan struct {
	Breakfast Recipe `json:"breakfast"`
	Lunch     Recipe `json:"lunch"`
	Dinner    Recipe `json:"dinner"`
}

// Empty reports whether no meal carries any content. A plan like this is
// unusable and must not be persisted or sent.
func (p Plan) Empty() bool {
	return p.Breakfast.Name == "" && p.Lunch.Name == "" && p.Dinner.Name == ""
}

// Record is the per-user, per-local-calendar-day plan row.
// (UserEmail, PlanDate) is the idempotency key; the table enforces it with a
// unique constraint. SentAt present means the messaging step has completed
// successfully for this record.
type Record struct {
	ID        int64
	UserEmail string
	PlanDate  time.Time // local calendar date, normalized to midnight UTC
	Content   Plan
	Origin    string // which caller created it: "scheduler", "api_run", "api_send"
	SentAt    sql.NullTime
	CreatedAt time.Time
}
