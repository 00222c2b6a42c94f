// internal/infra/database/postgres_mealplan_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealplan_delivery_service/internal/domain/mealplan"
)

// Custom errors specific to the plan store
var ErrPlanNotFound = fmt.Errorf("meal plan record not found")
var ErrDuplicatePlan = fmt.Errorf("duplicate meal plan record (user_email, plan_date)")

type PostgresMealPlanRepository struct {
	db *sql.DB
}

func NewPostgresMealPlanRepository(db *sql.DB) *PostgresMealPlanRepository {
	return &PostgresMealPlanRepository{db: db}
}

// FindForDay returns the record for (email, day), keyed on the calendar date
// only. Exact-key lookup, no side effects.
func (r *PostgresMealPlanRepository) FindForDay(ctx context.Context, email string, day time.Time) (*mealplan.Record, error) {
	query := `SELECT id, user_email, plan_date, content, origin, sent_at, created_at
               FROM meal_plans
               WHERE user_email = $1 AND plan_date = $2`
	dateOnly := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	rec := mealplan.Record{}
	var content []byte
	err := r.db.QueryRowContext(ctx, query, email, dateOnly).Scan(
		&rec.ID, &rec.UserEmail, &rec.PlanDate, &content, &rec.Origin, &rec.SentAt, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting meal plan record: %w", err)
	}
	if err := json.Unmarshal(content, &rec.Content); err != nil {
		return nil, fmt.Errorf("error decoding meal plan content: %w", err)
	}
	return &rec, nil
}

// Create inserts a new plan record. The meal_plans_user_date_unique
// constraint turns a concurrent duplicate insert into ErrDuplicatePlan, which
// the dispatch layer treats as "someone else is handling this day".
func (r *PostgresMealPlanRepository) Create(ctx context.Context, rec *mealplan.Record) error {
	content, err := json.Marshal(rec.Content)
	if err != nil {
		return fmt.Errorf("error encoding meal plan content: %w", err)
	}

	query := `INSERT INTO meal_plans (user_email, plan_date, content, origin)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	dateOnly := time.Date(rec.PlanDate.Year(), rec.PlanDate.Month(), rec.PlanDate.Day(), 0, 0, 0, 0, time.UTC)
	err = r.db.QueryRowContext(ctx, query, rec.UserEmail, dateOnly, content, rec.Origin).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "meal_plans_user_date_unique") { // Check for unique constraint violation
			return ErrDuplicatePlan
		}
		return fmt.Errorf("error creating meal plan record: %w", err)
	}
	rec.PlanDate = dateOnly
	return nil
}

// MarkSent sets the sent marker. COALESCE keeps the first timestamp when the
// marker is set twice, so the call is idempotent.
func (r *PostgresMealPlanRepository) MarkSent(ctx context.Context, recordID int64, sentAt time.Time) error {
	query := `UPDATE meal_plans SET sent_at = COALESCE(sent_at, $1) WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, sentAt, recordID)
	if err != nil {
		return fmt.Errorf("error marking meal plan record sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking mark-sent result: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
