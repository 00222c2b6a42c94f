package database

import (
	"context"
	"database/sql"
	"fmt"

	"mealplan_delivery_service/internal/domain/ingredient"
)

type PostgresIngredientRepository struct {
	db *sql.DB
}

func NewPostgresIngredientRepository(db *sql.DB) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{db: db}
}

func (r *PostgresIngredientRepository) ListByUser(ctx context.Context, email string) ([]ingredient.Ingredient, error) {
	query := `SELECT id, user_email, name, quantity, unit, created_at
               FROM ingredients WHERE user_email = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("error querying ingredients: %w", err)
	}
	defer rows.Close()

	items := make([]ingredient.Ingredient, 0)
	for rows.Next() {
		var it ingredient.Ingredient
		if err := rows.Scan(&it.ID, &it.UserEmail, &it.Name, &it.Quantity, &it.Unit, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning ingredient row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredient rows: %w", err)
	}
	return items, nil
}

// ReplaceForUser swaps the user's ingredient set in a single transaction.
func (r *PostgresIngredientRepository) ReplaceForUser(ctx context.Context, email string, items []ingredient.Ingredient) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for ingredient replace: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, `DELETE FROM ingredients WHERE user_email = $1`, email); err != nil {
		return fmt.Errorf("error clearing ingredients: %w", err)
	}

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO ingredients (user_email, name, quantity, unit)
                                         VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for ingredient replace: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, email, it.Name, it.Quantity, it.Unit); err != nil {
			return fmt.Errorf("error inserting ingredient %q: %w", it.Name, err)
		}
	}

	return txn.Commit()
}
