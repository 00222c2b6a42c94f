package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mealplan_delivery_service/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, name, phone, timezone, delivery_enabled, delivery_time, delivery_start_date, whatsapp_verified, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*user.Profile, error) {
	p := &user.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.Name, &p.Phone, &p.Timezone,
		&p.DeliveryEnabled, &p.DeliveryTime, &p.DeliveryStartDate,
		&p.WhatsAppVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	p, err := scanUser(r.db.QueryRowContext(ctx, query, user.NormalizeEmail(email)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return p, nil
}

func (r *PostgresUserRepository) ListDeliveryEnabled(ctx context.Context) ([]*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE delivery_enabled = TRUE ORDER BY email`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing delivery-enabled users: %w", err)
	}
	defer rows.Close()

	profiles := make([]*user.Profile, 0)
	for rows.Next() {
		p, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return profiles, nil
}

// UpdateScheduleFields applies a partial update of the delivery schedule
// settings and returns the refreshed profile. Nil fields are not touched.
func (r *PostgresUserRepository) UpdateScheduleFields(ctx context.Context, email string, fields user.ScheduleFields) (*user.Profile, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.DeliveryEnabled != nil {
		addSet("delivery_enabled", *fields.DeliveryEnabled)
	}
	if fields.DeliveryTime != nil {
		addSet("delivery_time", *fields.DeliveryTime)
	}
	if fields.DeliveryStartDate != nil {
		if *fields.DeliveryStartDate == "" {
			sets = append(sets, "delivery_start_date = NULL")
		} else {
			addSet("delivery_start_date", *fields.DeliveryStartDate)
		}
	}
	if fields.Timezone != nil {
		addSet("timezone", *fields.Timezone)
	}

	if len(sets) == 0 {
		return r.GetByEmail(ctx, email)
	}

	args = append(args, user.NormalizeEmail(email))
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE email = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))

	p, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user schedule fields: %w", err)
	}
	return p, nil
}
