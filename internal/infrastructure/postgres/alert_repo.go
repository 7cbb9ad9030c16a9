package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/jackc/pgx/v5"
)

type AlertRepository struct {
	pool Pool
}

func NewAlertRepository(pool Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

const alertColumns = `id, user_id, title, description, importance, alert_type,
	checked_by_user_at, checked_by_helper_at, checked_by_helper_id, escalated_at,
	created_at, updated_at`

func (r *AlertRepository) FindByID(ctx context.Context, id string) (*domain.Alert, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	return scanAlert(row)
}

func (r *AlertRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts by user: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepository) FindByHelper(ctx context.Context, helperID string) ([]*domain.Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM alerts a
		WHERE a.user_id IN (
			SELECT user_id FROM connections
			WHERE helper_id = $1 AND status = 'approved' AND is_deleted = false
		)
		ORDER BY a.created_at DESC`, helperID)
	if err != nil {
		return nil, fmt.Errorf("list alerts by helper: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepository) Create(ctx context.Context, input repository.CreateAlertInput) (*domain.Alert, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO alerts (user_id, title, description, importance, alert_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+alertColumns,
		input.UserID, input.Title, input.Description, input.Importance, input.AlertType)
	return scanAlert(row)
}

func (r *AlertRepository) MarkCheckedByUser(ctx context.Context, alertID, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE alerts
		SET checked_by_user_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND checked_by_user_at IS NULL`,
		alertID, userID)
	if err != nil {
		return fmt.Errorf("mark alert checked by user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already acknowledged or not this user's alert; both are no-ops
		// as long as the alert exists.
		_, err := r.FindByID(ctx, alertID)
		return err
	}
	return nil
}

func (r *AlertRepository) MarkCheckedByHelper(ctx context.Context, alertID, helperID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE alerts
		SET checked_by_helper_at = NOW(), checked_by_helper_id = $2, updated_at = NOW()
		WHERE id = $1 AND checked_by_helper_at IS NULL`,
		alertID, helperID)
	if err != nil {
		return fmt.Errorf("mark alert checked by helper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		_, err := r.FindByID(ctx, alertID)
		return err
	}
	return nil
}

func (r *AlertRepository) FindUnescalated(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE created_at < $1
		  AND checked_by_helper_at IS NULL
		  AND escalated_at IS NULL
		ORDER BY created_at ASC
		LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list unescalated alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepository) MarkEscalated(ctx context.Context, alertID string) (bool, error) {
	// Conditional on NULL so two sweeps racing on the same alert send at
	// most one round of emails.
	tag, err := r.pool.Exec(ctx, `
		UPDATE alerts
		SET escalated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND escalated_at IS NULL`, alertID)
	if err != nil {
		return false, fmt.Errorf("mark alert escalated: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID, &a.UserID, &a.Title, &a.Description, &a.Importance, &a.AlertType,
		&a.CheckedByUserAt, &a.CheckedByHelperAt, &a.CheckedByHelperID, &a.EscalatedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return &a, nil
}

func collectAlerts(rows pgx.Rows) ([]*domain.Alert, error) {
	var out []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}
