package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/carelink/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ConnectionRepository backs the connect lifecycle. The schema carries a
// partial unique index
//
//	CREATE UNIQUE INDEX connections_active_pair
//	ON connections (user_id, helper_id) WHERE is_deleted = false
//
// so at most one live row can exist per pair no matter how many requests
// race; the insert that loses reports 23505 and is translated here.
type ConnectionRepository struct {
	pool Pool
}

func NewConnectionRepository(pool Pool) *ConnectionRepository {
	return &ConnectionRepository{pool: pool}
}

const connectionColumns = `id, user_id, helper_id, status, is_deleted, deleted_at, deleted_by, created_at, updated_at`

func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*domain.Connection, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	return scanConnection(row)
}

func (r *ConnectionRepository) FindActiveByUserAndHelper(ctx context.Context, userID, helperID string) (*domain.Connection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		WHERE user_id = $1 AND helper_id = $2 AND is_deleted = false`,
		userID, helperID)
	return scanConnection(row)
}

func (r *ConnectionRepository) FindPendingByHelper(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.helper_id, c.status, c.is_deleted,
		       c.deleted_at, c.deleted_by, c.created_at, c.updated_at,
		       u.id, u.name, u.mail
		FROM connections c
		JOIN users u ON u.id = c.user_id
		WHERE c.helper_id = $1 AND c.status = 'pending' AND c.is_deleted = false
		ORDER BY c.created_at DESC`, helperID)
	if err != nil {
		return nil, fmt.Errorf("list pending connections: %w", err)
	}
	defer rows.Close()
	return collectWithParty(rows)
}

func (r *ConnectionRepository) FindApprovedByUser(ctx context.Context, userID string) ([]*domain.ConnectionWithParty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.helper_id, c.status, c.is_deleted,
		       c.deleted_at, c.deleted_by, c.created_at, c.updated_at,
		       h.id, h.name, h.mail
		FROM connections c
		JOIN helpers h ON h.id = c.helper_id
		WHERE c.user_id = $1 AND c.status = 'approved' AND c.is_deleted = false
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list approved connections by user: %w", err)
	}
	defer rows.Close()
	return collectWithParty(rows)
}

func (r *ConnectionRepository) FindApprovedByHelper(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.helper_id, c.status, c.is_deleted,
		       c.deleted_at, c.deleted_by, c.created_at, c.updated_at,
		       u.id, u.name, u.mail
		FROM connections c
		JOIN users u ON u.id = c.user_id
		WHERE c.helper_id = $1 AND c.status = 'approved' AND c.is_deleted = false
		ORDER BY c.created_at DESC`, helperID)
	if err != nil {
		return nil, fmt.Errorf("list approved connections by helper: %w", err)
	}
	defer rows.Close()
	return collectWithParty(rows)
}

func (r *ConnectionRepository) Create(ctx context.Context, userID, helperID string) (*domain.Connection, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO connections (user_id, helper_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING `+connectionColumns,
		userID, helperID)

	conn, err := scanConnection(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyRequested
		}
		return nil, err
	}
	return conn, nil
}

func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error {
	// Conditional on pending: a raced double-approve affects zero rows
	// instead of clobbering the first transition.
	tag, err := r.pool.Exec(ctx, `
		UPDATE connections
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND is_deleted = false`,
		id, status)
	if err != nil {
		return fmt.Errorf("update connection status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveConditionalMiss(ctx, id)
	}
	return nil
}

func (r *ConnectionRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE connections
		SET is_deleted = true, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false`,
		id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveConditionalMiss(ctx, id)
	}
	return nil
}

// resolveConditionalMiss distinguishes "row never existed" from "row exists
// but the guarded condition no longer holds".
func (r *ConnectionRepository) resolveConditionalMiss(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyResolved
}

func scanConnection(row rowScanner) (*domain.Connection, error) {
	var c domain.Connection
	err := row.Scan(
		&c.ID, &c.UserID, &c.HelperID, &c.Status, &c.IsDeleted,
		&c.DeletedAt, &c.DeletedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("scan connection: %w", err)
	}
	return &c, nil
}

func collectWithParty(rows pgx.Rows) ([]*domain.ConnectionWithParty, error) {
	var out []*domain.ConnectionWithParty
	for rows.Next() {
		var c domain.ConnectionWithParty
		err := rows.Scan(
			&c.ID, &c.UserID, &c.HelperID, &c.Status, &c.IsDeleted,
			&c.DeletedAt, &c.DeletedBy, &c.CreatedAt, &c.UpdatedAt,
			&c.Party.ID, &c.Party.Name, &c.Party.Mail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan connection with party: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}
	return out, nil
}
