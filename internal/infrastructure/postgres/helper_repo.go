package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/jackc/pgx/v5"
)

type HelperRepository struct {
	pool Pool
}

func NewHelperRepository(pool Pool) *HelperRepository {
	return &HelperRepository{pool: pool}
}

const helperColumns = `id, name, mail, password_hash, nickname, phone_number, relationship, created_at, updated_at`

func (r *HelperRepository) FindByID(ctx context.Context, id string) (*domain.Helper, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+helperColumns+` FROM helpers WHERE id = $1`, id)
	return scanHelper(row)
}

func (r *HelperRepository) FindByMail(ctx context.Context, mail string) (*domain.Helper, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+helperColumns+` FROM helpers WHERE mail = $1`, mail)
	return scanHelper(row)
}

func (r *HelperRepository) Create(ctx context.Context, input repository.CreateHelperInput) (*domain.Helper, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO helpers (name, mail, password_hash, nickname, phone_number, relationship)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+helperColumns,
		input.Name, input.Mail, input.Password, input.Nickname, input.PhoneNumber, input.Relationship)

	helper, err := scanHelper(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateMail
		}
		return nil, err
	}
	return helper, nil
}

func scanHelper(row rowScanner) (*domain.Helper, error) {
	var h domain.Helper
	err := row.Scan(
		&h.ID, &h.Name, &h.Mail, &h.PasswordHash, &h.Nickname,
		&h.PhoneNumber, &h.Relationship, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHelperNotFound
		}
		return nil, fmt.Errorf("scan helper: %w", err)
	}
	return &h, nil
}
