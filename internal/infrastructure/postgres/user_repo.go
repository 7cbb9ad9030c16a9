package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	pool Pool
}

func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, mail, password_hash, age, icon, address, comment, created_at, updated_at`

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByMail(ctx context.Context, mail string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE mail = $1`, mail)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, input repository.CreateUserInput) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, mail, password_hash, age, icon, address, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		input.Name, input.Mail, input.Password, input.Age, input.Icon, input.Address, input.Comment)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateMail
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Mail, &u.PasswordHash, &u.Age, &u.Icon,
		&u.Address, &u.Comment, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
