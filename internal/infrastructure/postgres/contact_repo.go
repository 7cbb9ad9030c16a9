package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/jackc/pgx/v5"
)

type ContactRepository struct {
	pool Pool
}

func NewContactRepository(pool Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `user_id, helper_id, name, relationship, phone_number, mail, address, is_main, created_at, updated_at`

func (r *ContactRepository) FindByUser(ctx context.Context, userID string) ([]*domain.EmergencyContact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY is_main DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts by user: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *ContactRepository) FindByHelper(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM emergency_contacts
		WHERE helper_id = $1
		ORDER BY is_main DESC, created_at ASC`, helperID)
	if err != nil {
		return nil, fmt.Errorf("list contacts by helper: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *ContactRepository) FindByUserAndHelper(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM emergency_contacts
		WHERE user_id = $1 AND helper_id = $2`, userID, helperID)
	return scanContact(row)
}

func (r *ContactRepository) Create(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO emergency_contacts (user_id, helper_id, name, relationship, phone_number, mail, address, is_main)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contactColumns,
		contact.UserID, contact.HelperID, contact.Name, contact.Relationship,
		contact.PhoneNumber, contact.Mail, contact.Address, contact.IsMain)

	created, err := scanContact(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateContact
		}
		return nil, err
	}
	return created, nil
}

func (r *ContactRepository) Update(ctx context.Context, userID, helperID string, input repository.UpdateContactInput) (*domain.EmergencyContact, error) {
	args := []any{userID, helperID}
	set := []string{"updated_at = NOW()"}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Relationship != nil {
		add("relationship", *input.Relationship)
	}
	if input.PhoneNumber != nil {
		add("phone_number", *input.PhoneNumber)
	}
	if input.Mail != nil {
		add("mail", *input.Mail)
	}
	if input.Address != nil {
		add("address", *input.Address)
	}
	if input.IsMain != nil {
		add("is_main", *input.IsMain)
	}

	query := fmt.Sprintf(`
		UPDATE emergency_contacts
		SET %s
		WHERE user_id = $1 AND helper_id = $2
		RETURNING %s`,
		strings.Join(set, ", "), contactColumns)

	return scanContact(r.pool.QueryRow(ctx, query, args...))
}

func (r *ContactRepository) Delete(ctx context.Context, userID, helperID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM emergency_contacts WHERE user_id = $1 AND helper_id = $2`,
		userID, helperID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func scanContact(row rowScanner) (*domain.EmergencyContact, error) {
	var c domain.EmergencyContact
	err := row.Scan(
		&c.UserID, &c.HelperID, &c.Name, &c.Relationship, &c.PhoneNumber,
		&c.Mail, &c.Address, &c.IsMain, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}

func collectContacts(rows pgx.Rows) ([]*domain.EmergencyContact, error) {
	var out []*domain.EmergencyContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}
