package repository

import (
	"context"

	"github.com/carelink/carelink/internal/domain"
)

type CreateUserInput struct {
	Name     string
	Mail     string
	Password string // already hashed
	Age      *int
	Icon     *string
	Address  *string
	Comment  *string
}

// Usecases depend on the interface, not the concrete store: the DB can be
// swapped without touching business rules, and tests inject fakes.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByMail returns domain.ErrUserNotFound when no user has this mail.
	FindByMail(ctx context.Context, mail string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
