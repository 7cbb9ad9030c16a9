package repository

import (
	"context"

	"github.com/carelink/carelink/internal/domain"
)

type CreateHelperInput struct {
	Name         string
	Mail         string
	Password     *string // already hashed; nil for invited-but-not-activated
	Nickname     string
	PhoneNumber  string
	Relationship string
}

type HelperRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Helper, error)
	// FindByMail returns domain.ErrHelperNotFound when no helper has this mail.
	FindByMail(ctx context.Context, mail string) (*domain.Helper, error)
	Create(ctx context.Context, input CreateHelperInput) (*domain.Helper, error)
}
