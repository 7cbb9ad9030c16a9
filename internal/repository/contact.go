package repository

import (
	"context"

	"github.com/carelink/carelink/internal/domain"
)

type UpdateContactInput struct {
	Name         *string
	Relationship *string
	PhoneNumber  *string
	Mail         *string
	Address      *string
	IsMain       *bool
}

type ContactRepository interface {
	FindByUser(ctx context.Context, userID string) ([]*domain.EmergencyContact, error)
	FindByHelper(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error)
	FindByUserAndHelper(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error)
	// Create returns domain.ErrDuplicateContact when the pair already has a contact.
	Create(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error)
	Update(ctx context.Context, userID, helperID string, input UpdateContactInput) (*domain.EmergencyContact, error)
	Delete(ctx context.Context, userID, helperID string) error
}
