package usecase

import (
	"context"
	"errors"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
)

var ErrMissingContactFields = errors.New("name and phone number are required")

type ContactUsecase struct {
	contacts repository.ContactRepository
}

func NewContactUsecase(contacts repository.ContactRepository) *ContactUsecase {
	return &ContactUsecase{contacts: contacts}
}

func (u *ContactUsecase) ListByUser(ctx context.Context, userID string) ([]*domain.EmergencyContact, error) {
	return u.contacts.FindByUser(ctx, userID)
}

func (u *ContactUsecase) ListByHelper(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error) {
	return u.contacts.FindByHelper(ctx, helperID)
}

func (u *ContactUsecase) Get(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error) {
	return u.contacts.FindByUserAndHelper(ctx, userID, helperID)
}

func (u *ContactUsecase) Create(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error) {
	if contact.Name == "" || contact.PhoneNumber == "" {
		return nil, ErrMissingContactFields
	}
	return u.contacts.Create(ctx, contact)
}

func (u *ContactUsecase) Update(ctx context.Context, userID, helperID string, input repository.UpdateContactInput) (*domain.EmergencyContact, error) {
	return u.contacts.Update(ctx, userID, helperID, input)
}

func (u *ContactUsecase) Delete(ctx context.Context, userID, helperID string) error {
	return u.contacts.Delete(ctx, userID, helperID)
}
