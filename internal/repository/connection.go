package repository

import (
	"context"

	"github.com/carelink/carelink/internal/domain"
)

// ConnectionRepository persists the user↔helper trust links. All lookups
// except FindByID exclude soft-deleted rows; FindByID returns deleted rows
// too so callers can report ErrAlreadyResolved instead of ErrConnectionNotFound.
type ConnectionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Connection, error)
	// FindActiveByUserAndHelper returns the single non-deleted row for the
	// pair, or domain.ErrConnectionNotFound. A partial unique index keeps
	// "single" true even under concurrent requests.
	FindActiveByUserAndHelper(ctx context.Context, userID, helperID string) (*domain.Connection, error)
	FindPendingByHelper(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error)
	FindApprovedByUser(ctx context.Context, userID string) ([]*domain.ConnectionWithParty, error)
	FindApprovedByHelper(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error)

	// Create inserts a fresh pending connection. A unique violation on the
	// active-pair index is returned as domain.ErrAlreadyRequested.
	Create(ctx context.Context, userID, helperID string) (*domain.Connection, error)
	// UpdateStatus moves a pending connection to approved or rejected.
	// The write is conditional on status still being pending; a lost race
	// surfaces as domain.ErrAlreadyResolved.
	UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error
	// SoftDelete retires a connection. Conditional on is_deleted = false;
	// a second delete surfaces as domain.ErrAlreadyResolved and never
	// overwrites the original deletion stamp.
	SoftDelete(ctx context.Context, id, deletedBy string) error
}
