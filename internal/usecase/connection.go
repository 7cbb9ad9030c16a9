package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
)

// ConnectionUsecase owns the connect state machine:
//
//	(none) → pending → approved → deleted
//	              └──→ rejected → deleted
//
// pending is left exactly once, only by the addressed helper; deletion is a
// terminal tag, not a removal.
type ConnectionUsecase struct {
	connections repository.ConnectionRepository
	helpers     repository.HelperRepository
}

func NewConnectionUsecase(connections repository.ConnectionRepository, helpers repository.HelperRepository) *ConnectionUsecase {
	return &ConnectionUsecase{connections: connections, helpers: helpers}
}

// Request creates a pending connection from the user to the helper.
// An active pending request blocks with ErrAlreadyRequested, an approved
// one with ErrAlreadyConnected. A rejected one does not block: it is
// retired (soft-deleted, attributed to the requesting user) and a fresh
// pending row takes its place, so the helper sees a new request while the
// audit trail keeps the rejection.
func (u *ConnectionUsecase) Request(ctx context.Context, userID, helperID string) (*domain.Connection, error) {
	if _, err := u.helpers.FindByID(ctx, helperID); err != nil {
		return nil, err
	}

	existing, err := u.connections.FindActiveByUserAndHelper(ctx, userID, helperID)
	switch {
	case err == nil:
		switch existing.Status {
		case domain.ConnectionPending:
			return nil, domain.ErrAlreadyRequested
		case domain.ConnectionApproved:
			return nil, domain.ErrAlreadyConnected
		case domain.ConnectionRejected:
			if err := u.connections.SoftDelete(ctx, existing.ID, userID); err != nil &&
				!errors.Is(err, domain.ErrAlreadyResolved) {
				return nil, fmt.Errorf("retire rejected connection: %w", err)
			}
		}
	case !errors.Is(err, domain.ErrConnectionNotFound):
		return nil, fmt.Errorf("find existing connection: %w", err)
	}

	// The partial unique index still protects this insert if another
	// request slipped in between the check and now.
	conn, err := u.connections.Create(ctx, userID, helperID)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// ListPending returns the helper's open requests, newest first, with the
// requesting user's public fields attached.
func (u *ConnectionUsecase) ListPending(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error) {
	return u.connections.FindPendingByHelper(ctx, helperID)
}

// Approve settles a pending request in the helper's favor.
func (u *ConnectionUsecase) Approve(ctx context.Context, id, helperID string) error {
	return u.settle(ctx, id, helperID, domain.ConnectionApproved)
}

// Reject settles a pending request against the user.
func (u *ConnectionUsecase) Reject(ctx context.Context, id, helperID string) error {
	return u.settle(ctx, id, helperID, domain.ConnectionRejected)
}

func (u *ConnectionUsecase) settle(ctx context.Context, id, helperID string, status domain.ConnectionStatus) error {
	conn, err := u.connections.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if conn.HelperID != helperID {
		return domain.ErrForbidden
	}
	if conn.IsDeleted || conn.Status != domain.ConnectionPending {
		return domain.ErrAlreadyResolved
	}
	// UpdateStatus re-checks pending at write time; a double-click that
	// raced past the read above still settles only once.
	return u.connections.UpdateStatus(ctx, id, status)
}

// ListApproved returns the caller's active connections with the other
// side's public fields, newest first.
func (u *ConnectionUsecase) ListApproved(ctx context.Context, principalID string, role domain.Role) ([]*domain.ConnectionWithParty, error) {
	switch role {
	case domain.RoleUser:
		return u.connections.FindApprovedByUser(ctx, principalID)
	case domain.RoleHelper:
		return u.connections.FindApprovedByHelper(ctx, principalID)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// Remove soft-deletes a connection. Either party may remove it; nobody
// else. A second remove fails ErrAlreadyResolved and never reopens or
// restamps the first deletion.
func (u *ConnectionUsecase) Remove(ctx context.Context, id, principalID string, role domain.Role) error {
	conn, err := u.connections.FindByID(ctx, id)
	if err != nil {
		return err
	}

	switch role {
	case domain.RoleUser:
		if conn.UserID != principalID {
			return domain.ErrForbidden
		}
	case domain.RoleHelper:
		if conn.HelperID != principalID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	if conn.IsDeleted {
		return domain.ErrAlreadyResolved
	}
	return u.connections.SoftDelete(ctx, id, principalID)
}
