package repository

import (
	"context"
	"time"

	"github.com/carelink/carelink/internal/domain"
)

type CreateAlertInput struct {
	UserID      string
	Title       string
	Description string
	Importance  int
	AlertType   string
}

type AlertRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Alert, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Alert, error)
	// FindByHelper returns alerts of every user the helper has an approved
	// connection with, newest first.
	FindByHelper(ctx context.Context, helperID string) ([]*domain.Alert, error)
	Create(ctx context.Context, input CreateAlertInput) (*domain.Alert, error)

	// Acknowledgement stamps are set-once: the conditional writes keep the
	// first timestamp if two acknowledgements race.
	MarkCheckedByUser(ctx context.Context, alertID, userID string) error
	MarkCheckedByHelper(ctx context.Context, alertID, helperID string) error

	// Escalator methods. FindUnescalated returns alerts created before the
	// cutoff with no helper acknowledgement and no escalation stamp;
	// MarkEscalated is conditional on escalated_at still being NULL so a
	// sweep never double-sends.
	FindUnescalated(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Alert, error)
	MarkEscalated(ctx context.Context, alertID string) (bool, error)
}
