package domain

import (
	"errors"
	"time"
)

var ErrAlertNotFound = errors.New("alert not found")

// Alert is a single alert event raised for a user. Acknowledgement is
// tracked per side; EscalatedAt is stamped once when the escalator has
// notified the user's emergency contacts.
type Alert struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Importance  int
	AlertType   string

	CheckedByUserAt   *time.Time
	CheckedByHelperAt *time.Time
	CheckedByHelperID *string
	EscalatedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
