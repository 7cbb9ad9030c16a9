package domain

import (
	"errors"
	"time"
)

var (
	ErrContactNotFound  = errors.New("emergency contact not found")
	ErrDuplicateContact = errors.New("emergency contact already exists for this pair")
)

// EmergencyContact is the person a helper reaches out to when an alert for
// the user goes unanswered. Keyed by the (user, helper) pair.
type EmergencyContact struct {
	UserID       string
	HelperID     string
	Name         string
	Relationship string
	PhoneNumber  string
	Mail         *string
	Address      *string
	IsMain       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
