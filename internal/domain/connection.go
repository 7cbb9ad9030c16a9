package domain

import (
	"errors"
	"time"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionApproved ConnectionStatus = "approved"
	ConnectionRejected ConnectionStatus = "rejected"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrForbidden          = errors.New("not allowed to act on this resource")
	ErrAlreadyRequested   = errors.New("connection request already sent")
	ErrAlreadyConnected   = errors.New("already connected")
	// ErrAlreadyResolved covers both a second approve/reject on a settled
	// request and a delete of an already deleted connection.
	ErrAlreadyResolved = errors.New("connection request already settled")
)

// Connection is the trust link from one user to one helper. A soft-deleted
// row keeps its last status; IsDeleted/DeletedAt/DeletedBy are set once and
// never cleared.
type Connection struct {
	ID        string
	UserID    string
	HelperID  string
	Status    ConnectionStatus
	IsDeleted bool
	DeletedAt *time.Time
	DeletedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConnectionParty is the counterpart's public display fields, embedded in
// list responses so the client never needs a second lookup.
type ConnectionParty struct {
	ID   string
	Name string
	Mail string
}

// ConnectionWithParty is a connection enriched with the other side's
// public fields: the user for helper-facing lists, the helper for
// user-facing lists.
type ConnectionWithParty struct {
	Connection
	Party ConnectionParty
}
