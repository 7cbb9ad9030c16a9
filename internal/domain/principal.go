package domain

import (
	"errors"
	"time"
)

// Role identifies which of the two principal stores an account lives in.
type Role string

const (
	RoleUser   Role = "user"
	RoleHelper Role = "helper"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleHelper
}

var (
	// Authentication and registration.
	ErrInvalidCredentials  = errors.New("invalid mail or password")
	ErrPasswordNotSet      = errors.New("password has not been set for this account")
	ErrDuplicateMail       = errors.New("mail address is already registered")
	ErrMissingHelperFields = errors.New("nickname, phone number and relationship are required for helpers")

	// Token verification.
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
	// ErrStaleToken marks a token issued before role claims existed.
	// Such tokens are rejected outright; the holder must sign in again.
	ErrStaleToken = errors.New("token predates role claims, sign in again")

	ErrUserNotFound   = errors.New("user not found")
	ErrHelperNotFound = errors.New("helper not found")
)

// User is a care-receiver account.
type User struct {
	ID           string
	Name         string
	Mail         string
	PasswordHash string
	Age          *int
	Icon         *string
	Address      *string
	Comment      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Helper is a caregiver account. PasswordHash is nil for helpers that were
// invited but have not completed first-time sign-in yet.
type Helper struct {
	ID           string
	Name         string
	Mail         string
	PasswordHash *string
	Nickname     string
	PhoneNumber  string
	Relationship string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the role-tagged identity shared by both account kinds.
type Principal struct {
	ID   string
	Name string
	Mail string
	Role Role
}
