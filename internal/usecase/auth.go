package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/carelink/internal/crypto"
	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/carelink/carelink/internal/token"
)

// Session is the result of a successful login or registration.
type Session struct {
	Token     string
	Principal domain.Principal
}

// Profile is the role-tagged account behind a session. Exactly one of User
// and Helper is set, matching Principal.Role.
type Profile struct {
	Principal domain.Principal
	User      *domain.User
	Helper    *domain.Helper
}

type RegisterInput struct {
	Role     domain.Role
	Name     string
	Mail     string
	Password string

	// user-only
	Age     *int
	Icon    *string
	Address *string
	Comment *string

	// helper-only, all required for the helper role
	Nickname     string
	PhoneNumber  string
	Relationship string
}

// AuthUsecase resolves the single identity space that is physically split
// across the user and helper stores. The mail address is unique across the
// union of both; role falls out of which store matched.
type AuthUsecase struct {
	users   repository.UserRepository
	helpers repository.HelperRepository
	tokens  *token.Manager
}

func NewAuthUsecase(users repository.UserRepository, helpers repository.HelperRepository, tokens *token.Manager) *AuthUsecase {
	return &AuthUsecase{users: users, helpers: helpers, tokens: tokens}
}

// Login checks the user store first, then the helper store. Unknown mail
// and wrong password both come back as ErrInvalidCredentials so responses
// don't reveal which store, if any, matched.
func (u *AuthUsecase) Login(ctx context.Context, mail, password string) (*Session, error) {
	user, err := u.users.FindByMail(ctx, mail)
	switch {
	case err == nil:
		if !crypto.VerifyPassword(user.PasswordHash, password) {
			return nil, domain.ErrInvalidCredentials
		}
		return u.newSession(domain.Principal{ID: user.ID, Name: user.Name, Mail: user.Mail, Role: domain.RoleUser})
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user by mail: %w", err)
	}

	helper, err := u.helpers.FindByMail(ctx, mail)
	if err != nil {
		if errors.Is(err, domain.ErrHelperNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find helper by mail: %w", err)
	}
	if helper.PasswordHash == nil || *helper.PasswordHash == "" {
		// Invited helper that never finished first-time setup. Distinct
		// from a wrong password because the fix is different.
		return nil, domain.ErrPasswordNotSet
	}
	if !crypto.VerifyPassword(*helper.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return u.newSession(domain.Principal{ID: helper.ID, Name: helper.Name, Mail: helper.Mail, Role: domain.RoleHelper})
}

// Register creates an account in the store matching the role and returns a
// session for it. The mail must be free in BOTH stores; no single table
// constraint can span the two, so the check lives here.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if !input.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	taken, err := u.mailTaken(ctx, input.Mail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateMail
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	if input.Role == domain.RoleHelper {
		if input.Nickname == "" || input.PhoneNumber == "" || input.Relationship == "" {
			return nil, domain.ErrMissingHelperFields
		}
		helper, err := u.helpers.Create(ctx, repository.CreateHelperInput{
			Name:         input.Name,
			Mail:         input.Mail,
			Password:     &hash,
			Nickname:     input.Nickname,
			PhoneNumber:  input.PhoneNumber,
			Relationship: input.Relationship,
		})
		if err != nil {
			return nil, fmt.Errorf("create helper: %w", err)
		}
		return u.newSession(domain.Principal{ID: helper.ID, Name: helper.Name, Mail: helper.Mail, Role: domain.RoleHelper})
	}

	user, err := u.users.Create(ctx, repository.CreateUserInput{
		Name:     input.Name,
		Mail:     input.Mail,
		Password: hash,
		Age:      input.Age,
		Icon:     input.Icon,
		Address:  input.Address,
		Comment:  input.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u.newSession(domain.Principal{ID: user.ID, Name: user.Name, Mail: user.Mail, Role: domain.RoleUser})
}

// Profile loads the account behind an authenticated subject.
func (u *AuthUsecase) Profile(ctx context.Context, id string, role domain.Role) (*Profile, error) {
	switch role {
	case domain.RoleUser:
		user, err := u.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Profile{
			Principal: domain.Principal{ID: user.ID, Name: user.Name, Mail: user.Mail, Role: role},
			User:      user,
		}, nil
	case domain.RoleHelper:
		helper, err := u.helpers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Profile{
			Principal: domain.Principal{ID: helper.ID, Name: helper.Name, Mail: helper.Mail, Role: role},
			Helper:    helper,
		}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

func (u *AuthUsecase) mailTaken(ctx context.Context, mail string) (bool, error) {
	if _, err := u.users.FindByMail(ctx, mail); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("check user store: %w", err)
	}
	if _, err := u.helpers.FindByMail(ctx, mail); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrHelperNotFound) {
		return false, fmt.Errorf("check helper store: %w", err)
	}
	return false, nil
}

func (u *AuthUsecase) newSession(p domain.Principal) (*Session, error) {
	signed, err := u.tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, Principal: p}, nil
}
