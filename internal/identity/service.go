package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-marketplace/internal/validate"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type Accounts interface {
	CreateAccount(ctx context.Context, email, passwordHash, displayName string, role Role) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	Get(ctx context.Context, id string) (Identity, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
}

// RoleStore is keyed by identity id.
type RoleStore interface {
	Roles(ctx context.Context, userID string) (RoleSet, error)
}

type Tokens interface {
	Issue(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignUpDetails struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"min=8,max=72"`
	DisplayName string `json:"displayName" validate:"min=2,max=100"`
	Role        Role   `json:"role" validate:"oneof=buyer seller"`
}

// bcrypt rejects passwords longer than this many bytes.
const maxPasswordBytes = 72

// ProfileUpdate is the editable part of a profile.
type ProfileUpdate struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
}

var profileMessages = validate.Messages{
	"displayName.required": "Display name is required",
	"displayName.min":      "Name must be at least 2 characters",
	"displayName.max":      "Name is too long",
}

var authMessages = validate.Messages{
	"email":             "Please enter a valid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
	"password.max":      "Password is too long",
	"displayName.min":   "Name must be at least 2 characters",
	"displayName.max":   "Name is too long",
	"role":              "Choose buyer or seller",
}

// Session is what a successful sign-in or sign-up returns.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

type Service struct {
	Accounts Accounts
	Tokens   Tokens
	Log      zerolog.Logger
	Cost     int
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) SignUp(ctx context.Context, d SignUpDetails) (Session, error) {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.DisplayName = strings.TrimSpace(d.DisplayName)
	verr := validate.Struct(d, authMessages)
	// the max tag counts runes
	if len(d.Password) > maxPasswordBytes {
		verr.Add("password", authMessages["password.max"])
	}
	if err := verr.OrNil(); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), s.cost())
	if err != nil {
		return Session{}, err
	}
	id, err := s.Accounts.CreateAccount(ctx, d.Email, string(hash), d.DisplayName, d.Role)
	if errors.Is(err, ErrEmailTaken) {
		return Session{}, &AuthError{Message: MsgEmailTaken, Err: err}
	}
	if err != nil {
		return Session{}, err
	}
	s.Log.Info().Str("user_id", id.ID).Str("role", string(d.Role)).Msg("account created")
	return s.issue(ctx, id)
}

func (s *Service) SignIn(ctx context.Context, c Credentials) (Session, error) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := validate.Struct(c, authMessages).OrNil(); err != nil {
		return Session{}, err
	}

	acc, err := s.Accounts.FindByEmail(ctx, c.Email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, &AuthError{Message: MsgInvalidCredentials, Err: err}
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(c.Password)); err != nil {
		return Session{}, &AuthError{Message: MsgInvalidCredentials, Err: err}
	}
	return s.issue(ctx, acc.Identity)
}

func (s *Service) issue(ctx context.Context, id Identity) (Session, error) {
	token, err := s.Tokens.Issue(ctx, id.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Identity: id}, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Tokens.Revoke(ctx, token)
}

// Current resolves a bearer token. (nil, nil) means "resolved, not signed in".
func (s *Service) Current(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}
	uid, err := s.Tokens.Lookup(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id, err := s.Accounts.Get(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// UpdateProfile changes the display name of userID and returns the updated identity.
func (s *Service) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (Identity, error) {
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	if err := validate.Struct(u, profileMessages).OrNil(); err != nil {
		return Identity{}, err
	}
	if err := s.Accounts.UpdateDisplayName(ctx, userID, u.DisplayName); err != nil {
		return Identity{}, err
	}
	s.Log.Info().Str("user_id", userID).Msg("profile updated")
	return s.Accounts.Get(ctx, userID)
}
