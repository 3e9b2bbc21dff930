package identity

import "errors"

var (
	ErrNoSession  = errors.New("no session")
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("account not found")
)

// AuthError carries a message meant to be shown to the user as is.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "This email is already registered. Please sign in instead."
)
