package domain

import "errors"

// Error kinds surfaced by the services. The HTTP layer maps each kind to a
// status code; no storage errors leak past this package's vocabulary.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password
	// so login failures are not distinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidInvite covers unknown and already-used invite tokens;
	// callers cannot tell which tokens exist.
	ErrInvalidInvite = errors.New("invalid or expired invite token")

	ErrInviteEmailMismatch = errors.New("email does not match invite")
	ErrEmailTaken          = errors.New("email already registered")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
)

// ValidationError marks locally detected request problems that never
// reach storage.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
