package accounts

import "errors"

// Kind classifies a non-authentication failure so callers can map it to a
// response without matching on message text.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
)

// Error is a failure with a human-readable message safe to show the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrInvalidCredentials is the only thing a failed login says about itself.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Login failure reasons. They are logged, never returned in a message.
const (
	ReasonUnknownEmail = "unknown_email"
	ReasonBadPassword  = "bad_password"
	ReasonInactive     = "inactive"
	ReasonUnapproved   = "unapproved"
)

// AuthError is returned by Login for every rejected attempt. Its message is
// identical for all reasons.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return ErrInvalidCredentials.Error() }

func (e *AuthError) Is(target error) bool { return target == ErrInvalidCredentials }
