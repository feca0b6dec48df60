package domain

import "errors"

var (
	// ErrInvalidCredentials covers unknown username and wrong password alike;
	// callers must not distinguish the two on the wire.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountInactive is raised at sign-in time only. Already-issued
	// tokens stay valid until they expire.
	ErrAccountInactive = errors.New("account deactivated by admin")

	ErrUsernameTaken  = errors.New("username is already taken")
	ErrUserNotFound   = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")

	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")

	ErrTooManyAttempts = errors.New("too many sign-in attempts")

	ErrCropNotFound = errors.New("crop not found")
	ErrForbidden    = errors.New("access forbidden")
)
