package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so a caller cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken covers every validator rejection: bad signature,
	// wrong issuer or audience, expired, malformed. Collapsing them is
	// deliberate; the distinction must not leak to the caller.
	ErrInvalidToken = errors.New("auth: invalid token")

	ErrAlreadyExists = errors.New("auth: already exists")
	ErrInvalidInput  = errors.New("auth: invalid input")
	ErrNotFound      = errors.New("auth: not found")
	ErrForbidden     = errors.New("auth: forbidden")
)
