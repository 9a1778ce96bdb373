package model

import "errors"

// Token codec failures.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token expired")
)

// Token issuance input failures.
var (
	ErrInvalidTTL   = errors.New("token ttl must be a positive whole number of seconds")
	ErrNoScopes     = errors.New("token must carry at least one scope")
	ErrUnknownScope = errors.New("unknown scope")
	ErrNoSubject    = errors.New("token subject is required")
)

// Authorization and account failures.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("insufficient scope")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
