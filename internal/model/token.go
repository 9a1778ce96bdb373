package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is the decoded form of a signed access token. It only lives in
// memory; the encoded string is what crosses the wire.
type Token struct {
	ID        string
	Subject   uuid.UUID
	Scopes    Scopes
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL returns the lifetime the token was issued with.
func (t Token) TTL() time.Duration {
	return t.ExpiresAt.Sub(t.IssuedAt)
}

// TokenCodec encodes and verifies self-contained access tokens.
type TokenCodec interface {
	Encode(subject uuid.UUID, scopes Scopes, ttl time.Duration) (string, error)
	Decode(token string) (Token, error)
}

// AuthorizationResult is produced by a successful authorization.
type AuthorizationResult struct {
	Identity uuid.UUID
	Scopes   Scopes
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// TokenTypeBearer is the token type reported with issued sessions.
const TokenTypeBearer = "bearer"

// Session is an issued access token as returned to clients.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	Scopes      Scopes
}

// ResetRequest is the outcome of requesting a password reset. Token is only
// set when reset tokens are returned to the caller instead of mailed.
type ResetRequest struct {
	Message string
	Token   string
}
