package token

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/model"
)

// Claims represents JWT claims carrying the granted scopes.
type Claims struct {
	jwt.RegisteredClaims
	Scope []string `json:"scope"`
}

var _ model.TokenCodec = (*JWT)(nil)

// JWT implements TokenCodec backed by symmetric HMAC-SHA256.
type JWT struct {
	secretKey []byte
	clock     model.Clock
	parser    *jwt.Parser
}

// NewJWT creates a new JWT codec with the provided secret key and clock.
func NewJWT(secretKey []byte, clock model.Clock) *JWT {
	return &JWT{
		secretKey: append([]byte(nil), secretKey...),
		clock:     clock,
		// Claims are validated by Decode itself so that malformed payloads are
		// reported before expiry.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

var signatureEncoding = base64.RawURLEncoding.Strict()

// Encode issues a token for subject carrying scopes, valid for ttl.
func (j *JWT) Encode(subject uuid.UUID, scopes model.Scopes, ttl time.Duration) (string, error) {
	if subject == uuid.Nil {
		return "", model.ErrNoSubject
	}
	if ttl <= 0 || ttl%time.Second != 0 {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidTTL, ttl)
	}
	granted, err := model.NewScopes(scopes...)
	if err != nil {
		return "", err
	}

	now := j.clock.Now().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: granted.Strings(),
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies the token signature, then its structure, then its expiry.
func (j *JWT) Decode(tokenString string) (model.Token, error) {
	// Everything after the second dot is the signature, so a corrupted
	// signature never changes how the payload is located.
	parts := strings.SplitN(tokenString, ".", 3)
	if len(parts) != 3 {
		return model.Token{}, fmt.Errorf("%w: expected 3 segments, got %d", model.ErrMalformed, len(parts))
	}

	if err := j.verifySignature(parts[0]+"."+parts[1], parts[2]); err != nil {
		return model.Token{}, err
	}

	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return model.Token{}, fmt.Errorf("%w: %v", model.ErrMalformed, err)
	}

	tok, err := claimsToToken(claims)
	if err != nil {
		return model.Token{}, err
	}

	if !j.clock.Now().Before(tok.ExpiresAt) {
		return model.Token{}, fmt.Errorf("%w at %s", model.ErrTokenExpired, tok.ExpiresAt.Format(time.RFC3339))
	}

	return tok, nil
}

func (j *JWT) verifySignature(signingString, encodedSig string) error {
	sig, err := signatureEncoding.DecodeString(encodedSig)
	if err != nil {
		return model.ErrInvalidSignature
	}
	// Verify compares with hmac.Equal, which is constant time.
	if err := jwt.SigningMethodHS256.Verify(signingString, sig, j.secretKey); err != nil {
		return model.ErrInvalidSignature
	}
	return nil
}

func claimsToToken(claims *Claims) (model.Token, error) {
	if claims.Subject == "" {
		return model.Token{}, fmt.Errorf("%w: missing subject", model.ErrMalformed)
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil || subject == uuid.Nil {
		return model.Token{}, fmt.Errorf("%w: invalid subject", model.ErrMalformed)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.Token{}, fmt.Errorf("%w: missing iat or exp", model.ErrMalformed)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return model.Token{}, fmt.Errorf("%w: exp not after iat", model.ErrMalformed)
	}

	scopes, err := model.ParseScopes(claims.Scope)
	if err != nil {
		return model.Token{}, fmt.Errorf("%w: %v", model.ErrMalformed, err)
	}

	return model.Token{
		ID:        claims.ID,
		Subject:   subject,
		Scopes:    scopes,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
