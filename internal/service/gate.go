package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// Gate decides whether a presented token may perform an operation.
type Gate struct {
	codec  model.TokenCodec
	users  model.UserStore
	logger *logger.Logger
}

// NewGate creates a new Gate.
func NewGate(codec model.TokenCodec, users model.UserStore, logger *logger.Logger) *Gate {
	return &Gate{codec: codec, users: users, logger: logger}
}

// Authorize verifies the token, checks that it carries every required scope
// and resolves its subject to a live user.
//
// Invalid or malformed tokens and tokens for unknown users all fail with
// ErrUnauthenticated. Expired tokens fail with ErrTokenExpired and missing
// scopes with ErrForbidden.
func (g *Gate) Authorize(ctx context.Context, tokenString string, required model.Scopes) (model.AuthorizationResult, error) {
	if tokenString == "" {
		return model.AuthorizationResult{}, model.ErrUnauthenticated
	}

	tok, err := g.codec.Decode(tokenString)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrTokenExpired):
		g.logger.Debug("Gate: token expired", "error", err.Error())
		return model.AuthorizationResult{}, model.ErrTokenExpired
	case errors.Is(err, model.ErrInvalidSignature), errors.Is(err, model.ErrMalformed):
		g.logger.Debug("Gate: token rejected", "error", err.Error())
		return model.AuthorizationResult{}, model.ErrUnauthenticated
	default:
		return model.AuthorizationResult{}, fmt.Errorf("failed to decode token: %w", err)
	}

	if !model.Satisfies(tok.Scopes, required) {
		g.logger.Info("Gate: insufficient scope",
			"user_id", tok.Subject.String(),
			"granted", tok.Scopes.Strings(),
			"required", required.Strings())
		return model.AuthorizationResult{}, model.ErrForbidden
	}

	user, err := g.users.GetByID(ctx, tok.Subject)
	if errors.Is(err, model.ErrNotFound) {
		g.logger.Info("Gate: token subject does not resolve",
			"user_id", tok.Subject.String())
		return model.AuthorizationResult{}, model.ErrUnauthenticated
	}
	if err != nil {
		g.logger.Error("Gate: failed to get user by id",
			"user_id", tok.Subject.String(),
			"error", err.Error())
		return model.AuthorizationResult{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return model.AuthorizationResult{
		Identity: user.ID,
		Scopes:   tok.Scopes,
	}, nil
}
