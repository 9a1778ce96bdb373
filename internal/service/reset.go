package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

const resetSubject = "Reset Password"

// Authorizer verifies a presented token against required scopes.
type Authorizer interface {
	Authorize(ctx context.Context, token string, required model.Scopes) (model.AuthorizationResult, error)
}

// PasswordReset issues and consumes reset tokens. It keeps no state between
// the two steps; the token itself carries everything.
type PasswordReset struct {
	users       model.UserStore
	tokens      *TokenService
	gate        Authorizer
	mail        model.MailDispatcher
	exposeToken bool
	logger      *logger.Logger
}

func NewPasswordReset(
	users model.UserStore,
	tokens *TokenService,
	gate Authorizer,
	mail model.MailDispatcher,
	exposeToken bool,
	logger *logger.Logger,
) *PasswordReset {
	return &PasswordReset{
		users:       users,
		tokens:      tokens,
		gate:        gate,
		mail:        mail,
		exposeToken: exposeToken,
		logger:      logger,
	}
}

// RequestReset issues a reset token for the account registered with email
// and mails it. Delivery happens in the background and never fails the call.
func (r *PasswordReset) RequestReset(ctx context.Context, email string) (model.ResetRequest, error) {
	r.logger.Debug("Reset service: reset requested", "email", email)

	user, err := r.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResetRequest{}, model.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Reset service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.ResetRequest{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	token, err := r.tokens.IssueReset(user.ID)
	if err != nil {
		r.logger.Error("Reset service: failed to issue reset token",
			"user_id", user.ID.String(),
			"error", err.Error())
		return model.ResetRequest{}, err
	}

	if r.exposeToken {
		return model.ResetRequest{Message: token, Token: token}, nil
	}

	r.mail.Dispatch(ctx, model.Message{
		To:      user.Email,
		Subject: resetSubject,
		Body:    fmt.Sprintf("Use the following token/link to reset your password: %s", token),
	})

	r.logger.Info("Reset service: reset mail dispatched", "user_id", user.ID.String())

	return model.ResetRequest{Message: fmt.Sprintf("Reset password email sent to %s", user.Email)}, nil
}

// ConsumeReset verifies a reset token, marks the account verified and
// replaces its password.
func (r *PasswordReset) ConsumeReset(ctx context.Context, token, newPassword string) (model.PublicUser, error) {
	auth, err := r.gate.Authorize(ctx, token, model.Scopes{model.ScopeReset})
	if err != nil {
		return model.PublicUser{}, err
	}

	// Always re-read the record the token resolved to; nothing read before
	// authorization is trusted for the update.
	user, err := r.users.GetByID(ctx, auth.Identity)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.ErrUnauthenticated
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	updated, err := r.users.SetPasswordAndVerify(ctx, user.ID, newPassword)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.ErrUnauthenticated
	}
	if err != nil {
		r.logger.Error("Reset service: failed to set password",
			"user_id", user.ID.String(),
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to set password: %w", err)
	}

	r.logger.Info("Reset service: password reset completed", "user_id", updated.ID.String())

	return updated.Public(), nil
}
