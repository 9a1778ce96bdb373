package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// Auth implements account registration, login and profile lookup.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	reset        *PasswordReset
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	tokenService *TokenService,
	reset *PasswordReset,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: tokenService,
		reset:        reset,
		logger:       logger,
	}
}

// Register creates an unverified account. When sendEmail is set a reset
// token is mailed so the owner can verify the address and pick a password.
func (a *Auth) Register(ctx context.Context, email, password string, sendEmail bool) (model.PublicUser, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	existingUser, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.PublicUser{}, fmt.Errorf("%w: email %s is taken", model.ErrConflict, email)
	}

	user, err := a.userStore.Create(ctx, model.CreateUserParams{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if !errors.Is(err, model.ErrConflict) {
			a.logger.Error("Auth service: failed to create user",
				"email", email,
				"error", err.Error())
		}
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	if sendEmail {
		if _, err := a.reset.RequestReset(ctx, user.Email); err != nil {
			a.logger.Warn("Auth service: failed to send verification mail",
				"user_id", user.ID.String(),
				"error", err.Error())
		}
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID.String())

	return user.Public(), nil
}

// Login checks credentials and issues a session token.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.VerifyCredentials(ctx, email, password)
	if errors.Is(err, model.ErrInvalidCredentials) || errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: invalid credentials",
			"email", email)
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to verify credentials",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify credentials: %w", err)
	}

	session, err := a.tokenService.IssueSession(user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"user_id", user.ID.String(),
			"error", err.Error())
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user login completed successfully",
		"user_id", user.ID.String())

	return session, nil
}

// Me returns the public profile of an authorized identity.
func (a *Auth) Me(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.ErrUnauthenticated
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user.Public(), nil
}
