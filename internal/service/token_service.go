package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// TokenService issues the two kinds of tokens the service hands out:
// sessions after login and reset tokens for the password reset flow.
type TokenService struct {
	codec      model.TokenCodec
	sessionTTL time.Duration
	resetTTL   time.Duration
	logger     *logger.Logger
}

func NewTokenService(codec model.TokenCodec, sessionTTL, resetTTL time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{codec: codec, sessionTTL: sessionTTL, resetTTL: resetTTL, logger: logger}
}

// IssueSession creates a session token for user. Admins additionally get
// the admin scope.
func (s *TokenService) IssueSession(user model.User) (model.Session, error) {
	scopes := model.Scopes{model.ScopeStandard}
	if user.Admin {
		scopes = append(scopes, model.ScopeAdmin)
	}

	access, err := s.codec.Encode(user.ID, scopes, s.sessionTTL)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue session: %w", err)
	}

	return model.Session{
		AccessToken: access,
		TokenType:   model.TokenTypeBearer,
		ExpiresIn:   s.sessionTTL,
		Scopes:      scopes,
	}, nil
}

// IssueReset creates a short lived token that only allows a password reset.
func (s *TokenService) IssueReset(userID uuid.UUID) (string, error) {
	reset, err := s.codec.Encode(userID, model.Scopes{model.ScopeReset}, s.resetTTL)
	if err != nil {
		return "", fmt.Errorf("issue reset: %w", err)
	}
	return reset, nil
}
