package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/account-server/internal/model"
)

// AuthService is a mock of handler.AuthService.
type AuthService struct {
	mock.Mock
}

// NewAuthService creates an AuthService mock whose expectations are asserted on cleanup.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Register(ctx context.Context, email, password string, sendEmail bool) (model.PublicUser, error) {
	args := m.Called(ctx, email, password, sendEmail)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *AuthService) Me(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

// ResetService is a mock of handler.ResetService.
type ResetService struct {
	mock.Mock
}

// NewResetService creates a ResetService mock whose expectations are asserted on cleanup.
func NewResetService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ResetService {
	m := &ResetService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ResetService) RequestReset(ctx context.Context, email string) (model.ResetRequest, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.ResetRequest), args.Error(1)
}

func (m *ResetService) ConsumeReset(ctx context.Context, token, newPassword string) (model.PublicUser, error) {
	args := m.Called(ctx, token, newPassword)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

// Authorizer is a mock of the token authorization gate.
type Authorizer struct {
	mock.Mock
}

// NewAuthorizer creates an Authorizer mock whose expectations are asserted on cleanup.
func NewAuthorizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authorizer {
	m := &Authorizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Authorizer) Authorize(ctx context.Context, token string, required model.Scopes) (model.AuthorizationResult, error) {
	args := m.Called(ctx, token, required)
	return args.Get(0).(model.AuthorizationResult), args.Error(1)
}
