package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/account-server/internal/model"
)

// TokenCodec is a mock of model.TokenCodec.
type TokenCodec struct {
	mock.Mock
}

// NewTokenCodec creates a TokenCodec mock whose expectations are asserted on cleanup.
func NewTokenCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenCodec {
	m := &TokenCodec{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenCodec) Encode(subject uuid.UUID, scopes model.Scopes, ttl time.Duration) (string, error) {
	args := m.Called(subject, scopes, ttl)
	return args.String(0), args.Error(1)
}

func (m *TokenCodec) Decode(token string) (model.Token, error) {
	args := m.Called(token)
	return args.Get(0).(model.Token), args.Error(1)
}
