package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/account-server/internal/model"
)

// Mailer is a mock of model.Mailer.
type Mailer struct {
	mock.Mock
}

// NewMailer creates a Mailer mock whose expectations are asserted on cleanup.
func NewMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Mailer {
	m := &Mailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Mailer) Send(ctx context.Context, msg model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MailDispatcher is a mock of model.MailDispatcher.
type MailDispatcher struct {
	mock.Mock
}

// NewMailDispatcher creates a MailDispatcher mock whose expectations are asserted on cleanup.
func NewMailDispatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MailDispatcher {
	m := &MailDispatcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MailDispatcher) Dispatch(ctx context.Context, msg model.Message) {
	m.Called(ctx, msg)
}
