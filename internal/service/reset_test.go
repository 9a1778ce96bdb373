package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/account-server/internal/clock"
	servermocks "github.com/dtroode/account-server/internal/mocks"
	"github.com/dtroode/account-server/internal/model"
	"github.com/dtroode/account-server/internal/testutil"
	"github.com/dtroode/account-server/internal/token"
)

type resetFixture struct {
	clock  *clock.Fake
	codec  *token.JWT
	store  *servermocks.UserStore
	mail   *servermocks.MailDispatcher
	tokens *TokenService
	reset  *PasswordReset
}

func newResetFixture(t *testing.T, expose bool) *resetFixture {
	t.Helper()
	f := &resetFixture{
		clock: clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		store: servermocks.NewUserStore(t),
		mail:  servermocks.NewMailDispatcher(t),
	}
	log := testutil.MakeNoopLogger()
	f.codec = token.NewJWT([]byte("secret"), f.clock)
	f.tokens = NewTokenService(f.codec, 30*time.Minute, 15*time.Minute, log)
	gate := NewGate(f.codec, f.store, log)
	f.reset = NewPasswordReset(f.store, f.tokens, gate, f.mail, expose, log)
	return f
}

func TestPasswordReset_RequestReset_MailsToken(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, false)
	user := model.User{ID: uuid.New(), Email: "a@example.com"}

	var sent model.Message
	f.store.On("GetByEmail", ctx, "a@example.com").Return(user, nil).Once()
	f.mail.On("Dispatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(model.Message)
	}).Once()

	res, err := f.reset.RequestReset(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Equal(t, "Reset password email sent to a@example.com", res.Message)

	assert.Equal(t, "a@example.com", sent.To)
	assert.Equal(t, "Reset Password", sent.Subject)
	const prefix = "Use the following token/link to reset your password: "
	require.True(t, strings.HasPrefix(sent.Body, prefix))

	tok, err := f.codec.Decode(strings.TrimPrefix(sent.Body, prefix))
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.Subject)
	assert.Equal(t, model.Scopes{model.ScopeReset}, tok.Scopes)
	assert.Equal(t, 15*time.Minute, tok.TTL())
}

func TestPasswordReset_RequestReset_ExposesTokenInTestEnv(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, true)
	user := model.User{ID: uuid.New(), Email: "a@example.com"}
	f.store.On("GetByEmail", ctx, "a@example.com").Return(user, nil).Once()

	res, err := f.reset.RequestReset(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	tok, err := f.codec.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.Subject)
	f.mail.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestPasswordReset_RequestReset_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, false)
	f.store.On("GetByEmail", ctx, "nobody@example.com").Return(model.User{}, model.ErrNotFound).Once()

	_, err := f.reset.RequestReset(ctx, "nobody@example.com")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPasswordReset_RequestReset_StoreError(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, false)
	f.store.On("GetByEmail", ctx, "a@example.com").Return(model.User{}, assert.AnError).Once()

	_, err := f.reset.RequestReset(ctx, "a@example.com")
	require.ErrorIs(t, err, assert.AnError)
}

func TestPasswordReset_ConsumeReset(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, false)
	user := model.User{ID: uuid.New(), Email: "a@example.com"}
	verified := user
	verified.Verified = true

	resetToken, err := f.tokens.IssueReset(user.ID)
	require.NoError(t, err)

	// One lookup by the gate, one re-read before the update.
	f.store.On("GetByID", ctx, user.ID).Return(user, nil).Twice()
	f.store.On("SetPasswordAndVerify", ctx, user.ID, "new-password").Return(verified, nil).Once()

	got, err := f.reset.ConsumeReset(ctx, resetToken, "new-password")
	require.NoError(t, err)
	assert.Equal(t, verified.Public(), got)
	assert.True(t, got.Verified)
}

func TestPasswordReset_ConsumeReset_Rejections(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("session token is forbidden", func(t *testing.T) {
		f := newResetFixture(t, false)
		session, err := f.tokens.IssueSession(model.User{ID: userID, Admin: true})
		require.NoError(t, err)

		_, err = f.reset.ConsumeReset(ctx, session.AccessToken, "pw")
		require.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newResetFixture(t, false)
		resetToken, err := f.tokens.IssueReset(userID)
		require.NoError(t, err)
		f.clock.Advance(15 * time.Minute)

		_, err = f.reset.ConsumeReset(ctx, resetToken, "pw")
		require.ErrorIs(t, err, model.ErrTokenExpired)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newResetFixture(t, false)
		_, err := f.reset.ConsumeReset(ctx, "not-a-token", "pw")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("user removed between lookups", func(t *testing.T) {
		f := newResetFixture(t, false)
		resetToken, err := f.tokens.IssueReset(userID)
		require.NoError(t, err)
		f.store.On("GetByID", ctx, userID).Return(model.User{ID: userID}, nil).Once()
		f.store.On("GetByID", ctx, userID).Return(model.User{}, model.ErrNotFound).Once()

		_, err = f.reset.ConsumeReset(ctx, resetToken, "pw")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("update fails", func(t *testing.T) {
		f := newResetFixture(t, false)
		resetToken, err := f.tokens.IssueReset(userID)
		require.NoError(t, err)
		f.store.On("GetByID", ctx, userID).Return(model.User{ID: userID}, nil).Twice()
		f.store.On("SetPasswordAndVerify", ctx, userID, "pw").Return(model.User{}, assert.AnError).Once()

		_, err = f.reset.ConsumeReset(ctx, resetToken, "pw")
		require.ErrorIs(t, err, assert.AnError)
	})
}
