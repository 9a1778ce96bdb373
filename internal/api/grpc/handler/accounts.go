package handler

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/account-server/internal/api/grpc/accountsv1"
	"github.com/dtroode/account-server/internal/api/grpc/apierror"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// MinPasswordLength is the shortest password accepted on registration and
// reset.
const MinPasswordLength = 8

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, email, password string, sendEmail bool) (model.PublicUser, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Me(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
}

// ResetService defines the password reset flow.
type ResetService interface {
	RequestReset(ctx context.Context, email string) (model.ResetRequest, error)
	ConsumeReset(ctx context.Context, token, newPassword string) (model.PublicUser, error)
}

var _ accountsv1.AccountsServer = (*Accounts)(nil)

// Accounts handles the account.v1.Accounts gRPC endpoints.
type Accounts struct {
	authService    AuthService
	resetService   ResetService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccounts creates a new Accounts handler.
func NewAccounts(
	authService AuthService,
	resetService ResetService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Accounts {
	return &Accounts{
		authService:    authService,
		resetService:   resetService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account and, unless send_email is false, mails a
// verification reset token.
func (h *Accounts) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailField(req)
	if err != nil {
		return nil, err
	}
	password := stringField(req, "password")
	if err := validatePassword("password", password); err != nil {
		return nil, err
	}
	sendEmail := boolField(req, "send_email", true)

	h.logger.Debug("Accounts handler: processing registration request",
		"email", email,
		"send_email", sendEmail)

	user, err := h.authService.Register(ctx, email, password, sendEmail)
	if err != nil {
		h.logger.Info("Accounts handler: registration failed",
			"email", email,
			"error", err.Error())
		return nil, apierror.Status(err)
	}

	return userToStruct(user)
}

// Login exchanges credentials for a session token.
func (h *Accounts) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email := strings.TrimSpace(stringField(req, "email"))
	password := stringField(req, "password")
	if email == "" || password == "" {
		return nil, apierror.InvalidArgument("email", "email and password are required")
	}

	session, err := h.authService.Login(ctx, email, password)
	if err != nil {
		return nil, apierror.Status(err)
	}

	scope := make([]interface{}, 0, len(session.Scopes))
	for _, s := range session.Scopes.Strings() {
		scope = append(scope, s)
	}

	return structpb.NewStruct(map[string]interface{}{
		"access_token": session.AccessToken,
		"token_type":   session.TokenType,
		"expires_in":   session.ExpiresIn.Seconds(),
		"scope":        scope,
	})
}

// Me returns the caller's profile. The call is authorized by the
// authentication interceptor.
func (h *Accounts) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	auth, ok := h.contextManager.GetAuthorizationFromContext(ctx)
	if !ok {
		return nil, apierror.Status(model.ErrUnauthenticated)
	}

	user, err := h.authService.Me(ctx, auth.Identity)
	if err != nil {
		return nil, apierror.Status(err)
	}

	return userToStruct(user)
}

// RequestPasswordReset issues a reset token for the given email.
func (h *Accounts) RequestPasswordReset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailField(req)
	if err != nil {
		return nil, err
	}

	res, err := h.resetService.RequestReset(ctx, email)
	if err != nil {
		return nil, apierror.Status(err)
	}

	out := map[string]interface{}{"message": res.Message}
	if res.Token != "" {
		out["token"] = res.Token
	}
	return structpb.NewStruct(out)
}

// ResetPassword consumes the bearer reset token and sets a new password.
func (h *Accounts) ResetPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	password := stringField(req, "password")
	if err := validatePassword("password", password); err != nil {
		return nil, err
	}
	if confirm, ok := req.GetFields()["password_confirm"]; ok && confirm.GetStringValue() != password {
		return nil, apierror.InvalidArgument("password_confirm", "passwords do not match")
	}

	// A missing header leaves the token empty, which the reset flow rejects.
	token, _ := grpcauth.AuthFromMD(ctx, "bearer")

	user, err := h.resetService.ConsumeReset(ctx, token, password)
	if err != nil {
		h.logger.Info("Accounts handler: password reset rejected",
			"error", err.Error())
		return nil, apierror.Status(err)
	}

	return userToStruct(user)
}

func userToStruct(u model.PublicUser) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":          u.ID.String(),
		"email":       u.Email,
		"is_verified": u.Verified,
		"created_at":  u.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func boolField(req *structpb.Struct, name string, def bool) bool {
	v, ok := req.GetFields()[name]
	if !ok {
		return def
	}
	if _, isBool := v.GetKind().(*structpb.Value_BoolValue); !isBool {
		return def
	}
	return v.GetBoolValue()
}

func emailField(req *structpb.Struct) (string, error) {
	raw := strings.TrimSpace(stringField(req, "email"))
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apierror.InvalidArgument("email", "invalid email address")
	}
	return raw, nil
}

func validatePassword(field, password string) error {
	if len(password) < MinPasswordLength {
		return apierror.InvalidArgument(field, "password is too short")
	}
	return nil
}
