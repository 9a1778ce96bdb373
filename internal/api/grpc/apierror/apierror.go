// Package apierror converts service errors into gRPC status errors.
package apierror

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/account-server/internal/model"
)

// Domain is reported in every ErrorInfo detail.
const Domain = "account.v1"

// Reasons attached to status errors as errdetails.ErrorInfo.
const (
	ReasonUnauthenticated    = "UNAUTHENTICATED"
	ReasonTokenExpired       = "TOKEN_EXPIRED"
	ReasonInvalidCredentials = "INVALID_CREDENTIALS"
	ReasonForbidden          = "FORBIDDEN"
	ReasonNotFound           = "NOT_FOUND"
	ReasonAlreadyExists      = "ALREADY_EXISTS"
	ReasonInvalidArgument    = "INVALID_ARGUMENT"
)

// Status maps err onto a gRPC status error. Errors that already carry a
// status pass through. Unknown errors become a generic Internal error so
// no detail leaks to the client.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return withReason(codes.Unauthenticated, "token expired", ReasonTokenExpired)
	case errors.Is(err, model.ErrUnauthenticated):
		return withReason(codes.Unauthenticated, "unauthenticated", ReasonUnauthenticated)
	case errors.Is(err, model.ErrInvalidCredentials):
		return withReason(codes.Unauthenticated, "invalid credentials", ReasonInvalidCredentials)
	case errors.Is(err, model.ErrForbidden):
		return withReason(codes.PermissionDenied, "insufficient scope", ReasonForbidden)
	case errors.Is(err, model.ErrNotFound):
		return withReason(codes.NotFound, "user not found", ReasonNotFound)
	case errors.Is(err, model.ErrConflict):
		return withReason(codes.AlreadyExists, "user already exists", ReasonAlreadyExists)
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// InvalidArgument builds an InvalidArgument error naming the offending field.
func InvalidArgument(field, msg string) error {
	st := status.New(codes.InvalidArgument, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   ReasonInvalidArgument,
		Domain:   Domain,
		Metadata: map[string]string{"field": field},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// Reason returns the ErrorInfo reason carried by err, if any.
func Reason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}

func withReason(code codes.Code, msg, reason string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: Domain,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
