package rpc

import (
	"errors"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorTable = []struct {
	err  error
	code codes.Code
}{
	{common.ErrAccessDenied, codes.PermissionDenied},
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrConflict, codes.AlreadyExists},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrExpired, codes.FailedPrecondition},
	{common.ErrAlreadyUsed, codes.FailedPrecondition},
	{common.ErrTooManyAttempts, codes.ResourceExhausted},
	{common.ErrMismatch, codes.InvalidArgument},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrDelivery, codes.Unavailable},
}

// ToStatus converts a service error into a gRPC status. Only sentinel texts
// and validation messages cross the wire; access denials always carry
// common.AccessDeniedGenericMessage. The second result is false for errors
// that are not part of the contract and were reported as internal.
func ToStatus(err error) (*status.Status, bool) {
	if err == nil {
		return status.New(codes.OK, ""), true
	}
	if st, ok := status.FromError(err); ok {
		return st, true
	}
	for _, e := range errorTable {
		if !errors.Is(err, e.err) {
			continue
		}
		msg := e.err.Error()
		switch e.err {
		case common.ErrAccessDenied:
			msg = common.AccessDeniedGenericMessage
		case common.ErrValidation:
			msg = err.Error()
		}
		return status.New(e.code, msg), true
	}
	return status.New(codes.Internal, common.ErrorInternal.Error()), false
}

// FromStatus recovers the sentinel error behind a status received from the
// server, keeping the server's message. Unknown statuses are returned as is.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return err
	}
	msg := st.Message()
	switch {
	case st.Code() == codes.PermissionDenied:
		return common.ErrAccessDenied
	case st.Code() == codes.Internal:
		return common.ErrorInternal
	}
	for _, e := range errorTable {
		if e.code != st.Code() {
			continue
		}
		if msg == e.err.Error() {
			return e.err
		}
		if e.err == common.ErrValidation && len(msg) > len(e.err.Error()) && msg[:len(e.err.Error())] == e.err.Error() {
			return &wireError{sentinel: e.err, msg: msg}
		}
	}
	return err
}

type wireError struct {
	sentinel error
	msg      string
}

func (e *wireError) Error() string { return e.msg }
func (e *wireError) Unwrap() error { return e.sentinel }
