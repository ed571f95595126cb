package cli

import (
	"errors"
	"io"

	"github.com/dmitrijs2005/familyvault/internal/client/client"
	"github.com/dmitrijs2005/familyvault/internal/client/emergency"
	"github.com/dmitrijs2005/familyvault/internal/common"
)

var messages = []struct {
	err error
	msg string
}{
	{common.ErrMismatch, "the code is not correct"},
	{common.ErrExpired, "the code has expired, request a new one"},
	{common.ErrAlreadyUsed, "the code was already used, request a new one"},
	{common.ErrTooManyAttempts, "too many attempts, request a new code"},
	{common.ErrConflict, "already exists"},
	{common.ErrDelivery, "the email could not be sent, try again"},
	{common.ErrTokenExpired, "session expired, please log in again"},
	{common.ErrRefreshTokenExpired, "session expired, please log in again"},
	{common.ErrInvalidToken, "session expired, please log in again"},
	{common.ErrorUnauthorized, "wrong email or password"},
	{common.ErrorNotFound, "not found"},
	{client.ErrUnavailable, "server unavailable, try again later"},
	{emergency.ErrInvalidTransition, "not possible at this step"},
}

// describe turns an error into text for the user. Validation errors keep
// their own message.
func describe(err error) string {
	var denied *common.AccessDeniedError
	if errors.As(err, &denied) && denied.Reason == common.ReasonInsufficientLevel {
		return "this document is shared for viewing only"
	}
	if errors.Is(err, common.ErrAccessDenied) {
		return common.AccessDeniedGenericMessage
	}
	if errors.Is(err, common.ErrValidation) {
		return err.Error()
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

func isInputEnd(err error) bool {
	return errors.Is(err, io.EOF)
}
