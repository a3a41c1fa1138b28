package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tavernauth/internal/client/client"
)

// ErrorKind is a stable category for a failed action.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindTimeout
	KindNetwork
	KindHTTP
	KindPersistence
	KindAutoLogin
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindPersistence:
		return "persistence"
	case KindAutoLogin:
		return "auto-login"
	default:
		return "unexpected"
	}
}

const (
	MsgTimeout      = "The spell took too long to cast. Please try again."
	MsgNetwork      = "Cannot reach the tavern. Check your connection."
	MsgBadRequest   = "Invalid request. Please check your input."
	MsgUnauthorized = "Invalid credentials. Check your Email/Username and Password."
	MsgConflict     = "A hero with this email already exists. Try logging in instead."
	MsgServerError  = "The tavern keeper is unavailable. Please try again later."
	MsgUnexpected   = "An unexpected error occurred. Please try again."

	MsgLoginSaveFailed    = "Failed to save authentication data. Please try again."
	MsgRegisterSaveFailed = "Account created, but failed to save session data. Please log in."
	MsgAutoLoginFailed    = "Account created, but automatic login failed. Please log in manually."
	MsgLogoutClearFailed  = "Logged out, but local session data could not be fully removed."
)

// Classify maps a failure to its kind and the message shown to the user.
// Every input, nil included, yields a non-empty message.
func Classify(err error) (ErrorKind, string) {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return KindTimeout, MsgTimeout
		}
		return KindUnexpected, MsgUnexpected
	}

	if apiErr.IsTimeout {
		return KindTimeout, MsgTimeout
	}
	if apiErr.IsNetworkError {
		return KindNetwork, MsgNetwork
	}

	switch apiErr.Status {
	case http.StatusBadRequest:
		return KindHTTP, badRequestMessage(apiErr.Data)
	case http.StatusUnauthorized:
		return KindHTTP, MsgUnauthorized
	case http.StatusConflict:
		return KindHTTP, MsgConflict
	case http.StatusInternalServerError:
		return KindHTTP, MsgServerError
	case 0:
		return KindUnexpected, MsgUnexpected
	default:
		return KindHTTP, MsgUnexpected
	}
}

// badRequestMessage prefers the first field violation, then the body's
// message, then a generic text.
func badRequestMessage(data any) string {
	body, ok := data.(map[string]any)
	if !ok {
		return MsgBadRequest
	}
	if violations, ok := body["violations"].([]any); ok && len(violations) > 0 {
		if first, ok := violations[0].(map[string]any); ok {
			if msg, ok := first["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	return MsgBadRequest
}
