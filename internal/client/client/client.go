package client

import (
	"context"
)

// Credentials is what the user typed into a login or registration form.
// It is never persisted.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Client is the remote auth API contract. Implementations return the raw
// decoded response body; interpreting its shape is the caller's job.
type Client interface {
	Login(ctx context.Context, creds Credentials) (any, error)
	Register(ctx context.Context, creds Credentials) (any, error)
	Logout(ctx context.Context, refreshToken string, userID string) (any, error)
}
