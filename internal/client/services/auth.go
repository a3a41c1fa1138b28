// Package services holds the client's application services. The auth
// service runs the login, registration and logout flows on top of the
// remote API client and the local token store.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/tavernauth/internal/client/client"
	"github.com/dmitrijs2005/tavernauth/internal/client/tokenstore"
	"github.com/dmitrijs2005/tavernauth/internal/client/validate"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

const (
	msgLoginSucceeded    = "Login successful."
	msgRegisterSucceeded = "Registration successful."
	msgLogoutSucceeded   = "Logged out."
)

// AuthService is what a front end calls. Actions never return errors:
// every failure is folded into the Outcome with a user-facing message.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) Outcome
	Register(ctx context.Context, username, email, password string) Outcome
	Logout(ctx context.Context) Outcome

	IsAuthenticated(ctx context.Context) bool
	IsAccessTokenExpired(ctx context.Context) bool
	IsRefreshTokenExpired(ctx context.Context) bool
	IsSessionValid(ctx context.Context) bool
	Session(ctx context.Context) (tokenstore.Record, bool)
}

type authService struct {
	client  client.Client
	store   *tokenstore.Store
	log     logging.Logger
	observe PhaseObserver
}

type Option func(*authService)

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.log = l }
}

func WithPhaseObserver(fn PhaseObserver) Option {
	return func(a *authService) { a.observe = fn }
}

func NewAuthService(c client.Client, store *tokenstore.Store, opts ...Option) AuthService {
	a := &authService{
		client:  c,
		store:   store,
		log:     logging.NewNop(),
		observe: func(context.Context, Phase) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login validates the form, authenticates, and persists the returned
// tokens. An identifier containing '@' is sent as the email, with its
// local part as the username; anything else is sent as the username.
func (a *authService) Login(ctx context.Context, identifier, password string) Outcome {
	a.observe(ctx, PhaseValidating)
	identifier = strings.TrimSpace(identifier)
	password = strings.TrimSpace(password)

	if r := validate.First(validate.Identifier(identifier), validate.Password(password)); !r.Valid {
		return a.fail(ctx, KindValidation, r.Message, nil)
	}

	creds := loginCredentials(identifier, password)

	a.observe(ctx, PhaseSubmitting)
	rec, err := a.login(ctx, creds)
	if err != nil {
		kind, msg := Classify(err)
		a.log.Warn(ctx, "login failed", "kind", kind.String(), "err", err)
		return a.fail(ctx, kind, msg, err)
	}

	// Username logins send no email; the identifier stands in for it locally.
	if rec.Email == "" {
		rec.Email = identifier
	}

	if !a.store.Save(ctx, rec) {
		return a.fail(ctx, KindPersistence, MsgLoginSaveFailed, nil)
	}

	a.log.Info(ctx, "login succeeded", "user", rec.Username, "user_id", rec.UserID)
	return a.succeed(ctx, msgLoginSucceeded, NavigateAuthenticated)
}

// Register creates the account and immediately logs in with the same
// credentials. A failed auto-login leaves the account in place and the
// store empty.
func (a *authService) Register(ctx context.Context, username, email, password string) Outcome {
	a.observe(ctx, PhaseValidating)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	r := validate.First(validate.Username(username), validate.Email(email), validate.Password(password))
	if !r.Valid {
		return a.fail(ctx, KindValidation, r.Message, nil)
	}

	creds := client.Credentials{Username: username, Email: email, Password: password}

	a.observe(ctx, PhaseSubmitting)
	if _, err := a.client.Register(ctx, creds); err != nil {
		kind, msg := Classify(err)
		a.log.Warn(ctx, "registration failed", "kind", kind.String(), "err", err)
		return a.fail(ctx, kind, msg, err)
	}
	a.log.Info(ctx, "registration succeeded, logging in", "user", username)

	a.observe(ctx, PhaseAutoLoggingIn)
	rec, err := a.login(ctx, creds)
	if err != nil {
		a.log.Warn(ctx, "auto-login after registration failed", "err", err)
		return a.fail(ctx, KindAutoLogin, MsgAutoLoginFailed, err)
	}

	if !a.store.Save(ctx, rec) {
		return a.fail(ctx, KindPersistence, MsgRegisterSaveFailed, nil)
	}

	return a.succeed(ctx, msgRegisterSucceeded, NavigateAuthenticated)
}

// Logout tells the server to revoke the refresh token when one is stored,
// then clears local state no matter what the server said.
func (a *authService) Logout(ctx context.Context) Outcome {
	refreshToken, hasRefresh := a.store.RefreshToken(ctx)
	userID, hasUser := a.store.UserID(ctx)

	if hasRefresh && hasUser {
		callCtx := ctx
		if token, ok := a.store.AccessToken(ctx); ok {
			callCtx = client.WithAccessToken(ctx, token)
		}
		_, err := a.client.Logout(callCtx, refreshToken, userID)
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			a.log.Warn(ctx, "server rejected the access token, clearing local session anyway", "err", err)
		case err != nil:
			a.log.Warn(ctx, "server logout failed, clearing local session anyway", "err", err)
		}
	} else {
		a.log.Debug(ctx, "no refresh token or user id stored, skipping server logout")
	}

	if !a.store.Clear(ctx) {
		return Outcome{
			State:    StateSucceeded,
			Kind:     KindPersistence,
			Message:  MsgLogoutClearFailed,
			Navigate: NavigateUnauthenticated,
		}
	}

	a.log.Info(ctx, "logged out")
	return Outcome{State: StateSucceeded, Message: msgLogoutSucceeded, Navigate: NavigateUnauthenticated}
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.store.IsAuthenticated(ctx)
}

func (a *authService) IsAccessTokenExpired(ctx context.Context) bool {
	return a.store.IsAccessTokenExpired(ctx)
}

func (a *authService) IsRefreshTokenExpired(ctx context.Context) bool {
	return a.store.IsRefreshTokenExpired(ctx)
}

func (a *authService) IsSessionValid(ctx context.Context) bool {
	return a.store.IsSessionValid(ctx)
}

func (a *authService) Session(ctx context.Context) (tokenstore.Record, bool) {
	return a.store.Load(ctx)
}

func (a *authService) login(ctx context.Context, creds client.Credentials) (tokenstore.Record, error) {
	data, err := a.client.Login(ctx, creds)
	if err != nil {
		return tokenstore.Record{}, err
	}
	return normalizeLogin(data, tokenstore.Record{Username: creds.Username, Email: creds.Email})
}

func loginCredentials(identifier, password string) client.Credentials {
	local, _, isEmail := strings.Cut(identifier, "@")
	if !isEmail {
		return client.Credentials{Username: identifier, Password: password}
	}
	return client.Credentials{Username: local, Email: identifier, Password: password}
}

func (a *authService) fail(ctx context.Context, kind ErrorKind, msg string, err error) Outcome {
	a.observe(ctx, PhaseFailed)
	return Outcome{State: StateFailed, Kind: kind, Message: msg, Err: err}
}

func (a *authService) succeed(ctx context.Context, msg string, to Destination) Outcome {
	a.observe(ctx, PhaseSucceeded)
	return Outcome{State: StateSucceeded, Message: msg, Navigate: to}
}
