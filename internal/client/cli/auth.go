package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/client/services"
	"github.com/dmitrijs2005/tavernauth/internal/common"
)

// getSimpleText and getPassword are swapped out in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register asks for a hero name, email and password, then creates the
// account and logs in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose your hero name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password: ", a.out)
	if err != nil {
		return err
	}

	return a.report(ctx, a.authService.Register(ctx, username, email, passwordString(password)))
}

// Login asks for an email or username and a password.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password: ", a.out)
	if err != nil {
		return err
	}

	return a.report(ctx, a.authService.Login(ctx, identifier, passwordString(password)))
}

// Logout ends the session on the server when possible and always forgets
// it locally.
func (a *App) Logout(ctx context.Context) error {
	return a.report(ctx, a.authService.Logout(ctx))
}

// Status prints what the token store currently holds.
func (a *App) Status(ctx context.Context) error {
	rec, ok := a.authService.Session(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(a.out, "Hero:      %s\n", rec.Username)
	fmt.Fprintf(a.out, "Email:     %s\n", valueOr(rec.Email, "-"))
	fmt.Fprintf(a.out, "User ID:   %s\n", valueOr(rec.UserID, "-"))
	fmt.Fprintf(a.out, "Logged in: %s\n", formatMillis(&rec.LoginTimestamp))

	state := "valid"
	if a.authService.IsAccessTokenExpired(ctx) {
		state = "expired"
	}
	fmt.Fprintf(a.out, "Session:   %s (expires %s)\n", state, formatMillis(rec.AccessTokenExpiresAt))

	if rec.RefreshToken != "" {
		state = "valid"
		if a.authService.IsRefreshTokenExpired(ctx) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Refresh:   %s (expires %s)\n", state, formatMillis(rec.RefreshTokenExpiresAt))
	}
	return nil
}

// report prints the outcome's message and turns a failure into an error.
func (a *App) report(ctx context.Context, out services.Outcome) error {
	fmt.Fprintln(a.out, out.Message)
	if out.OK() {
		return nil
	}
	a.log.Debug(ctx, "action failed", "kind", out.Kind.String(), "err", out.Err)
	return errors.New(out.Message)
}

// passwordString copies the terminal read buffer into a string and zeroes
// the buffer. Only the buffer is cleared; the returned string lives on until
// it is collected.
func passwordString(b []byte) string {
	s := string(b)
	common.WipeByteArray(b)
	return s
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatMillis(ms *int64) string {
	if ms == nil {
		return "unknown"
	}
	return time.UnixMilli(*ms).Local().Format(time.RFC1123)
}
