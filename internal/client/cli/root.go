package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus(ctx context.Context) string {
	rec, ok := a.authService.Session(ctx)
	if !ok {
		return ""
	}
	name := rec.Username
	if name == "" {
		name = rec.Email
	}
	if a.authService.IsAccessTokenExpired(ctx) {
		return fmt.Sprintf("(%s, session expired)", name)
	}
	return fmt.Sprintf("(%s)", name)
}

// Root greets the user and runs the REPL until exit or end of input.
// A still-valid stored session is picked up without asking for credentials.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the Tavern (type 'help' for commands)")

	if a.authService.IsSessionValid(ctx) {
		if rec, ok := a.authService.Session(ctx); ok {
			fmt.Fprintf(a.out, "Welcome back, %s!\n", rec.Username)
		}
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
