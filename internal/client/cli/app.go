package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tavernauth/internal/client/client"
	"github.com/dmitrijs2005/tavernauth/internal/client/config"
	"github.com/dmitrijs2005/tavernauth/internal/client/services"
	"github.com/dmitrijs2005/tavernauth/internal/client/tokenstore"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	closers     []func() error
}

// NewApp opens the configured storage backend and builds the auth service
// on top of it. Call Close (or Run, which closes on return) to release the
// backend.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repo, closeRepo, err := openStorage(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening token store", "backend", c.StorageBackend, "err", err)
		return nil, err
	}

	requester := client.NewRequester(client.WithTimeout(c.RequestTimeout), client.WithLogger(log))
	api := client.NewAuthAPI(requester, c.Endpoints(), log)
	store := tokenstore.New(repo, tokenstore.WithLogger(log))

	a := &App{
		config:  c,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func() error{closeRepo},
	}
	a.authService = services.NewAuthService(api, store,
		services.WithLogger(log),
		services.WithPhaseObserver(a.showPhase),
	)
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "error closing token store", "err", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.authService.IsAuthenticated(ctx)
}

// showPhase keeps the user informed while a request is in flight. The REPL
// does not read the next command until the action returns.
func (a *App) showPhase(_ context.Context, p services.Phase) {
	switch p {
	case services.PhaseSubmitting:
		fmt.Fprintln(a.out, "Casting spell...")
	case services.PhaseAutoLoggingIn:
		fmt.Fprintln(a.out, "Account created, opening the tavern door...")
	}
}
