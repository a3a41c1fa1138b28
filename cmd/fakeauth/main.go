// Command fakeauth serves the in-memory tavern auth API for trying the
// client without the real services.
//
//	fakeauth -a :8081 -seed hero:hero@example.com:longenough1
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/client/authtest"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

func main() {

	addr := flag.String("a", ":8081", "listen address")
	seed := flag.String("seed", "", "comma-separated accounts to create, each username:email:password")
	secret := flag.String("secret", "", "HS256 signing key for access tokens")
	accessTTL := flag.Duration("access-ttl", authtest.DefaultAccessTTL, "access token lifetime")
	level := flag.String("l", "debug", "log level")
	flag.Parse()

	lvl, err := logging.ParseLevel(*level)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.New(os.Stderr, lvl)

	opts := []authtest.Option{
		authtest.WithLogger(logger),
		authtest.WithTokenTTL(*accessTTL, authtest.DefaultRefreshTTL),
	}
	if *secret != "" {
		opts = append(opts, authtest.WithSecret([]byte(*secret)))
	}
	fake := authtest.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	for _, acc := range strings.Split(*seed, ",") {
		if acc == "" {
			continue
		}
		parts := strings.SplitN(acc, ":", 3)
		if len(parts) != 3 {
			log.Fatalf("bad -seed entry %q, want username:email:password", acc)
		}
		if _, err := fake.Seed(ctx, parts[0], parts[1], parts[2]); err != nil {
			log.Fatalf("seed %q: %v", parts[0], err)
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fake.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown failed", "err", err)
		}
	}()

	logger.Info(ctx, "fake auth API listening", "addr", *addr,
		"login", authtest.LoginPath, "register", authtest.RegisterPath, "logout", authtest.LogoutPath)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}

}
