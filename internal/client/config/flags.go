package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/flagx"
)

var knownFlags = []string{"-login", "-register", "-logout", "-t", "-s", "-d", "-l"}

// parseFlags overlays cfg with command-line flags:
//
//	-login string      login endpoint URL
//	-register string   registration endpoint URL
//	-logout string     logout endpoint URL
//	-t int             request timeout in seconds
//	-s string          storage backend: sqlite, file, redis or memory
//	-d string          storage DSN (sqlite path, file path or redis URL)
//	-l string          log level
//
// Other arguments are filtered out first. A malformed value panics.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("tavernauth", flag.ContinueOnError)

	fs.StringVar(&cfg.LoginURL, "login", cfg.LoginURL, "login endpoint URL")
	fs.StringVar(&cfg.RegisterURL, "register", cfg.RegisterURL, "registration endpoint URL")
	fs.StringVar(&cfg.LogoutURL, "logout", cfg.LogoutURL, "logout endpoint URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
