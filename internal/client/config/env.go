package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/tavernauth/internal/flagx"
)

const DefaultEnvFile = ".env"

// Environment variables read by parseEnv.
const (
	EnvLoginURL       = "TAVERNAUTH_LOGIN_URL"
	EnvRegisterURL    = "TAVERNAUTH_REGISTER_URL"
	EnvLogoutURL      = "TAVERNAUTH_LOGOUT_URL"
	EnvRequestTimeout = "TAVERNAUTH_REQUEST_TIMEOUT"
	EnvStorageBackend = "TAVERNAUTH_STORAGE_BACKEND"
	EnvStorageDSN     = "TAVERNAUTH_STORAGE_DSN"
	EnvLogLevel       = "TAVERNAUTH_LOG_LEVEL"
)

// parseEnv overlays cfg with TAVERNAUTH_* variables. Values come from the
// process environment first, then from the .env file named by -e/-env
// (default ".env", silently skipped when absent). A named file that cannot
// be read panics, as does an unparsable timeout.
func parseEnv(cfg *Config, args []string) {
	path := flagx.Lookup(args, flagx.EnvFileFlags...)
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		fileVars = map[string]string{}
	}

	applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvLoginURL, &cfg.LoginURL)
	str(EnvRegisterURL, &cfg.RegisterURL)
	str(EnvLogoutURL, &cfg.LogoutURL)
	str(EnvStorageBackend, &cfg.StorageBackend)
	str(EnvStorageDSN, &cfg.StorageDSN)
	str(EnvLogLevel, &cfg.LogLevel)

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
