package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/client/client"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

// Storage backends understood by the CLI.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	DefaultLoginURL    = "http://127.0.0.1:8081/auth/login-tokens"
	DefaultRegisterURL = "http://127.0.0.1:8081/users"
	DefaultLogoutURL   = "http://127.0.0.1:8081/auth/logout"
	DefaultStorageDSN  = "tavernauth.db"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the tavern auth CLI.
//
// The three endpoint URLs are independent because login and registration
// may live on different services.
type Config struct {
	LoginURL       string
	RegisterURL    string
	LogoutURL      string
	RequestTimeout time.Duration
	StorageBackend string
	StorageDSN     string
	LogLevel       string
}

func (c *Config) LoadDefaults() {
	c.LoginURL = DefaultLoginURL
	c.RegisterURL = DefaultRegisterURL
	c.LogoutURL = DefaultLogoutURL
	c.RequestTimeout = client.DefaultTimeout
	c.StorageBackend = BackendSQLite
	c.StorageDSN = DefaultStorageDSN
	c.LogLevel = "info"
}

// LoadConfig builds a Config from os.Args. Sources are applied in order,
// later ones winning: defaults, .env file and environment, JSON file, flags.
// Unreadable files and malformed values panic.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load is LoadConfig over explicit arguments.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, args)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// Endpoints returns the API URLs in the form the auth client expects.
func (c *Config) Endpoints() client.Endpoints {
	return client.Endpoints{
		Login:    c.LoginURL,
		Register: c.RegisterURL,
		Logout:   c.LogoutURL,
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"login url":    c.LoginURL,
		"register url": c.RegisterURL,
		"logout url":   c.LogoutURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s %q is not an absolute URL", ErrInvalidConfig, name, raw)
		}
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	}

	switch c.StorageBackend {
	case BackendSQLite, BackendFile, BackendRedis:
		if c.StorageDSN == "" {
			return fmt.Errorf("%w: storage backend %q needs a dsn", ErrInvalidConfig, c.StorageBackend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.StorageBackend)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
