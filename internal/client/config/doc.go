// Package config loads runtime configuration for the tavern auth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. TAVERNAUTH_* environment variables, falling back to a .env file
//     (-e/-env, default ".env").
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "login_url": "http://127.0.0.1:8081/auth/login-tokens",
//	  "register_url": "http://127.0.0.1:8081/users",
//	  "logout_url": "http://127.0.0.1:8081/auth/logout",
//	  "request_timeout": "10s",
//	  "storage_backend": "sqlite",
//	  "storage_dsn": "tavernauth.db",
//	  "log_level": "info"
//	}
//
// request_timeout accepts a duration string or integer nanoseconds.
package config
