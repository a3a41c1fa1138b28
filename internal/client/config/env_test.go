package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvLoginURL:       "http://auth.example/login",
		EnvRegisterURL:    "http://users.example/users",
		EnvLogoutURL:      "http://auth.example/logout",
		EnvRequestTimeout: "2500ms",
		EnvStorageBackend: "redis",
		EnvStorageDSN:     "redis://localhost:6379/0",
		EnvLogLevel:       "",
	}
	cfg := defaults()
	applyEnv(cfg, func(k string) (string, bool) { v, ok := vars[k]; return v, ok })

	assert.Equal(t, &Config{
		LoginURL:       "http://auth.example/login",
		RegisterURL:    "http://users.example/users",
		LogoutURL:      "http://auth.example/logout",
		RequestTimeout: 2500 * time.Millisecond,
		StorageBackend: "redis",
		StorageDSN:     "redis://localhost:6379/0",
		LogLevel:       "info",
	}, cfg, "empty values are ignored")
}

func TestApplyEnv_BadTimeoutPanics(t *testing.T) {
	cfg := defaults()
	require.Panics(t, func() {
		applyEnv(cfg, func(k string) (string, bool) {
			if k == EnvRequestTimeout {
				return "soon", true
			}
			return "", false
		})
	})
}

func TestParseEnv_EnvFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dev.env", "# local\nTAVERNAUTH_LOGIN_URL=http://dev.example/login\n")

	cfg := defaults()
	parseEnv(cfg, []string{"-env=" + path})
	assert.Equal(t, "http://dev.example/login", cfg.LoginURL)
}

func TestParseEnv_MissingNamedFilePanics(t *testing.T) {
	cfg := defaults()
	require.Panics(t, func() { parseEnv(cfg, []string{"-e", filepath.Join(t.TempDir(), "nope.env")}) })
}

func TestParseEnv_MissingDefaultFileIgnored(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := defaults()
	require.NotPanics(t, func() { parseEnv(cfg, nil) })
	assert.Equal(t, defaults(), cfg)
}
