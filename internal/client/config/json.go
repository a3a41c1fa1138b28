package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tavernauth/internal/flagx"
	"github.com/dmitrijs2005/tavernauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations are
// timex.Duration so "10s" and integer nanoseconds both work.
type JsonConfig struct {
	LoginURL       string          `json:"login_url"`
	RegisterURL    string          `json:"register_url"`
	LogoutURL      string          `json:"logout_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StorageBackend string          `json:"storage_backend"`
	StorageDSN     string          `json:"storage_dsn"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file leave cfg untouched. Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.Lookup(args, flagx.ConfigFlags...)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&cfg.LoginURL, jc.LoginURL)
	overlay(&cfg.RegisterURL, jc.RegisterURL)
	overlay(&cfg.LogoutURL, jc.LogoutURL)
	overlay(&cfg.StorageBackend, jc.StorageBackend)
	overlay(&cfg.StorageDSN, jc.StorageDSN)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
