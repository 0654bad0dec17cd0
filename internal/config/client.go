package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClientConfig configures the clinic CLI.
type ClientConfig struct {
	APIURL         string        `mapstructure:"CLINIC_API_URL"`
	SessionFile    string        `mapstructure:"CLINIC_SESSION_FILE"`
	RequestTimeout time.Duration `mapstructure:"CLINIC_REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

// flag name -> config key
var clientFlagKeys = map[string]string{
	"api-url":      "CLINIC_API_URL",
	"session-file": "CLINIC_SESSION_FILE",
	"timeout":      "CLINIC_REQUEST_TIMEOUT",
	"log-level":    "LOG_LEVEL",
}

// LoadClient resolves the client configuration from flags, the environment
// and defaults, in that order of precedence. flags may be nil.
func LoadClient(flags *pflag.FlagSet) (*ClientConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("CLINIC_API_URL", "http://localhost:8000/api")
	v.SetDefault("CLINIC_SESSION_FILE", defaultSessionFile())
	v.SetDefault("CLINIC_REQUEST_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "warn")

	for _, key := range clientFlagKeys {
		v.BindEnv(key)
	}
	if flags != nil {
		for name, key := range clientFlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal client config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("CLINIC_API_URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("CLINIC_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clinic-session.json"
	}
	return filepath.Join(dir, "clinic", "session.json")
}
