package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"diskowner/infrastructure/crashreport"
	"diskowner/infrastructure/y360client"
	"diskowner/logging"
)

// AppConfig holds process-wide configuration read from the environment.
// The operator's token and organization live in the credential store, not here.
type AppConfig struct {
	// ConfigDir overrides the credential directory; empty means ~/.y360_disk_owner.
	ConfigDir   string `env:"DISKOWNER_CONFIG_DIR"`
	API         y360client.Config
	Logging     logging.Config
	CrashReport crashreport.Config
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
