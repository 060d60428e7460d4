package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the YAML file at path and applies APP_* environment overrides.
// Secrets (postgres user/password/db) are expected from the environment and
// are required; their absence is a startup error, not a runtime surprise.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	// AutomaticEnv alone doesn't surface env-only keys through Unmarshal,
	// so the secret keys are bound explicitly.
	for _, key := range []string{"postgres.user", "postgres.password", "postgres.db"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var missing []string
	if config.Postgres.User == "" {
		missing = append(missing, "APP_POSTGRES_USER")
	}
	if config.Postgres.Password == "" {
		missing = append(missing, "APP_POSTGRES_PASSWORD")
	}
	if config.Postgres.DBName == "" {
		missing = append(missing, "APP_POSTGRES_DB")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return &config, nil
}
