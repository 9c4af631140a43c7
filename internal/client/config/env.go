package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAPIURL         = "HEALTHDASH_API_URL"
	envRequestTimeout = "HEALTHDASH_REQUEST_TIMEOUT"
	envDatabase       = "HEALTHDASH_DB"
	envLogLevel       = "HEALTHDASH_LOG_LEVEL"
	envLogBackend     = "HEALTHDASH_LOG_BACKEND"
	envLogFormat      = "HEALTHDASH_LOG_FORMAT"
)

// dotEnvFile is read before the environment is inspected. Variables that are
// already set win over the file.
var dotEnvFile = ".env"

func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	if v, ok := os.LookupEnv(envAPIURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(envDatabase); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envLogBackend); ok {
		cfg.LogBackend = v
	}
	if v, ok := os.LookupEnv(envLogFormat); ok {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv(envRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
