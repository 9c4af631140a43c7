// Package config loads runtime configuration for the health dashboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables, after loading a .env file from the working
//     directory when one exists.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the auth API
//	-t int      request timeout (seconds)
//	-d string   SQLite database path for the token store
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s",
//	  "database_dsn": "healthdash.db",
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	HEALTHDASH_API_URL, HEALTHDASH_REQUEST_TIMEOUT, HEALTHDASH_DB,
//	HEALTHDASH_LOG_LEVEL, HEALTHDASH_LOG_BACKEND, HEALTHDASH_LOG_FORMAT
package config
