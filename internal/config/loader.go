package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/deskbooker/internal/logging"
)

// DefaultEnvFile is read when no dotenv file is named. Its absence is not an error.
const DefaultEnvFile = ".env"

// Config captures environment driven configuration values for the assistant.
type Config struct {
	SuperadminID       int64
	SuperadminName     string
	DBPath             string
	HTTPPort           int
	LogLevel           slog.Level
	BookingHorizonDays int
	WebhookSecret      string
}

// Load parses configuration from the process environment, falling back to
// values in DefaultEnvFile when it exists.
func Load() (Config, error) {
	return LoadWithEnvFile("")
}

// LoadWithEnvFile parses configuration from the process environment and the
// dotenv file at path. Process variables win over file entries. An empty path
// means DefaultEnvFile, which may be absent; a named file must exist.
//
// Missing and malformed values are reported together in one error.
func LoadWithEnvFile(path string) (Config, error) {
	fileValues, err := readEnvFile(path)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(fileValues[key])
	}

	cfg := Config{
		SuperadminName:     "superadmin",
		DBPath:             "data/bookings.db",
		HTTPPort:           8080,
		LogLevel:           slog.LevelInfo,
		BookingHorizonDays: 14,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	if idValue := lookup("DESKBOT_ADMIN_USER_ID"); idValue == "" {
		missing = append(missing, "DESKBOT_ADMIN_USER_ID")
	} else if id, err := strconv.ParseInt(idValue, 10, 64); err != nil || id <= 0 {
		invalid = append(invalid, "DESKBOT_ADMIN_USER_ID")
	} else {
		cfg.SuperadminID = id
	}

	if name := lookup("DESKBOT_ADMIN_USERNAME"); name != "" {
		cfg.SuperadminName = name
	}

	if dbPath := lookup("DESKBOT_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if portValue := lookup("DESKBOT_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "DESKBOT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if levelValue := lookup("DESKBOT_LOG_LEVEL"); levelValue != "" {
		level, err := logging.ParseLevel(levelValue)
		if err != nil {
			invalid = append(invalid, "DESKBOT_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if horizonValue := lookup("DESKBOT_BOOKING_HORIZON_DAYS"); horizonValue != "" {
		horizon, err := strconv.Atoi(horizonValue)
		if err != nil || horizon <= 0 {
			invalid = append(invalid, "DESKBOT_BOOKING_HORIZON_DAYS")
		} else {
			cfg.BookingHorizonDays = horizon
		}
	}

	cfg.WebhookSecret = lookup("DESKBOT_WEBHOOK_SECRET")

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	optional := path == ""
	if optional {
		path = DefaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}
