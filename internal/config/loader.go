package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the studio scheduler service.
//
// Values come from three layers, each overriding the previous one: built-in
// defaults, an optional YAML file named by STUDIO_CONFIG_FILE, and STUDIO_*
// environment variables.
type Config struct {
	HTTPPort             int           `yaml:"http_port" validate:"gt=0,lte=65535"`
	SQLiteDSN            string        `yaml:"sqlite_dsn" validate:"required"`
	SessionSecret        string        `yaml:"session_secret" validate:"required"`
	SessionTTL           time.Duration `yaml:"session_ttl" validate:"gt=0"`
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval" validate:"gt=0"`
	DefaultTimezone      string        `yaml:"default_timezone" validate:"required,timezone"`
}

var structValidator = validator.New()

// Load assembles configuration from defaults, the optional YAML file, and the
// process environment, then validates the result.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:             8080,
		SQLiteDSN:            "file:studio.db?_foreign_keys=on",
		SessionTTL:           24 * time.Hour,
		SessionSweepInterval: time.Hour,
		DefaultTimezone:      "Europe/Berlin",
	}

	if path := strings.TrimSpace(os.Getenv("STUDIO_CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	missing, invalid := applyEnvironment(&cfg)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			fields := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				fields = append(fields, fe.Field())
			}
			return Config{}, fmt.Errorf("configuration values are invalid: %s", strings.Join(fields, ", "))
		}
		return Config{}, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvironment(cfg *Config) (missing, invalid []string) {
	if portValue := strings.TrimSpace(os.Getenv("STUDIO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDIO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDIO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("STUDIO_SESSION_SECRET")); secret != "" {
		cfg.SessionSecret = secret
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "STUDIO_SESSION_SECRET")
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STUDIO_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STUDIO_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if sweepValue := strings.TrimSpace(os.Getenv("STUDIO_SESSION_SWEEP_INTERVAL")); sweepValue != "" {
		sweep, err := time.ParseDuration(sweepValue)
		if err != nil || sweep <= 0 {
			invalid = append(invalid, "STUDIO_SESSION_SWEEP_INTERVAL")
		} else {
			cfg.SessionSweepInterval = sweep
		}
	}

	if tz := strings.TrimSpace(os.Getenv("STUDIO_DEFAULT_TIMEZONE")); tz != "" {
		cfg.DefaultTimezone = tz
	}

	return missing, invalid
}
