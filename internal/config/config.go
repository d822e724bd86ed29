// Package config resolves tally settings from flags, config.yaml, TALLY_
// environment variables, and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys, as written in config.yaml.
const (
	KeyDatabasePath  = "database.path"
	KeyCurrency      = "currency.default"
	KeyMonthlyBudget = "budget.monthly_default"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

const (
	// EnvPrefix namespaces environment overrides: database.path is read from
	// TALLY_DATABASE_PATH.
	EnvPrefix = "TALLY"

	// DefaultDatabasePath is used when database.path is unset.
	DefaultDatabasePath = "$HOME/.local/share/tally/tally.db"
)

// Config holds the resolved settings for one run.
type Config struct {
	DatabasePath  string  `validate:"required"`
	Currency      string  `validate:"required,iso4217"`
	LogLevel      string  `validate:"oneof=debug info warn warning error"`
	LogFormat     string  `validate:"oneof=console json"`
	MonthlyBudget float64 `validate:"gt=0"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyCurrency, "USD")
	v.SetDefault(KeyMonthlyBudget, 50000)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Init prepares v for reading: defaults, the config file, and environment
// overrides. An explicit cfgFile must exist; otherwise config.yaml is looked
// up in $HOME/.config/tally and the working directory, and may be absent.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		v.AddConfigPath(filepath.Join(home, ".config", "tally"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return nil
}

// Load resolves the settings held by v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath:  ExpandPath(v.GetString(KeyDatabasePath)),
		Currency:      strings.ToUpper(strings.TrimSpace(v.GetString(KeyCurrency))),
		MonthlyBudget: v.GetFloat64(KeyMonthlyBudget),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Config{}, fmt.Errorf("%w: %s has invalid value %q", common.ErrInvalidConfig, keyFor(fe.Field()), fmt.Sprint(fe.Value()))
		}
		return Config{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	return cfg, nil
}

func keyFor(field string) string {
	switch field {
	case "DatabasePath":
		return KeyDatabasePath
	case "Currency":
		return KeyCurrency
	case "MonthlyBudget":
		return KeyMonthlyBudget
	case "LogLevel":
		return KeyLogLevel
	case "LogFormat":
		return KeyLogFormat
	default:
		return field
	}
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
