package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
//
// Note that the mods base directory is deliberately NOT part of this struct:
// it lives in the catalog's settings table (key "mods_folder_path") so the
// user can change it from inside the app without touching the environment.
type Config struct {
	DataDir          string `mapstructure:"DATA_DIR"`          // where the catalog database lives
	FallbackCategory string `mapstructure:"FALLBACK_CATEGORY"` // category slug used when deduction finds nothing
	DatabasePath     string `mapstructure:"-"`                 // Not from env, derived
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	viper.AutomaticEnv()

	if vipErr = viper.BindEnv("data_dir", "DATA_DIR"); vipErr != nil {
		slog.Warn("Unable to bind DATA_DIR env var", "error", vipErr)
	}
	if vipErr = viper.BindEnv("fallback_category", "FALLBACK_CATEGORY"); vipErr != nil {
		slog.Warn("Unable to bind FALLBACK_CATEGORY env var", "error", vipErr)
	}

	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Keep the database next to the rest of the app data.
	config.DatabasePath = filepath.Join(config.DataDir, "modshelf.db")

	return config, nil
}

// processConfigDefaults fills in defaults for values that were not provided.
func processConfigDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "."
		slog.Info("DATA_DIR not set, using current directory")
	}
}

// validateAndEnsureDirectories checks required values and creates the data
// directory if it does not exist yet.
func validateAndEnsureDirectories(cfg *Config) error {
	if cfg.FallbackCategory == "" {
		slog.Error("FALLBACK_CATEGORY is not set")
		return fmt.Errorf("FALLBACK_CATEGORY is required (category slug used when a mod cannot be classified)")
	}

	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		slog.Info("Data directory does not exist, creating it", "path", cfg.DataDir)
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			slog.Error("Failed to create data directory", "path", cfg.DataDir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check data directory", "path", cfg.DataDir, "error", err)
		return err
	}

	return nil
}
