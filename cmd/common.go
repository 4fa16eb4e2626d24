package cmd

import (
	"strconv"

	"go.uber.org/zap"

	"modshelf/config"
	"modshelf/db"
	"modshelf/logger"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	return cfg
}

// mustModsBase returns the configured mods folder or exits with a hint on
// how to set it. Almost every command needs it.
func mustModsBase() string {
	base, err := db.ModsBasePath(db.DB)
	if err != nil {
		logger.Log.Fatalw("Mods folder not configured", zap.Error(err))
	}
	return base
}

// parseAssetID parses a positional asset id argument.
func parseAssetID(arg string) (uint, bool) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
