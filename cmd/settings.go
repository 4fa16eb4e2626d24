package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/db"
	"modshelf/logger"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write application settings",
	Long: `Settings live in the catalog database, not in the environment, so
they survive reinstalls and can be changed from inside the app.

Known keys:
  ` + db.SettingModsFolder + `    root directory scanned for mods (required)
  ` + db.SettingQuickLaunch + `   executable started by 'modshelf launch'`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting's value",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		value, ok, err := db.GetSetting(db.DB, args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to read setting", zap.String("key", args[0]), zap.Error(err))
		}
		if !ok {
			fmt.Printf("%s is not set\n", args[0])
			return
		}
		fmt.Println(value)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		key, value := args[0], args[1]

		// The mods folder must exist before anything can scan it.
		if key == db.SettingModsFolder {
			abs, err := filepath.Abs(value)
			if err != nil {
				logger.Log.Fatalw("Invalid path", zap.String("value", value), zap.Error(err))
			}
			info, err := os.Stat(abs)
			if err != nil || !info.IsDir() {
				logger.Log.Fatalw("Mods folder must be an existing directory", zap.String("path", abs))
			}
			value = abs
		}

		if err := db.SetSetting(db.DB, key, value); err != nil {
			logger.Log.Fatalw("Failed to write setting", zap.String("key", key), zap.Error(err))
		}
		fmt.Printf("%s = %s\n", key, value)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
