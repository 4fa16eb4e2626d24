package cmd

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/db"
	"modshelf/logger"
)

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the configured game or tool executable",
	Long: `Starts the executable stored under the ` + db.SettingQuickLaunch + `
setting and returns immediately; the process keeps running on its own.`,
	Run: func(_ *cobra.Command, _ []string) {
		bootstrap(".")

		target, ok, err := db.GetSetting(db.DB, db.SettingQuickLaunch)
		if err != nil {
			logger.Log.Fatalw("Failed to read quick launch setting", zap.Error(err))
		}
		if !ok || target == "" {
			logger.Log.Fatalw("Quick launch is not configured",
				zap.String("hint", "modshelf settings set "+db.SettingQuickLaunch+" <path>"))
		}

		proc := exec.Command(target)
		proc.Dir = filepath.Dir(target)
		if err := proc.Start(); err != nil {
			logger.Log.Fatalw("Failed to start executable", zap.String("path", target), zap.Error(err))
		}
		// Detach: the child outlives this process.
		if err := proc.Process.Release(); err != nil {
			logger.Log.Warnw("Could not release child process", zap.Error(err))
		}
		fmt.Printf("Started %s\n", target)
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
