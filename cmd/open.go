package cmd

import (
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open [asset-id]",
	Short: "Open the mods folder (or one mod's folder) in the file manager",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		base := mustModsBase()

		target := base
		if len(args) == 1 {
			id, ok := parseAssetID(args[0])
			if !ok {
				logger.Log.Fatalw("Invalid asset id", zap.String("arg", args[0]))
			}
			asset, err := catalog.AssetByID(db.DB, id)
			if err != nil {
				logger.Log.Fatalw("Unknown asset", zap.Uint("id", id), zap.Error(err))
			}
			res := scanner.Resolve(base, asset.FolderName)
			if res.State == scanner.Orphaned {
				logger.Log.Fatalw("Mod folder not found on disk",
					zap.String("folder", asset.FolderName))
			}
			target = res.ActualPath
		}

		if err := openInFileManager(target); err != nil {
			logger.Log.Fatalw("Failed to open folder", zap.String("path", target), zap.Error(err))
		}
	},
}

func openInFileManager(path string) error {
	var proc *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		proc = exec.Command("explorer", path)
	case "darwin":
		proc = exec.Command("open", path)
	default:
		proc = exec.Command("xdg-open", path)
	}
	return proc.Start()
}

func init() {
	rootCmd.AddCommand(openCmd)
}
