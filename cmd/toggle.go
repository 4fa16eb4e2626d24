package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
	"modshelf/ui"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle <asset-id>",
	Short: "Enable or disable a mod by renaming its folder",
	Long: `Flips a mod between enabled and disabled by adding or removing the
DISABLED_ prefix on its folder. The catalog entry never changes; the
folder name on disk is the only record of the state.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id, ok := parseAssetID(args[0])
		if !ok {
			logger.Log.Fatalw("Invalid asset id", zap.String("arg", args[0]))
		}
		bootstrap(".")
		base := mustModsBase()

		asset, err := catalog.AssetByID(db.DB, id)
		if err != nil {
			logger.Log.Fatalw("Unknown asset", zap.Uint("id", id), zap.Error(err))
		}
		enabled, err := scanner.Toggle(base, asset.FolderName)
		if err != nil {
			logger.Log.Fatalw("Toggle failed", zap.String("mod", asset.Name), zap.Error(err))
		}
		fmt.Printf("%s is now %s\n", asset.Name, ui.StateLabel(enabled))
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
