package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// relocateCmd represents the relocate command
var relocateCmd = &cobra.Command{
	Use:   "relocate <asset-id> <entity-slug>",
	Short: "Move a mod's folder under a different entity",
	Long: `Moves a mod's folder into <category>/<entity>/ for the target entity
and updates its catalog entry. A disabled mod stays disabled after
the move.`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		id, ok := parseAssetID(args[0])
		if !ok {
			logger.Log.Fatalw("Invalid asset id", zap.String("arg", args[0]))
		}
		bootstrap(".")
		base := mustModsBase()

		newRel, err := scanner.Relocate(db.DB, base, id, args[1])
		if err != nil {
			logger.Log.Fatalw("Relocate failed", zap.Uint("id", id), zap.Error(err))
		}
		fmt.Printf("Moved to %s\n", newRel)
	},
}

func init() {
	rootCmd.AddCommand(relocateCmd)
}
