package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <asset-id>",
	Short: "Remove a mod from the catalog",
	Long: `Removes a mod's catalog entry and its preset memberships. The folder
on disk is kept unless --purge is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, ok := parseAssetID(args[0])
		if !ok {
			logger.Log.Fatalw("Invalid asset id", zap.String("arg", args[0]))
		}
		bootstrap(".")

		asset, err := catalog.AssetByID(db.DB, id)
		if err != nil {
			logger.Log.Fatalw("Unknown asset", zap.Uint("id", id), zap.Error(err))
		}

		purge, _ := cmd.Flags().GetBool("purge")
		if purge {
			base := mustModsBase()
			res := scanner.Resolve(base, asset.FolderName)
			if res.State != scanner.Orphaned {
				if err := os.RemoveAll(res.ActualPath); err != nil {
					logger.Log.Fatalw("Failed to remove mod folder",
						zap.String("path", res.ActualPath), zap.Error(err))
				}
				fmt.Printf("Removed folder %s\n", res.ActualPath)
			}
		}

		if err := catalog.DeleteAssets(db.DB, []uint{id}); err != nil {
			logger.Log.Fatalw("Failed to delete catalog entry", zap.Uint("id", id), zap.Error(err))
		}
		fmt.Printf("Deleted %s from the catalog\n", asset.Name)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().Bool("purge", false, "Also delete the mod folder from disk")
}
