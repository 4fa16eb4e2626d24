package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <asset-id>",
	Short: "Edit a mod's display metadata",
	Long: `Updates the display fields of a catalog entry. Only the flags you
pass are changed; the folder on disk is untouched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, ok := parseAssetID(args[0])
		if !ok {
			logger.Log.Fatalw("Invalid asset id", zap.String("arg", args[0]))
		}
		bootstrap(".")

		var update catalog.AssetUpdate
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			update.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			update.Description = &v
		}
		if cmd.Flags().Changed("author") {
			v, _ := cmd.Flags().GetString("author")
			update.Author = &v
		}
		if cmd.Flags().Changed("tag") {
			v, _ := cmd.Flags().GetString("tag")
			update.CategoryTag = &v
		}
		if cmd.Flags().Changed("image") {
			v, _ := cmd.Flags().GetString("image")
			update.Image = &v
		}
		if cmd.Flags().Changed("image-file") {
			source, _ := cmd.Flags().GetString("image-file")
			installed, err := installPreviewImage(id, source)
			if err != nil {
				logger.Log.Fatalw("Failed to install preview image",
					zap.String("source", source), zap.Error(err))
			}
			update.Image = &installed
		}

		if err := catalog.UpdateAssetInfo(db.DB, id, update); err != nil {
			logger.Log.Fatalw("Failed to update mod", zap.Uint("id", id), zap.Error(err))
		}
		fmt.Println("Updated")
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("name", "", "Display name")
	editCmd.Flags().String("description", "", "Description")
	editCmd.Flags().String("author", "", "Author")
	editCmd.Flags().String("tag", "", "Free-form category tag")
	editCmd.Flags().String("image", "", "Preview image filename inside the mod folder")
	editCmd.Flags().String("image-file", "", "Copy this image into the mod folder as its preview")
}

// installPreviewImage copies an image into the mod's folder as preview.<ext>
// and returns the filename to record on the asset.
func installPreviewImage(assetID uint, source string) (string, error) {
	base := mustModsBase()
	asset, err := catalog.AssetByID(db.DB, assetID)
	if err != nil {
		return "", err
	}
	res := scanner.Resolve(base, asset.FolderName)
	if res.State == scanner.Orphaned {
		return "", apperr.New(apperr.OrphanedAsset, "mod folder %q not found on disk", asset.FolderName)
	}

	ext := strings.ToLower(filepath.Ext(source))
	if ext != ".png" && ext != ".jpg" {
		return "", apperr.New(apperr.InvalidInput, "preview image must be a .png or .jpg file")
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", apperr.Wrap(apperr.Filesystem, err, "reading %q", source)
	}
	name := "preview" + ext
	if err := os.WriteFile(filepath.Join(res.ActualPath, name), data, 0644); err != nil {
		return "", apperr.Wrap(apperr.Filesystem, err, "writing preview into %q", res.ActualPath)
	}
	return name, nil
}
