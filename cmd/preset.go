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

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save and restore named on/off snapshots",
}

var presetCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Snapshot the current enabled state of every mod",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		base := mustModsBase()
		preset, err := scanner.CreatePreset(db.DB, base, args[0], nil)
		if err != nil {
			logger.Log.Fatalw("Failed to create preset", zap.String("name", args[0]), zap.Error(err))
		}
		fmt.Printf("Created preset %q\n", preset.Name)
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Run: func(_ *cobra.Command, _ []string) {
		bootstrap(".")
		presets, err := catalog.ListPresets(db.DB)
		if err != nil {
			logger.Log.Fatalw("Failed to list presets", zap.Error(err))
		}
		for _, p := range presets {
			marker := "  "
			if p.IsFavorite {
				marker = ui.WarnStyle.Render("★ ")
			}
			fmt.Printf("%s%s\n", marker, p.Name)
		}
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Restore every mod to the state recorded in the preset",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		base := mustModsBase()

		preset, err := catalog.PresetByName(db.DB, args[0])
		if err != nil {
			logger.Log.Fatalw("Unknown preset", zap.String("name", args[0]), zap.Error(err))
		}
		summary, err := scanner.ApplyPreset(db.DB, base, preset, nil)
		if err != nil {
			logger.Log.Fatalw("Failed to apply preset", zap.String("name", preset.Name), zap.Error(err))
		}
		fmt.Println(summary.String())
		for _, e := range summary.Errors {
			fmt.Println(ui.ErrorStyle.Render("  • " + e))
		}
	},
}

var presetFavoriteCmd = &cobra.Command{
	Use:   "favorite <name>",
	Short: "Toggle a preset's favorite flag",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		preset, err := catalog.PresetByName(db.DB, args[0])
		if err != nil {
			logger.Log.Fatalw("Unknown preset", zap.String("name", args[0]), zap.Error(err))
		}
		if err := catalog.SetPresetFavorite(db.DB, preset.ID, !preset.IsFavorite); err != nil {
			logger.Log.Fatalw("Failed to update preset", zap.Error(err))
		}
		if preset.IsFavorite {
			fmt.Printf("Removed %q from favorites\n", preset.Name)
		} else {
			fmt.Printf("Marked %q as favorite\n", preset.Name)
		}
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		preset, err := catalog.PresetByName(db.DB, args[0])
		if err != nil {
			logger.Log.Fatalw("Unknown preset", zap.String("name", args[0]), zap.Error(err))
		}
		if err := catalog.DeletePreset(db.DB, preset.ID); err != nil {
			logger.Log.Fatalw("Failed to delete preset", zap.Error(err))
		}
		fmt.Printf("Deleted preset %q\n", preset.Name)
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetCreateCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetFavoriteCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}
