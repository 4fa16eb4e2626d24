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

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse the catalog",
}

var listCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all categories",
	Run: func(_ *cobra.Command, _ []string) {
		bootstrap(".")
		categories, err := catalog.ListCategories(db.DB)
		if err != nil {
			logger.Log.Fatalw("Failed to list categories", zap.Error(err))
		}
		fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%-24s %s", "Slug", "Name")))
		for _, c := range categories {
			fmt.Printf(" %-24s %s\n", c.Slug, c.Name)
		}
	},
}

var listEntitiesCmd = &cobra.Command{
	Use:   "entities <category-slug>",
	Short: "List a category's entities with their mod counts",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		entities, err := catalog.EntitiesByCategory(db.DB, args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to list entities", zap.String("category", args[0]), zap.Error(err))
		}
		fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%-28s %-24s %s", "Slug", "Name", "Mods")))
		for _, e := range entities {
			fmt.Printf(" %-28s %-24s %d\n", e.Slug, ui.Truncate(e.Name, 22), e.ModCount)
		}
	},
}

var listModsCmd = &cobra.Command{
	Use:   "mods <entity-slug>",
	Short: "List an entity's mods with their on-disk state",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")
		base := mustModsBase()
		assets, err := scanner.ListAssets(db.DB, base, args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to list mods", zap.String("entity", args[0]), zap.Error(err))
		}
		fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%-6s %-32s %-10s %s", "ID", "Name", "State", "Folder")))
		for _, a := range assets {
			fmt.Printf(" %-6d %-32s %-10s %s\n",
				a.ID, ui.Truncate(a.Name, 30), ui.StateLabel(a.IsEnabled), a.FolderOnDisk)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog totals and on-disk state counts",
	Run: func(_ *cobra.Command, _ []string) {
		bootstrap(".")
		base := mustModsBase()

		total, err := catalog.TotalAssetCount(db.DB)
		if err != nil {
			logger.Log.Fatalw("Failed to count assets", zap.Error(err))
		}
		enabled, disabled, orphaned, err := scanner.StateCounts(db.DB, base)
		if err != nil {
			logger.Log.Fatalw("Failed to derive asset states", zap.Error(err))
		}

		fmt.Printf("Mods folder: %s\n", base)
		fmt.Printf("Cataloged mods: %d\n", total)
		fmt.Printf("  %s %d\n", ui.SuccessStyle.Render("enabled:"), enabled)
		fmt.Printf("  %s %d\n", ui.WarnStyle.Render("disabled:"), disabled)
		if orphaned > 0 {
			fmt.Printf("  %s %d (run 'modshelf scan' to prune)\n", ui.ErrorStyle.Render("missing on disk:"), orphaned)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	listCmd.AddCommand(listCategoriesCmd)
	listCmd.AddCommand(listEntitiesCmd)
	listCmd.AddCommand(listModsCmd)
}
