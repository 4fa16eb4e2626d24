package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/archive"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/ui"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <archive.zip>",
	Short: "Inspect an archive for importable mods",
	Long: `Probes a zip archive for candidate mod roots (directories holding a
descriptor file) and shows how each one would be classified, without
extracting anything.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		cfg := bootstrap(".")

		analysis := mustAnalyze(args[0], cfg.FallbackCategory)
		if len(analysis.Roots) == 0 {
			fmt.Println("No mod roots found (no descriptor file anywhere in the archive)")
			return
		}
		fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%-28s %-24s %-20s %s", "Root", "Name", "Entity", "Files")))
		for _, root := range analysis.Roots {
			rootLabel := root.Path
			if rootLabel == "" {
				rootLabel = "(top level)"
			}
			fmt.Printf(" %-28s %-24s %-20s %d\n",
				ui.Truncate(rootLabel, 26),
				ui.Truncate(root.Info.ModName, 22),
				root.Info.EntitySlug,
				root.FileCount)
		}
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Extract a mod archive into the mods folder and catalog it",
	Long: `Analyzes a zip archive and extracts one candidate root into
<category>/<entity>/<name> under the mods folder. When the archive
holds several candidate roots, pick one with --root.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := bootstrap(".")
		base := mustModsBase()

		analysis := mustAnalyze(args[0], cfg.FallbackCategory)
		if len(analysis.Roots) == 0 {
			logger.Log.Fatalw("Archive holds no importable mod", zap.String("archive", args[0]))
		}

		rootPath, _ := cmd.Flags().GetString("root")
		var chosen *archive.CandidateRoot
		if rootPath == "" {
			if len(analysis.Roots) > 1 {
				logger.Log.Fatalw("Archive holds several mods, pick one with --root",
					zap.Int("candidates", len(analysis.Roots)))
			}
			chosen = &analysis.Roots[0]
		} else {
			for i := range analysis.Roots {
				if analysis.Roots[i].Path == rootPath {
					chosen = &analysis.Roots[i]
					break
				}
			}
			if chosen == nil {
				logger.Log.Fatalw("No candidate root at that path, run 'modshelf analyze' to list them",
					zap.String("root", rootPath))
			}
		}

		if slug, _ := cmd.Flags().GetString("entity"); slug != "" {
			// Manual override of the deduced classification.
			if _, err := catalog.EntityBySlug(db.DB, slug); err != nil {
				logger.Log.Fatalw("Unknown entity", zap.String("entity", slug), zap.Error(err))
			}
			chosen.Info.EntitySlug = slug
		}

		rel, err := archive.Import(db.DB, base, args[0], *chosen)
		if err != nil {
			logger.Log.Fatalw("Import failed", zap.String("archive", args[0]), zap.Error(err))
		}
		fmt.Printf("Imported %s to %s\n", chosen.Info.ModName, rel)
	},
}

func mustAnalyze(archivePath, fallbackCategory string) *archive.Analysis {
	maps, err := catalog.BuildMaps(db.DB)
	if err != nil {
		logger.Log.Fatalw("Failed to load catalog maps", zap.Error(err))
	}
	analysis, err := archive.Analyze(archivePath, maps, fallbackCategory)
	if err != nil {
		logger.Log.Fatalw("Failed to analyze archive", zap.String("archive", archivePath), zap.Error(err))
	}
	return analysis
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("root", "", "Internal path of the candidate root to import")
	importCmd.Flags().String("entity", "", "Override the deduced entity slug")
}
