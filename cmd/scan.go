package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Reconcile the mods folder with the catalog",
	Long: `Walks the mods folder for directories containing a descriptor file,
classifies new ones into categories and entities, and prunes catalog
entries whose folders have disappeared.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := bootstrap(".")
		base := mustModsBase()

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			runScanPlain(base, cfg.FallbackCategory)
			return
		}
		runScanTUI(base, cfg.FallbackCategory)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("plain", false, "Print progress as plain lines instead of the interactive view")
}

func runScanPlain(base, fallbackCategory string) {
	progress := make(chan scanner.Event, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			switch ev.Type {
			case scanner.EventScanProgress:
				fmt.Printf("[%d/%d] %s\n", ev.Processed, ev.Total, ev.CurrentPath)
			case scanner.EventPruneStart, scanner.EventPruneComplete:
				fmt.Println(ev.Message)
			case scanner.EventPruneProgress:
				fmt.Printf("[%d/%d] pruned\n", ev.Processed, ev.Total)
			}
		}
	}()

	summary, err := scanner.Scan(db.DB, base, fallbackCategory, progress)
	close(progress)
	<-done
	if err != nil {
		logger.Log.Fatalw("Scan failed", zap.Error(err))
	}
	fmt.Println(summary.String())
}
