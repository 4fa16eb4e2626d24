package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command; every subcommand registers itself in init().
var rootCmd = &cobra.Command{
	Use:   "modshelf",
	Short: "Manage a folder-based mod library",
	Long: `modshelf keeps a catalog of the mods living under your mods folder.
It scans the folder tree for mod directories, classifies them into
categories and entities, and toggles them on and off by renaming
folders with a DISABLED_ prefix — the filesystem stays the single
source of truth.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
