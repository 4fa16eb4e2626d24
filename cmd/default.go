package cmd

import (
	"github.com/spf13/cobra"
)

// defaultCmd represents the command that runs when no subcommand is specified
var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Default command when no subcommand is provided",
	Long:  `Launches the interactive browser by default.`,
	Run: func(_ *cobra.Command, _ []string) {
		guiCmd.Run(guiCmd, []string{})
	},
}

func init() {
	rootCmd.AddCommand(defaultCmd)
	// Route a bare invocation to the default command.
	cobra.OnInitialize(func() {
		if len(rootCmd.Commands()) > 0 && len(rootCmd.Flags().Args()) == 0 {
			rootCmd.SetArgs([]string{"default"})
		}
	})
}
