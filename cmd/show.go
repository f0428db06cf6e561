package cmd

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Restore every tracked entry to the desktop",
	Long:  "Restore every tracked entry to the desktop, e.g. after the daemon was killed without a clean shutdown.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "show", nil)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
