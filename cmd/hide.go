package cmd

import (
	"github.com/spf13/cobra"
)

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Move every tracked entry into the staging directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "hide", nil)
	},
}

func init() {
	rootCmd.AddCommand(hideCmd)
}
