package cmd

import (
	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop <fence> <path>",
	Short: "Stop tracking an entry and restore it to the desktop",
	Long:  "Stop tracking an entry. The path may be the tracked path or just its file name.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "drop", map[string]interface{}{"fence": args[0], "path": args[1]})
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
}
