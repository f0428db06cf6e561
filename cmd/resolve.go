package cmd

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Print where a tracked entry currently lives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "resolve", flagParams(cmd, map[string]interface{}{"path": args[0]}, "icon"))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("icon", false, "Also resolve the display icon")
}
