package cmd

import (
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <fence> <name>",
	Short: "Change a fence's title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "rename", map[string]interface{}{"fence": args[0], "name": args[1]})
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
