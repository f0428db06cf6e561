package cmd

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <fence>",
	Aliases: []string{"rm"},
	Short:   "Delete a fence and restore its files to the desktop",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "remove", map[string]interface{}{"fence": args[0]})
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
