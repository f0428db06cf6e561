package cmd

import (
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <fence> <x,y,w,h>",
	Short: "Move or resize a fence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "move", map[string]interface{}{"fence": args[0], "bounds": args[1]})
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
