package cmd

import (
	"github.com/spf13/cobra"
)

var moveItemCmd = &cobra.Command{
	Use:   "move-item <fence> <path> <tab>",
	Short: "Move a tracked entry to another tab of the same fence",
	Args:  cobra.ExactArgs(3),
	RunE:  runMoveItem,
}

func init() {
	rootCmd.AddCommand(moveItemCmd)
}

func runMoveItem(cmd *cobra.Command, args []string) error {
	to, err := parseIndex(args[2], "tab")
	if err != nil {
		return err
	}
	return runStep(cmd, "move-item", map[string]interface{}{"fence": args[0], "path": args[1], "to": to})
}
