package cmd

import (
	"github.com/spf13/cobra"
)

var tabCmd = &cobra.Command{
	Use:   "tab",
	Short: "Manage the tabs of a fence",
}

var tabAddCmd = &cobra.Command{
	Use:   "add <fence> [name]",
	Short: "Append a tab",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{"fence": args[0]}
		if len(args) == 2 {
			params["name"] = args[1]
		}
		return runStep(cmd, "tab-add", params)
	},
}

var tabRenameCmd = &cobra.Command{
	Use:   "rename <fence> <tab> <name>",
	Short: "Rename a tab",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := parseIndex(args[1], "tab")
		if err != nil {
			return err
		}
		return runStep(cmd, "tab-rename", map[string]interface{}{"fence": args[0], "tab": tab, "name": args[2]})
	},
}

var tabDeleteCmd = &cobra.Command{
	Use:   "delete <fence> <tab>",
	Short: "Delete a tab and restore its files to the desktop",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := parseIndex(args[1], "tab")
		if err != nil {
			return err
		}
		return runStep(cmd, "tab-delete", map[string]interface{}{"fence": args[0], "tab": tab})
	},
}

var tabMoveCmd = &cobra.Command{
	Use:   "move <fence> <from> <to>",
	Short: "Reorder tabs",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseIndex(args[1], "tab")
		if err != nil {
			return err
		}
		to, err := parseIndex(args[2], "tab")
		if err != nil {
			return err
		}
		return runStep(cmd, "tab-move", map[string]interface{}{"fence": args[0], "from": from, "to": to})
	},
}

func init() {
	rootCmd.AddCommand(tabCmd)
	tabCmd.AddCommand(tabAddCmd, tabRenameCmd, tabDeleteCmd, tabMoveCmd)
}
