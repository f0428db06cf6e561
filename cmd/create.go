package cmd

import (
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty fence",
	Long: `Create an empty fence with one tab.

Examples:
  desktop-fences create Work
  desktop-fences create Projects --bounds 50,50,400,300`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("bounds", "", "Screen rectangle as x,y,w,h (default from config)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	params := flagParams(cmd, nil, "bounds")
	if len(args) == 1 {
		params["name"] = args[0]
	}
	return runStep(cmd, "create", params)
}
