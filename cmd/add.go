package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/ops"
	"github.com/mj1618/desktop-fences/internal/output"
)

var addCmd = &cobra.Command{
	Use:   "add <fence> <path>...",
	Short: "Track desktop entries in a fence",
	Long: `Track one or more desktop files or folders in a fence. Each entry is moved
into the staging directory so it disappears from the desktop.

A file name can be tracked by only one fence at a time.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Int("tab", 0, "Tab index to add to")
	addCmd.Flags().Bool("stop-on-error", true, "Stop at the first entry that cannot be added")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.Options{})
	if err != nil {
		return err
	}
	tab, _ := cmd.Flags().GetInt("tab")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	steps := make([]ops.Step, 0, len(args)-1)
	for _, p := range args[1:] {
		steps = append(steps, ops.Step{Action: "add", Params: map[string]interface{}{
			"fence": args[0],
			"path":  p,
			"tab":   tab,
		}})
	}
	if len(steps) == 1 {
		result, err := ops.Execute(a, steps[0].Action, steps[0].Params)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	}
	return output.Print(ops.Run(a, steps, stopOnError))
}
