package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fences and their tracked items",
	Long:  "List every fence with its bounds, tabs and tracked items. Items currently hidden in the staging directory are marked staged.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("fence", "", "Only show this fence (id or unique prefix)")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.Options{})
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("fence")
	fences := a.Fences()
	if id != "" {
		f, err := a.Fence(id)
		if err != nil {
			return err
		}
		fences = fences[:0]
		fences = append(fences, f)
	}

	views := make([]output.FenceView, 0, len(fences))
	for _, f := range fences {
		views = append(views, output.NewFenceView(f, a.EffectivePath))
	}
	return output.Print(output.ListResult{
		DataDir: a.Config().DataDir,
		TS:      time.Now().Unix(),
		Fences:  views,
	})
}
