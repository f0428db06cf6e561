package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the fences daemon",
	Long: `Hide every fenced entry, then watch the staging directory and the desktop
until interrupted. On exit every entry is restored to the desktop.

On Windows a double-click on empty desktop shows or hides the fences, and
dragging a rectangle on empty desktop while holding the drag modifier
(gesture.drag_modifier, default alt) creates a new fence. Elsewhere only
staging and reconciliation run.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.Options{TrackModelBounds: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
