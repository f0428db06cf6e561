package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/model"
)

var hittestCmd = &cobra.Command{
	Use:   "hittest <x> <y> | hittest <x,y>",
	Short: "Classify a screen point",
	Long:  "Report whether a screen point is over empty desktop, a desktop icon or another window. Stored fence bounds count as windows.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runHitTest,
}

func init() {
	rootCmd.AddCommand(hittestCmd)
}

func parsePointArgs(args []string) (model.Point, error) {
	if len(args) == 1 {
		return model.ParsePoint(args[0])
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return model.Point{}, fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return model.Point{}, fmt.Errorf("invalid y %q: %w", args[1], err)
	}
	return model.Point{X: x, Y: y}, nil
}

func runHitTest(cmd *cobra.Command, args []string) error {
	p, err := parsePointArgs(args)
	if err != nil {
		return err
	}
	return runStep(cmd, "hittest", map[string]interface{}{"x": p.X, "y": p.Y})
}
