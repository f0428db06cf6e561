package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/ops"
	"github.com/mj1618/desktop-fences/internal/output"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple fence operations in a batch",
	Long: `Execute a sequence of operations from a YAML list on stdin.

Each step is an operation name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Example:
  desktop-fences do <<'EOF'
  - create: { name: Work, bounds: "100,100,400,300" }
  - tab-add: { fence: 3f2a, name: Docs }
  - add: { fence: 3f2a, path: 'C:\Users\me\Desktop\report.pdf', tab: 1 }
  EOF`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error")
}

func runDo(cmd *cobra.Command, args []string) error {
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return errors.New("no steps provided on stdin, pipe a YAML list of operations")
	}
	steps, err := ops.ParseSteps(data)
	if err != nil {
		return err
	}

	a, err := openApp(cmd, app.Options{TrackModelBounds: true})
	if err != nil {
		return err
	}
	result := ops.Run(a, steps, stopOnError)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return errors.New(result.Error)
	}
	return nil
}
