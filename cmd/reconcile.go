package cmd

import (
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair fences after staged files were renamed or deleted",
	Long: `Run one reconciliation pass. A tracked entry missing from the staging
directory is matched to an untracked staged entry and renamed; when none is
left the entry is dropped from its fence.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, "reconcile", nil)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
