package cmd

import (
	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <fence>",
	Short: "Lock a fence against moving and editing",
	Args:  cobra.ExactArgs(1),
	RunE:  runLock,
}

func init() {
	rootCmd.AddCommand(lockCmd)
	lockCmd.Flags().Bool("unlock", false, "Unlock the fence instead")
}

func runLock(cmd *cobra.Command, args []string) error {
	unlock, _ := cmd.Flags().GetBool("unlock")
	return runStep(cmd, "lock", map[string]interface{}{"fence": args[0], "locked": !unlock})
}
