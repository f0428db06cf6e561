package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/config"
	"github.com/mj1618/desktop-fences/internal/logging"
	"github.com/mj1618/desktop-fences/internal/output"
	"github.com/mj1618/desktop-fences/internal/version"
)

// cfg is set by the root PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "desktop-fences",
	Short: "Group desktop icons into fences",
	Long: `desktop-fences keeps desktop files inside fences: named, tabbed rectangles
drawn over the desktop. Fenced files are moved into a staging directory while
fences are running so they disappear from the desktop, and are moved back on exit.

Run the daemon with "desktop-fences run". The other commands edit the fence
records directly and are meant for scripting and agents.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding fence records and the staging directory")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags (e.g. preview --image-format).
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		configFile, _ := rootCmd.PersistentFlags().GetString("config")
		dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
		logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
		loaded, err := config.Load(config.LoadOptions{
			ConfigFile: configFile,
			DataDir:    dataDir,
			LogLevel:   logLevel,
		})
		if err != nil {
			return err
		}
		cfg = loaded

		log, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithContext(cmd.Context(), log))
		return nil
	}
}

func newLogger(c config.LogConfig) (zerolog.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return logging.Nop(), err
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = c.Format
	return logging.New(lc), nil
}
