package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/config"
	"github.com/mj1618/desktop-fences/internal/logging"
	"github.com/mj1618/desktop-fences/internal/ops"
	"github.com/mj1618/desktop-fences/internal/output"
	"github.com/mj1618/desktop-fences/internal/platform"
)

// commandLogger returns the logger the root command stored in the context.
func commandLogger(cmd *cobra.Command) zerolog.Logger {
	if ctx := cmd.Context(); ctx != nil {
		return *logging.FromContext(ctx)
	}
	return logging.Nop()
}

// openApp builds an App over the configured data directory and loads every
// fence. The desktop backend is attached when the platform has one.
func openApp(cmd *cobra.Command, opts app.Options) (*app.App, error) {
	log := commandLogger(cmd)
	if opts.Config == nil {
		opts.Config = cfg
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	opts.Logger = log
	if opts.Provider == nil {
		provider, err := platform.NewProvider(log)
		switch {
		case errors.Is(err, platform.ErrUnsupported):
			log.Debug().Err(err).Msg("running without desktop integration")
		case err != nil:
			return nil, err
		default:
			opts.Provider = provider
		}
	}

	a, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	if err := a.Load(); err != nil {
		return nil, fmt.Errorf("failed to load fences: %w", err)
	}
	return a, nil
}

// runStep opens the App, executes one operation and prints its result.
// Stored fence bounds stand in for fence windows.
func runStep(cmd *cobra.Command, action string, params map[string]interface{}) error {
	a, err := openApp(cmd, app.Options{TrackModelBounds: true})
	if err != nil {
		return err
	}
	result, err := ops.Execute(a, action, params)
	if err != nil {
		return err
	}
	result.OK = true
	return output.Print(result)
}

// parseIndex parses a tab index argument.
func parseIndex(s, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", what, s)
	}
	return i, nil
}

// flagParams copies the named flags that were set on the command line into
// an operation parameter map.
func flagParams(cmd *cobra.Command, params map[string]interface{}, names ...string) map[string]interface{} {
	if params == nil {
		params = map[string]interface{}{}
	}
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := cmd.Flags().GetBool(name)
			params[name] = v
		case "int":
			v, _ := cmd.Flags().GetInt(name)
			params[name] = v
		default:
			params[name] = f.Value.String()
		}
	}
	return params
}
