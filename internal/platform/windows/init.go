//go:build windows && (amd64 || arm64)

package windows

import (
	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/platform"
)

func init() {
	platform.NewProviderFunc = func(log zerolog.Logger) (*platform.Provider, error) {
		log = log.With().Str("component", "win32").Logger()
		return &platform.Provider{
			Classifier: NewClassifier(log),
			Input:      NewHookSource(log),
			Metrics:    SystemMetrics{},
			Shell:      NewShell(log),
		}, nil
	}
}
