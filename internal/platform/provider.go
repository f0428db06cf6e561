package platform

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Classifier PointClassifier
	Input      InputSource
	Metrics    SystemMetrics
	Shell      DesktopShell
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop integration is not supported on %s/%s; supported: windows/amd64, windows/arm64", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/windows/init.go for the Windows registration.
var NewProviderFunc func(log zerolog.Logger) (*Provider, error)

// NewProvider returns a Provider for the current OS. Backend diagnostics go
// to log.
func NewProvider(log zerolog.Logger) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(log)
}
