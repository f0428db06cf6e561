package platform

import (
	"context"

	"github.com/mj1618/desktop-fences/internal/model"
)

// PointClassifier answers what lies under a screen point on the desktop.
// Implementations fail open: any interop failure classifies as empty
// desktop rather than an icon.
type PointClassifier interface {
	ClassifyPoint(p model.Point) PointClass
}

// InputSource streams global mouse input for every application.
type InputSource interface {
	// Events installs the global hook and returns its event stream. The
	// stream is closed after ctx is cancelled and the hook is removed.
	Events(ctx context.Context, opts InputOptions) (<-chan InputEvent, error)
}

// SystemMetrics reports the user's double-click and drag settings.
type SystemMetrics interface {
	GestureMetrics() Metrics
}

// DesktopShell controls the shell's desktop icon view.
type DesktopShell interface {
	// RefreshDesktopIcons asks the shell to re-read the desktop folder.
	RefreshDesktopIcons() error

	// SetDesktopIconsVisible shows or hides the whole desktop icon view.
	SetDesktopIconsVisible(visible bool) error
}
