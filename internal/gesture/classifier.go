package gesture

import (
	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
	"github.com/mj1618/desktop-fences/internal/registry"
)

// DesktopClassifier checks fence windows first and only then asks the
// platform, so the foreign-process hit test never runs over a fence.
type DesktopClassifier struct {
	fences  *registry.FenceBounds
	desktop platform.PointClassifier
}

// NewDesktopClassifier combines the fence registry with a platform
// classifier. A nil platform classifier treats every uncovered point as
// empty desktop.
func NewDesktopClassifier(fences *registry.FenceBounds, desktop platform.PointClassifier) *DesktopClassifier {
	return &DesktopClassifier{fences: fences, desktop: desktop}
}

// ClassifyPoint implements Classifier.
func (c *DesktopClassifier) ClassifyPoint(p model.Point) platform.PointClass {
	if c.fences != nil && c.fences.ContainsOrOverlaps(p) {
		return platform.PointOnOtherWindow
	}
	if c.desktop == nil {
		return platform.PointOnEmptyDesktop
	}
	return c.desktop.ClassifyPoint(p)
}
