//go:build windows && (amd64 || arm64)

package windows

import (
	"time"

	"github.com/mj1618/desktop-fences/internal/platform"
)

// SystemMetrics reads the user's double-click and drag settings.
type SystemMetrics struct{}

// GestureMetrics implements platform.SystemMetrics.
func (SystemMetrics) GestureMetrics() platform.Metrics {
	ms, _, _ := procGetDoubleClickTime.Call()
	m := platform.Metrics{
		DoubleClickTime:   time.Duration(uint32(ms)) * time.Millisecond,
		DoubleClickWidth:  systemMetric(smCxDoubleClk),
		DoubleClickHeight: systemMetric(smCyDoubleClk),
		DragWidth:         systemMetric(smCxDrag),
		DragHeight:        systemMetric(smCyDrag),
	}
	def := platform.DefaultMetrics()
	if m.DoubleClickTime <= 0 {
		m.DoubleClickTime = def.DoubleClickTime
	}
	if m.DragWidth <= 0 || m.DragHeight <= 0 {
		m.DragWidth, m.DragHeight = def.DragWidth, def.DragHeight
	}
	return m
}
