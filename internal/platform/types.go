package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/desktop-fences/internal/model"
)

// PointClass is the result of classifying a screen point.
type PointClass int

const (
	PointOnEmptyDesktop PointClass = iota
	PointOnIcon
	PointOnOtherWindow
)

func (c PointClass) String() string {
	switch c {
	case PointOnEmptyDesktop:
		return "empty-desktop"
	case PointOnIcon:
		return "icon"
	case PointOnOtherWindow:
		return "other-window"
	}
	return fmt.Sprintf("PointClass(%d)", int(c))
}

// EventKind identifies a raw input event.
type EventKind int

const (
	ButtonDown EventKind = iota
	ButtonUp
	Move
)

func (k EventKind) String() string {
	switch k {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case Move:
		return "move"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// InputEvent is one primary-button or move event from the global hook.
// DragModifier is sampled when the event is observed, since the key may be
// released before the event is processed.
type InputEvent struct {
	Kind         EventKind
	Point        model.Point
	Time         time.Time
	DragModifier bool
}

// Modifier is the key that arms a drag-to-create gesture.
type Modifier int

const (
	ModAlt Modifier = iota
	ModCtrl
	ModShift
)

// ParseModifier converts a config value to a Modifier.
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(s) {
	case "alt":
		return ModAlt, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "shift":
		return ModShift, nil
	default:
		return ModAlt, fmt.Errorf("unknown modifier: %q (expected alt, ctrl, or shift)", s)
	}
}

// InputOptions configures a global input hook.
type InputOptions struct {
	QueueSize    int      // Buffered events before new ones are dropped
	DragModifier Modifier // Key sampled into InputEvent.DragModifier
}

// Metrics are the system gesture thresholds.
type Metrics struct {
	DoubleClickTime   time.Duration
	DoubleClickWidth  int
	DoubleClickHeight int
	DragWidth         int
	DragHeight        int
}

// DefaultMetrics matches the stock Windows settings.
func DefaultMetrics() Metrics {
	return Metrics{
		DoubleClickTime:   500 * time.Millisecond,
		DoubleClickWidth:  4,
		DoubleClickHeight: 4,
		DragWidth:         4,
		DragHeight:        4,
	}
}
