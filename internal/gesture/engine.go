// Package gesture turns raw global mouse input into desktop gestures:
// double-clicks and modifier-drags on empty desktop space.
package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
)

// State is the gesture recognizer state.
type State int

const (
	// StateIdle means no qualifying button-down is pending.
	StateIdle State = iota
	// StateArmedForDoubleClick means a qualifying button-down was seen and
	// the button is still held.
	StateArmedForDoubleClick
	// StateDragging means the pointer moved past the drag threshold with
	// the drag modifier held at button-down.
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateArmedForDoubleClick:
		return "armed"
	case StateDragging:
		return "dragging"
	}
	return "idle"
}

// Classifier decides what lies under a screen point.
type Classifier interface {
	ClassifyPoint(p model.Point) platform.PointClass
}

// Sink receives recognized gestures.
type Sink interface {
	DesktopDoubleClicked()
	DesktopDragCompleted(rect model.Rect)
}

// SinkFuncs adapts plain functions to Sink. Nil fields are skipped.
type SinkFuncs struct {
	DoubleClicked func()
	DragCompleted func(rect model.Rect)
}

func (s SinkFuncs) DesktopDoubleClicked() {
	if s.DoubleClicked != nil {
		s.DoubleClicked()
	}
}

func (s SinkFuncs) DesktopDragCompleted(rect model.Rect) {
	if s.DragCompleted != nil {
		s.DragCompleted(rect)
	}
}

// Config holds the thresholds the engine classifies with.
type Config struct {
	Metrics platform.Metrics
	// MinDragSize is the size both sides of a drag rectangle must exceed.
	MinDragSize int
}

// Engine is the gesture state machine. Only button-down events and the
// first move past the drag threshold are classified.
type Engine struct {
	cfg      Config
	classify Classifier
	sink     Sink
	log      zerolog.Logger

	mu           sync.Mutex
	state        State
	dragEligible bool
	downAt       model.Point

	// last qualifying down, kept across button-up for double-click pairing
	hasLast   bool
	lastTime  time.Time
	lastPoint model.Point
}

// NewEngine creates an engine in the idle state.
func NewEngine(cfg Config, classify Classifier, sink Sink, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, classify: classify, sink: sink, log: log}
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Run feeds events into the engine until ctx is cancelled or events is
// closed. Sink panics are recovered so one bad handler cannot stop
// recognition.
func (e *Engine) Run(ctx context.Context, events <-chan platform.InputEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.safeHandle(ev)
		}
	}
}

func (e *Engine) safeHandle(ev platform.InputEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("event", ev.Kind.String()).Msg("gesture handler panicked")
			e.reset()
		}
	}()
	e.Handle(ev)
}

func (e *Engine) reset() {
	e.mu.Lock()
	e.state = StateIdle
	e.dragEligible = false
	e.mu.Unlock()
}

// Handle processes one event. Gestures are delivered to the sink after the
// engine's lock is released.
func (e *Engine) Handle(ev platform.InputEvent) {
	if fire := e.step(ev); fire != nil {
		fire()
	}
}

func (e *Engine) step(ev platform.InputEvent) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Kind {
	case platform.ButtonDown:
		return e.onDown(ev)
	case platform.Move:
		e.onMove(ev)
	case platform.ButtonUp:
		return e.onUp(ev)
	}
	return nil
}

func (e *Engine) onDown(ev platform.InputEvent) func() {
	if class := e.classify.ClassifyPoint(ev.Point); class != platform.PointOnEmptyDesktop {
		e.state = StateIdle
		e.dragEligible = false
		e.log.Trace().Str("class", class.String()).Msg("down outside empty desktop")
		return nil
	}

	if e.hasLast && e.isDoubleClick(ev) {
		e.hasLast = false
		e.state = StateIdle
		e.dragEligible = false
		e.log.Debug().Int("x", ev.Point.X).Int("y", ev.Point.Y).Msg("desktop double-click")
		return e.sink.DesktopDoubleClicked
	}

	e.hasLast = true
	e.lastTime = ev.Time
	e.lastPoint = ev.Point
	e.downAt = ev.Point
	e.dragEligible = ev.DragModifier
	e.state = StateArmedForDoubleClick
	return nil
}

func (e *Engine) isDoubleClick(ev platform.InputEvent) bool {
	m := e.cfg.Metrics
	elapsed := ev.Time.Sub(e.lastTime)
	if elapsed < 0 || elapsed > m.DoubleClickTime {
		return false
	}
	return abs(ev.Point.X-e.lastPoint.X) <= m.DoubleClickWidth/2 &&
		abs(ev.Point.Y-e.lastPoint.Y) <= m.DoubleClickHeight/2
}

func (e *Engine) onMove(ev platform.InputEvent) {
	if e.state != StateArmedForDoubleClick || !e.dragEligible {
		return
	}
	m := e.cfg.Metrics
	if abs(ev.Point.X-e.downAt.X) <= m.DragWidth && abs(ev.Point.Y-e.downAt.Y) <= m.DragHeight {
		return
	}
	if e.classify.ClassifyPoint(ev.Point) != platform.PointOnEmptyDesktop {
		e.state = StateIdle
		e.dragEligible = false
		e.log.Debug().Msg("drag abandoned over non-desktop point")
		return
	}
	e.state = StateDragging
	e.log.Debug().Int("x", e.downAt.X).Int("y", e.downAt.Y).Msg("desktop drag started")
}

func (e *Engine) onUp(ev platform.InputEvent) func() {
	dragging := e.state == StateDragging
	e.state = StateIdle
	e.dragEligible = false
	if !dragging {
		return nil
	}
	e.hasLast = false
	rect := model.RectFromPoints(e.downAt, ev.Point)
	if rect.Width <= e.cfg.MinDragSize || rect.Height <= e.cfg.MinDragSize {
		e.log.Debug().Str("rect", rect.String()).Msg("drag too small")
		return nil
	}
	e.log.Debug().Str("rect", rect.String()).Msg("desktop drag completed")
	return func() { e.sink.DesktopDragCompleted(rect) }
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
