package gesture

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
	"github.com/mj1618/desktop-fences/internal/registry"
)

// iconAt classifies a fixed set of points as icons; everything else is
// empty desktop.
type iconAt map[model.Point]bool

func (m iconAt) ClassifyPoint(p model.Point) platform.PointClass {
	if m[p] {
		return platform.PointOnIcon
	}
	return platform.PointOnEmptyDesktop
}

type recorder struct {
	doubleClicks int
	drags        []model.Rect
}

func (r *recorder) DesktopDoubleClicked()                { r.doubleClicks++ }
func (r *recorder) DesktopDragCompleted(rect model.Rect) { r.drags = append(r.drags, rect) }

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Metrics: platform.Metrics{
			DoubleClickTime:   500 * time.Millisecond,
			DoubleClickWidth:  4,
			DoubleClickHeight: 4,
			DragWidth:         4,
			DragHeight:        4,
		},
		MinDragSize: 30,
	}
}

func newTestEngine(fences *registry.FenceBounds, icons iconAt) (*Engine, *recorder) {
	rec := &recorder{}
	c := NewDesktopClassifier(fences, icons)
	return NewEngine(testConfig(), c, rec, zerolog.Nop()), rec
}

func down(x, y int, at time.Duration, mod bool) platform.InputEvent {
	return platform.InputEvent{Kind: platform.ButtonDown, Point: model.Point{X: x, Y: y}, Time: t0.Add(at), DragModifier: mod}
}

func up(x, y int, at time.Duration) platform.InputEvent {
	return platform.InputEvent{Kind: platform.ButtonUp, Point: model.Point{X: x, Y: y}, Time: t0.Add(at)}
}

func move(x, y int, at time.Duration) platform.InputEvent {
	return platform.InputEvent{Kind: platform.Move, Point: model.Point{X: x, Y: y}, Time: t0.Add(at)}
}

func feed(e *Engine, events ...platform.InputEvent) {
	for _, ev := range events {
		e.Handle(ev)
	}
}

func TestDoubleClick_FiresOnce(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, false), up(100, 100, 50*time.Millisecond),
		down(101, 99, 200*time.Millisecond, false), up(101, 99, 250*time.Millisecond),
	)
	assert.Equal(t, 1, rec.doubleClicks)
	assert.Empty(t, rec.drags)
	assert.Equal(t, StateIdle, e.State())
}

func TestDoubleClick_ThirdClickStartsNewPair(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, false), up(100, 100, 10*time.Millisecond),
		down(100, 100, 100*time.Millisecond, false), up(100, 100, 110*time.Millisecond),
		down(100, 100, 200*time.Millisecond, false), up(100, 100, 210*time.Millisecond),
	)
	assert.Equal(t, 1, rec.doubleClicks)
}

func TestDoubleClick_TooSlow(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, false), up(100, 100, 10*time.Millisecond),
		down(100, 100, 600*time.Millisecond, false), up(100, 100, 610*time.Millisecond),
	)
	assert.Equal(t, 0, rec.doubleClicks)
}

func TestDoubleClick_TooFar(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, false), up(100, 100, 10*time.Millisecond),
		down(103, 100, 100*time.Millisecond, false), up(103, 100, 110*time.Millisecond),
	)
	assert.Equal(t, 0, rec.doubleClicks, "tolerance is half the double-click width")
}

func TestDoubleClick_SuppressesDrag(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, true), up(100, 100, 10*time.Millisecond),
		down(100, 100, 100*time.Millisecond, true),
		move(200, 200, 150*time.Millisecond),
		up(200, 200, 200*time.Millisecond),
	)
	assert.Equal(t, 1, rec.doubleClicks)
	assert.Empty(t, rec.drags)
}

func TestFenceCoveredPoint_NeverFires(t *testing.T) {
	fences := registry.New()
	fences.Add(1, model.Rect{X: 50, Y: 50, Width: 200, Height: 200})
	e, rec := newTestEngine(fences, nil)

	feed(e,
		down(100, 100, 0, true), up(100, 100, 10*time.Millisecond),
		down(100, 100, 50*time.Millisecond, true),
		move(300, 300, 60*time.Millisecond),
		up(300, 300, 70*time.Millisecond),
	)
	assert.Equal(t, 0, rec.doubleClicks)
	assert.Empty(t, rec.drags)
}

func TestIconPoint_NeverFires(t *testing.T) {
	e, rec := newTestEngine(registry.New(), iconAt{{X: 10, Y: 10}: true})
	feed(e,
		down(10, 10, 0, false), up(10, 10, 10*time.Millisecond),
		down(10, 10, 50*time.Millisecond, false), up(10, 10, 60*time.Millisecond),
	)
	assert.Equal(t, 0, rec.doubleClicks)
}

func TestDrag_CompletesWithRect(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(300, 300, 0, true),
		move(310, 305, 20*time.Millisecond),
	)
	assert.Equal(t, StateDragging, e.State())
	feed(e,
		move(150, 200, 40*time.Millisecond),
		up(100, 200, 60*time.Millisecond),
	)
	require.Len(t, rec.drags, 1)
	assert.Equal(t, model.Rect{X: 100, Y: 200, Width: 200, Height: 100}, rec.drags[0])
	assert.Equal(t, StateIdle, e.State())
}

func TestDrag_RequiresModifier(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(0, 0, 0, false),
		move(200, 200, 20*time.Millisecond),
		up(200, 200, 40*time.Millisecond),
	)
	assert.Empty(t, rec.drags)
}

func TestDrag_BelowThresholdNeverFires(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, true),
		move(103, 102, 10*time.Millisecond),
		up(103, 102, 20*time.Millisecond),
	)
	assert.Empty(t, rec.drags)
	assert.Equal(t, StateIdle, e.State())
}

func TestDrag_TooSmallRectangle(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e,
		down(100, 100, 0, true),
		move(200, 110, 10*time.Millisecond),
		up(200, 130, 20*time.Millisecond),
	)
	assert.Empty(t, rec.drags, "height of exactly 30 does not exceed the minimum")
}

func TestDrag_AbandonedOverFence(t *testing.T) {
	fences := registry.New()
	fences.Add(1, model.Rect{X: 150, Y: 150, Width: 100, Height: 100})
	e, rec := newTestEngine(fences, nil)
	feed(e,
		down(100, 100, 0, true),
		move(160, 160, 10*time.Millisecond),
	)
	assert.Equal(t, StateIdle, e.State())
	feed(e, up(400, 400, 20*time.Millisecond))
	assert.Empty(t, rec.drags)
}

func TestDrag_OnlyFirstPostThresholdMoveClassifies(t *testing.T) {
	counting := &countingClassifier{}
	rec := &recorder{}
	e := NewEngine(testConfig(), counting, rec, zerolog.Nop())
	feed(e,
		down(0, 0, 0, true),
		move(1, 1, 1*time.Millisecond),
		move(10, 10, 2*time.Millisecond),
		move(50, 50, 3*time.Millisecond),
		move(90, 90, 4*time.Millisecond),
		up(90, 90, 5*time.Millisecond),
	)
	assert.Equal(t, 2, counting.calls, "one for the down, one for the first move past threshold")
	assert.Len(t, rec.drags, 1)
}

type countingClassifier struct{ calls int }

func (c *countingClassifier) ClassifyPoint(model.Point) platform.PointClass {
	c.calls++
	return platform.PointOnEmptyDesktop
}

func TestSingleClick_NoGesture(t *testing.T) {
	e, rec := newTestEngine(registry.New(), nil)
	feed(e, down(5, 5, 0, false), up(5, 5, 10*time.Millisecond))
	assert.Equal(t, 0, rec.doubleClicks)
	assert.Empty(t, rec.drags)
	assert.Equal(t, StateIdle, e.State())
}

func TestRun_ConsumesChannel(t *testing.T) {
	rec := &recorder{}
	done := make(chan struct{})
	sink := SinkFuncs{DoubleClicked: func() {
		rec.doubleClicks++
		close(done)
	}}
	e := NewEngine(testConfig(), NewDesktopClassifier(registry.New(), nil), sink, zerolog.Nop())

	events := make(chan platform.InputEvent, 4)
	events <- down(1, 1, 0, false)
	events <- up(1, 1, 10*time.Millisecond)
	events <- down(1, 1, 20*time.Millisecond, false)
	close(events)

	require.NoError(t, e.Run(context.Background(), events))
	select {
	case <-done:
	default:
		t.Fatal("double-click not delivered")
	}
	assert.Equal(t, 1, rec.doubleClicks)
}

func TestRun_RecoversSinkPanic(t *testing.T) {
	sink := SinkFuncs{DoubleClicked: func() { panic("boom") }}
	e := NewEngine(testConfig(), NewDesktopClassifier(nil, nil), sink, zerolog.Nop())

	events := make(chan platform.InputEvent, 4)
	events <- down(1, 1, 0, false)
	events <- down(1, 1, 10*time.Millisecond, false)
	events <- down(1, 1, 900*time.Millisecond, false)
	close(events)

	require.NoError(t, e.Run(context.Background(), events))
	assert.Equal(t, StateArmedForDoubleClick, e.State())
}
