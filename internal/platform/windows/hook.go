//go:build windows && (amd64 || arm64)

package windows

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
)

var errHookActive = errors.New("a global mouse hook is already installed")

// hookState is the sink of the installed hook. The hook callback has no
// user data parameter, so the active state is process-global.
type hookState struct {
	out     chan platform.InputEvent
	vk      int
	dropped atomic.Uint64
}

var (
	activeHook atomic.Pointer[hookState]

	mouseHookCallback = windows.NewCallback(func(nCode int, wParam, lParam uintptr) uintptr {
		if nCode == hcAction {
			if h := activeHook.Load(); h != nil {
				h.observe(wParam, lParam)
			}
		}
		r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	})
)

// observe runs on the hook thread for every global mouse event and must
// return quickly: it never blocks and never classifies.
func (h *hookState) observe(wParam, lParam uintptr) {
	var kind platform.EventKind
	switch wParam {
	case wmLButtonDown:
		kind = platform.ButtonDown
	case wmLButtonUp:
		kind = platform.ButtonUp
	case wmMouseMove:
		kind = platform.Move
	default:
		return
	}
	info := (*msllHookStruct)(unsafe.Pointer(lParam))
	ev := platform.InputEvent{
		Kind:  kind,
		Point: model.Point{X: int(info.Pt.X), Y: int(info.Pt.Y)},
		Time:  time.Now(),
	}
	if kind == platform.ButtonDown {
		ev.DragModifier = keyDown(h.vk)
	}
	select {
	case h.out <- ev:
	default:
		h.dropped.Add(1)
	}
}

// HookSource implements platform.InputSource with a WH_MOUSE_LL hook.
type HookSource struct {
	log zerolog.Logger
}

// NewHookSource creates a low-level mouse hook source.
func NewHookSource(log zerolog.Logger) *HookSource {
	return &HookSource{log: log}
}

// Events installs the hook on a dedicated OS thread running its own message
// loop. Only one hook can be active per process.
func (s *HookSource) Events(ctx context.Context, opts platform.InputOptions) (<-chan platform.InputEvent, error) {
	size := opts.QueueSize
	if size <= 0 {
		size = 256
	}
	h := &hookState{out: make(chan platform.InputEvent, size), vk: modifierKey(opts.DragModifier)}
	started := make(chan error, 1)
	go s.run(ctx, h, started)
	if err := <-started; err != nil {
		return nil, err
	}
	return h.out, nil
}

func (s *HookSource) run(ctx context.Context, h *hookState, started chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.out)

	if !activeHook.CompareAndSwap(nil, h) {
		started <- errHookActive
		return
	}
	defer activeHook.Store(nil)

	// force creation of this thread's message queue before anyone posts to it
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)

	hook, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseHookCallback, 0, 0)
	if hook == 0 {
		started <- fmt.Errorf("SetWindowsHookExW: %w", err)
		return
	}
	defer procUnhookWindowsHookEx.Call(hook)

	tid := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	})
	defer stop()

	s.log.Debug().Uint32("thread", tid).Msg("mouse hook installed")
	started <- nil

	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			break
		}
	}
	if n := h.dropped.Load(); n > 0 {
		s.log.Warn().Uint64("dropped", n).Msg("mouse events dropped while the gesture queue was full")
	}
	s.log.Debug().Msg("mouse hook removed")
}

func modifierKey(m platform.Modifier) int {
	switch m {
	case platform.ModCtrl:
		return vkControl
	case platform.ModShift:
		return vkShift
	}
	return vkMenu
}
