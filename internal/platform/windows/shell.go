//go:build windows && (amd64 || arm64)

package windows

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

var errNoDesktopView = errors.New("desktop icon view not found")

var (
	enumMu      sync.Mutex
	enumDefView windows.HWND

	// one callback for the process lifetime; callbacks are never freed
	enumDefViewCallback = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if className(hwnd) != "WorkerW" {
			return 1
		}
		if child := findWindowEx(hwnd, 0, "SHELLDLL_DefView"); child != 0 {
			enumDefView = child
			return 0
		}
		return 1
	})
)

// findDefView locates the SHELLDLL_DefView hosting the desktop icons. It
// normally lives under Progman but moves under a WorkerW once a wallpaper
// slideshow or similar has run.
func findDefView() windows.HWND {
	if progman := findWindow("Progman"); progman != 0 {
		if defView := findWindowEx(progman, 0, "SHELLDLL_DefView"); defView != 0 {
			return defView
		}
	}
	enumMu.Lock()
	defer enumMu.Unlock()
	enumDefView = 0
	_ = windows.EnumWindows(enumDefViewCallback, nil)
	return enumDefView
}

func findDesktopListView() windows.HWND {
	defView := findDefView()
	if defView == 0 {
		return 0
	}
	return findWindowEx(defView, 0, "SysListView32")
}

// Shell implements platform.DesktopShell.
type Shell struct {
	log zerolog.Logger
}

// NewShell creates a desktop shell controller.
func NewShell(log zerolog.Logger) *Shell {
	return &Shell{log: log}
}

// RefreshDesktopIcons sends Explorer's refresh command to the desktop view
// and flushes shell change notifications.
func (s *Shell) RefreshDesktopIcons() error {
	if defView := findDefView(); defView != 0 {
		sendMessage(defView, wmCommand, cmdRefreshDesktop, 0)
	} else {
		s.log.Debug().Msg("desktop view not found, flushing shell notifications only")
	}
	procSHChangeNotify.Call(shcneAssocChanged, shcnfFlush, 0, 0)
	return nil
}

// SetDesktopIconsVisible shows or hides the desktop icon list view.
func (s *Shell) SetDesktopIconsVisible(visible bool) error {
	listView := findDesktopListView()
	if listView == 0 {
		return errNoDesktopView
	}
	cmd := uintptr(swHide)
	if visible {
		cmd = swShow
	}
	procShowWindow.Call(uintptr(listView), cmd)
	s.log.Debug().Bool("visible", visible).Msg("desktop icons visibility set")
	return nil
}
