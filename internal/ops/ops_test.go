package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/config"
)

func newTestApp(t *testing.T) (*app.App, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(root, "data")
	a, err := app.New(app.Options{Config: cfg, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}
	desktop := filepath.Join(root, "Desktop")
	if err := os.MkdirAll(desktop, 0o755); err != nil {
		t.Fatal(err)
	}
	return a, desktop
}

func TestStringParam(t *testing.T) {
	params := map[string]interface{}{"name": "Work", "fence": 42, "empty": nil}
	if got := StringParam(params, "name", ""); got != "Work" {
		t.Errorf("expected Work, got %q", got)
	}
	if got := StringParam(params, "fence", ""); got != "42" {
		t.Errorf("expected 42, got %q", got)
	}
	if got := StringParam(params, "empty", "def"); got != "def" {
		t.Errorf("expected default for nil, got %q", got)
	}
}

func TestIntParam(t *testing.T) {
	params := map[string]interface{}{"a": 3, "b": float64(4), "c": "x"}
	if IntParam(params, "a", 0) != 3 || IntParam(params, "b", 0) != 4 {
		t.Errorf("expected 3 and 4")
	}
	if IntParam(params, "c", 7) != 7 {
		t.Errorf("expected default for non-number")
	}
}

func TestRectParam(t *testing.T) {
	r, ok, err := RectParam(map[string]interface{}{"bounds": "1,2,3,4"}, "bounds")
	if err != nil || !ok || r.Width != 3 {
		t.Errorf("expected 1,2,3,4, got %v ok=%v err=%v", r, ok, err)
	}
	if _, ok, err := RectParam(map[string]interface{}{}, "bounds"); ok || err != nil {
		t.Errorf("expected absent, got ok=%v err=%v", ok, err)
	}
	if _, _, err := RectParam(map[string]interface{}{"bounds": "1,2"}, "bounds"); err == nil {
		t.Error("expected error for malformed bounds")
	}
}

func TestExecute_UnknownAction(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := Execute(a, "explode", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown step type") {
		t.Errorf("expected unknown step error, got %v", err)
	}
}

func TestExecute_CreateAddResolve(t *testing.T) {
	a, desktop := newTestApp(t)
	res, err := Execute(a, "create", map[string]interface{}{"name": "Work", "bounds": "10,10,200,100"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Fence == nil || res.Fence.Bounds != "10,10,200,100" {
		t.Fatalf("expected created fence with bounds, got %+v", res.Fence)
	}
	id := res.Fence.ID

	p := filepath.Join(desktop, "a.txt")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res, err = Execute(a, "add", map[string]interface{}{"fence": id, "path": p})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fence.Tabs[0].Items[0].Staged {
		t.Errorf("expected added item to be staged, got %+v", res.Fence.Tabs[0].Items[0])
	}

	res, err = Execute(a, "resolve", map[string]interface{}{"path": p, "icon": true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Path == p {
		t.Errorf("expected staged location, got original %s", res.Path)
	}
	if res.Icon == nil || res.Icon.Kind != "txt" {
		t.Errorf("expected txt icon, got %+v", res.Icon)
	}
}

func TestExecute_MissingFence(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := Execute(a, "lock", map[string]interface{}{}); err == nil {
		t.Error("expected error without fence")
	}
	if _, err := Execute(a, "lock", map[string]interface{}{"fence": "nope"}); err == nil {
		t.Error("expected error for unknown fence")
	}
}

func TestExecute_HitTest(t *testing.T) {
	a, _ := newTestApp(t)
	a.RegisterFenceBounds(1, mustRect(t, "0,0,50,50"))
	res, err := Execute(a, "hittest", map[string]interface{}{"x": 10, "y": 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Class != "other-window" {
		t.Errorf("expected other-window, got %s", res.Class)
	}
	if _, err := Execute(a, "hittest", map[string]interface{}{"x": 10}); err == nil {
		t.Error("expected error without y")
	}
}

func TestExecute_ReconcileRestagesDuplicate(t *testing.T) {
	a, desktop := newTestApp(t)
	res, err := Execute(a, "create", map[string]interface{}{"name": "Work"})
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(desktop, "a.txt")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Execute(a, "add", map[string]interface{}{"fence": res.Fence.ID, "path": p}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("restored"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err = Execute(a, "reconcile", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Restaged != 1 {
		t.Errorf("expected 1 restaged file, got %d", res.Restaged)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("expected desktop duplicate to be removed, stat err %v", err)
	}
}
