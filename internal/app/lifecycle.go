package app

import (
	"context"
	"errors"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/mj1618/desktop-fences/internal/gesture"
	"github.com/mj1618/desktop-fences/internal/logging"
	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
	"github.com/mj1618/desktop-fences/internal/reconcile"
)

// Run hides every tracked file and then runs the main loop, the staging
// watcher and, when a desktop backend is present, the gesture pipeline
// until ctx is cancelled or Shutdown is called. On return every tracked
// file is back on the desktop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	a.HideAll()
	a.running.Store(true)
	defer a.running.Store(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.loop.Run(gctx) })
	g.Go(func() error { return a.watcher.Run(gctx) })
	a.startGestures(gctx, g)

	// catch renames and deletes that happened while not running
	a.watcher.Trigger()

	a.log.Info().Str("data_dir", a.cfg.DataDir).Bool("desktop", a.provider != nil).Msg("running")
	err := g.Wait()

	a.repaint.Destroy()
	a.ShowAll()
	a.log.Info().Msg("stopped")
	return err
}

// Shutdown stops a running App.
func (a *App) Shutdown() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) startGestures(ctx context.Context, g *errgroup.Group) {
	if a.provider == nil || a.provider.Input == nil {
		a.log.Info().Msg("no desktop backend, gestures disabled")
		return
	}
	mod, err := platform.ParseModifier(a.cfg.Gesture.DragModifier)
	if err != nil {
		a.log.Warn().Err(err).Msg("gestures disabled")
		return
	}
	events, err := a.provider.Input.Events(ctx, platform.InputOptions{
		QueueSize:    a.cfg.Gesture.QueueSize,
		DragModifier: mod,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("cannot install input hook, gestures disabled")
		return
	}

	metrics := platform.DefaultMetrics()
	if a.provider.Metrics != nil {
		metrics = a.provider.Metrics.GestureMetrics()
	}
	engine := gesture.NewEngine(gesture.Config{
		Metrics:     metrics,
		MinDragSize: a.cfg.Gesture.MinDragSize,
	}, a.classifier, a.gestures, logging.WithComponent(a.base, "gesture"))
	g.Go(func() error { return engine.Run(ctx, events) })
}

// HideAll stages every tracked file and refreshes the desktop.
func (a *App) HideAll() {
	a.mu.Lock()
	a.staging.StageAll(a.allFilesLocked())
	a.mu.Unlock()
	a.refreshDesktop()
}

// ShowAll restores every tracked file to the desktop and makes desktop
// icons visible again.
func (a *App) ShowAll() {
	a.mu.Lock()
	a.staging.UnstageAll(a.allFilesLocked())
	a.mu.Unlock()
	a.setDesktopIconsVisible(true)
	a.refreshDesktop()
}

// ToggleFences flips fence visibility and returns the new state. Desktop
// icons follow the fences: hiding the fences clears the desktop.
func (a *App) ToggleFences() bool {
	a.mu.Lock()
	a.visible = !a.visible
	visible := a.visible
	a.mu.Unlock()

	a.registry.SetVisible(visible)
	a.setDesktopIconsVisible(visible)
	a.log.Info().Bool("visible", visible).Msg("fences toggled")
	a.notifyVisibility(visible)
	return visible
}

// Visible reports whether fences are shown.
func (a *App) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// Reconcile runs one reconcile pass over the fences and persists every
// fence it changed. Records are first re-read from the store so edits made
// by another process are reconciled rather than overwritten. Tracked files
// found both on the desktop and staged are staged again, which deletes the
// desktop duplicate. Save failures are returned joined; the in-memory
// model keeps the reconciled state either way.
func (a *App) Reconcile() (reconcile.Result, error) {
	a.passMu.Lock()
	defer a.passMu.Unlock()

	a.mu.Lock()
	synced := a.syncFromStoreLocked()
	working := make([]*model.Fence, len(a.fences))
	for i, f := range a.fences {
		working[i] = f.Clone()
	}
	res, err := a.reconciler.Pass(working)
	if err != nil {
		a.mu.Unlock()
		a.log.Debug().Err(err).Msg("reconcile pass aborted")
		a.notifyAll(synced)
		return res, err
	}

	changed := make(map[string]bool, len(res.Changed))
	for _, id := range res.Changed {
		changed[id] = true
	}
	var errs []error
	for i, f := range working {
		if !changed[f.ID] {
			continue
		}
		a.fences[i] = f
		if err := a.store.Save(f); err != nil {
			a.log.Error().Err(err).Str("fence", f.ID).Msg("failed to save reconciled fence")
			errs = append(errs, err)
		}
	}
	for _, p := range res.Duplicates {
		a.staging.Stage(p)
	}
	a.mu.Unlock()

	if len(res.Duplicates) > 0 {
		a.refreshDesktop()
	}
	a.notifyAll(synced)
	a.notifyAll(res.Changed)
	return res, errors.Join(errs...)
}

// syncFromStoreLocked merges the persisted records into the model by id
// and returns the ids whose record differed. Fences whose record is gone
// are dropped; new records are appended. A store error keeps the model.
func (a *App) syncFromStoreLocked() []string {
	stored, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("cannot reload fence records")
		return nil
	}
	byID := make(map[string]*model.Fence, len(stored))
	for _, f := range stored {
		byID[f.ID] = f
	}

	var changed []string
	merged := make([]*model.Fence, 0, len(stored))
	for _, f := range a.fences {
		s, ok := byID[f.ID]
		if !ok {
			a.untrackLocked(f.ID)
			changed = append(changed, f.ID)
			a.log.Info().Str("fence", f.ID).Msg("fence record removed externally")
			continue
		}
		delete(byID, f.ID)
		if !reflect.DeepEqual(s, f) {
			changed = append(changed, f.ID)
			if h, ok := a.boundHandles[f.ID]; ok {
				a.registry.Update(h, s.Bounds())
			}
		}
		merged = append(merged, s)
	}
	for _, f := range stored {
		if _, added := byID[f.ID]; !added {
			continue
		}
		if a.trackBounds {
			a.trackLocked(f)
		}
		changed = append(changed, f.ID)
		merged = append(merged, f)
		a.log.Info().Str("fence", f.ID).Msg("fence record added externally")
	}
	a.fences = merged
	return changed
}

// reconcileInBackground is the watcher's settle callback.
func (a *App) reconcileInBackground() {
	res, err := a.Reconcile()
	if err != nil {
		a.log.Warn().Err(err).Msg("background reconcile failed")
		return
	}
	if !res.Empty() {
		a.log.Info().Int("renames", len(res.Renames)).Int("removals", len(res.Removals)).Msg("reconciled staging directory")
	}
	if len(res.Duplicates) > 0 {
		a.log.Info().Int("duplicates", len(res.Duplicates)).Msg("removed desktop duplicates of staged files")
	}
}

func (a *App) refreshDesktop() {
	if a.provider == nil || a.provider.Shell == nil {
		return
	}
	if err := a.provider.Shell.RefreshDesktopIcons(); err != nil {
		a.log.Debug().Err(err).Msg("desktop refresh failed")
	}
}

func (a *App) setDesktopIconsVisible(visible bool) {
	if a.provider == nil || a.provider.Shell == nil {
		return
	}
	if err := a.provider.Shell.SetDesktopIconsVisible(visible); err != nil {
		a.log.Debug().Err(err).Bool("visible", visible).Msg("cannot set desktop icon visibility")
	}
}

// defaultGestures hands gestures to the main loop, where double-click
// toggles fences and a drag creates a fence covering the rectangle.
type defaultGestures struct {
	a *App
}

func (g defaultGestures) DesktopDoubleClicked() {
	g.a.loop.Post(func() { g.a.ToggleFences() })
}

func (g defaultGestures) DesktopDragCompleted(rect model.Rect) {
	g.a.loop.Post(func() {
		if _, err := g.a.CreateFence(g.a.cfg.Gesture.NewFenceName, &rect); err != nil {
			g.a.log.Error().Err(err).Msg("cannot create fence from drag")
		}
	})
}
