// Package app is the context object wiring fences, staging, reconciliation
// and desktop gestures together. One App is constructed per process and
// passed to every collaborator.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/config"
	"github.com/mj1618/desktop-fences/internal/gesture"
	"github.com/mj1618/desktop-fences/internal/logging"
	"github.com/mj1618/desktop-fences/internal/mainloop"
	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
	"github.com/mj1618/desktop-fences/internal/reconcile"
	"github.com/mj1618/desktop-fences/internal/registry"
	"github.com/mj1618/desktop-fences/internal/staging"
	"github.com/mj1618/desktop-fences/internal/store"
)

var (
	ErrFenceNotFound  = errors.New("fence not found")
	ErrAlreadyTracked = errors.New("a file with this name is already tracked")
)

// Notifier receives UI-facing notifications. Calls arrive on the main loop
// while App.Run is active, and synchronously otherwise.
type Notifier interface {
	TrackedFilesChanged(fenceID string)
	VisibilityChanged(visible bool)
}

// Options configures an App.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger

	// Provider is the desktop backend. Nil runs headless: staging and
	// reconciliation work, gestures and shell refresh do not.
	Provider *platform.Provider

	Notifier Notifier
	Icons    IconResolver

	// Gestures overrides the default gesture handling, which toggles
	// fences on double-click and creates a fence on drag.
	Gestures gesture.Sink

	// TrackModelBounds registers every fence's stored bounds in the
	// window registry, for running without fence windows.
	TrackModelBounds bool
}

// App owns the in-memory fence model and every component acting on it.
type App struct {
	cfg      *config.Config
	base     zerolog.Logger
	log      zerolog.Logger
	provider *platform.Provider
	notifier Notifier
	icons    IconResolver
	gestures gesture.Sink

	store      *store.Store
	staging    *staging.Engine
	reconciler *reconcile.Reconciler
	watcher    *reconcile.Watcher
	registry   *registry.FenceBounds
	classifier *gesture.DesktopClassifier
	loop       *mainloop.Loop
	repaint    *mainloop.Coalescer

	// passMu serializes reconcile passes so every settle scans the
	// staging directory after the events that armed it.
	passMu sync.Mutex

	running atomic.Bool

	mu           sync.Mutex
	fences       []*model.Fence
	visible      bool
	trackBounds  bool
	boundHandles map[string]registry.Handle
	nextHandle   registry.Handle
	cancel       func()
}

// New builds an App from opts. Nothing touches the filesystem until Load.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	order, err := reconcile.ParseOrphanOrder(cfg.Reconcile.OrphanOrder)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	log := opts.Logger
	paths := staging.NewPaths(cfg.StagingDir())
	a := &App{
		cfg:          cfg,
		base:         log,
		log:          logging.WithComponent(log, "app"),
		provider:     opts.Provider,
		notifier:     opts.Notifier,
		icons:        opts.Icons,
		store:        store.New(cfg.DataDir, logging.WithComponent(log, "store"), cfg.StagingDirName),
		staging:      staging.NewEngine(paths, logging.WithComponent(log, "staging")),
		reconciler:   reconcile.New(paths, order, logging.WithComponent(log, "reconcile")),
		registry:     registry.New(),
		loop:         mainloop.New(logging.WithComponent(log, "mainloop")),
		visible:      true,
		trackBounds:  opts.TrackModelBounds,
		boundHandles: make(map[string]registry.Handle),
		nextHandle:   1,
	}
	if a.icons == nil {
		a.icons = FileIconResolver{}
	}
	var desktop platform.PointClassifier
	if a.provider != nil {
		desktop = a.provider.Classifier
	}
	a.classifier = gesture.NewDesktopClassifier(a.registry, desktop)
	a.repaint = mainloop.NewCoalescer(a.loop.Post)
	a.watcher = reconcile.NewWatcher(paths.Dir(), cfg.Reconcile.Debounce, a.reconcileInBackground,
		logging.WithComponent(log, "watcher"))
	a.gestures = opts.Gestures
	if a.gestures == nil {
		a.gestures = defaultGestures{a: a}
	}
	return a, nil
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Load reads every persisted fence, replacing the in-memory model.
func (a *App) Load() error {
	fences, err := a.store.Load()
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fences = fences
	if a.trackBounds {
		for _, f := range fences {
			a.trackLocked(f)
		}
	}
	tracked := 0
	for _, f := range fences {
		tracked += f.FileCount()
	}
	a.log.Debug().Int("fences", len(fences)).Int("tracked", tracked).Msg("fences loaded")
	return nil
}

// Fences returns copies of every fence.
func (a *App) Fences() []*model.Fence {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*model.Fence, len(a.fences))
	for i, f := range a.fences {
		out[i] = f.Clone()
	}
	return out
}

// Fence returns a copy of the fence with the given id. A unique id prefix
// is accepted.
func (a *App) Fence(id string) (*model.Fence, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, err := a.indexLocked(id)
	if err != nil {
		return nil, err
	}
	return a.fences[i].Clone(), nil
}

func (a *App) indexLocked(id string) (int, error) {
	match := -1
	for i, f := range a.fences {
		if f.ID == id {
			return i, nil
		}
		if id != "" && len(id) < len(f.ID) && f.ID[:len(id)] == id {
			if match >= 0 {
				return -1, fmt.Errorf("%w: %q is ambiguous", ErrFenceNotFound, id)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrFenceNotFound, id)
	}
	return match, nil
}

// update applies fn to a copy of the fence, persists the copy and only then
// swaps it into the model, so a failed save leaves memory unchanged.
func (a *App) update(id string, fn func(f *model.Fence) error) (*model.Fence, error) {
	i, err := a.indexLocked(id)
	if err != nil {
		return nil, err
	}
	c := a.fences[i].Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := a.store.Save(c); err != nil {
		a.log.Error().Err(err).Str("fence", c.ID).Msg("failed to save fence")
		return nil, err
	}
	a.fences[i] = c
	return c, nil
}

// mutate runs update under the model lock and notifies after releasing it.
func (a *App) mutate(id string, fn func(f *model.Fence) error) (*model.Fence, error) {
	a.mu.Lock()
	f, err := a.update(id, fn)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a.notifyChanged(f.ID)
	return f.Clone(), nil
}

// CreateFence creates and persists an empty fence. A nil bounds uses the
// configured default.
func (a *App) CreateFence(name string, bounds *model.Rect) (*model.Fence, error) {
	rect, err := model.ParseRect(a.cfg.Fence.DefaultBounds)
	if err != nil {
		return nil, err
	}
	if bounds != nil {
		rect = *bounds
	}
	f := model.NewFence(name, rect)
	if err := a.store.Save(f); err != nil {
		a.log.Error().Err(err).Msg("failed to save new fence")
		return nil, err
	}

	a.mu.Lock()
	a.fences = append(a.fences, f)
	if a.trackBounds {
		a.trackLocked(f)
	}
	a.mu.Unlock()

	a.log.Info().Str("fence", f.ID).Str("name", name).Str("bounds", rect.String()).Msg("fence created")
	a.notifyChanged(f.ID)
	return f.Clone(), nil
}

// RemoveFence restores every file the fence tracks to the desktop and
// deletes its record.
func (a *App) RemoveFence(id string) error {
	a.mu.Lock()
	i, err := a.indexLocked(id)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	f := a.fences[i]
	a.staging.UnstageAll(f.AllFiles())
	if err := a.store.Remove(f.ID); err != nil {
		a.mu.Unlock()
		return err
	}
	a.fences = append(a.fences[:i], a.fences[i+1:]...)
	a.untrackLocked(f.ID)
	a.mu.Unlock()

	a.refreshDesktop()
	a.log.Info().Str("fence", f.ID).Msg("fence removed")
	a.notifyChanged(f.ID)
	return nil
}

// RenameFence changes a fence's title.
func (a *App) RenameFence(id, name string) (*model.Fence, error) {
	return a.mutate(id, func(f *model.Fence) error {
		f.Name = name
		return nil
	})
}

// MoveFence changes a fence's screen bounds.
func (a *App) MoveFence(id string, bounds model.Rect) (*model.Fence, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("invalid bounds %s: width and height must be positive", bounds)
	}
	f, err := a.mutate(id, func(f *model.Fence) error {
		f.SetBounds(bounds)
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	if h, ok := a.boundHandles[f.ID]; ok {
		a.registry.Update(h, bounds)
	}
	a.mu.Unlock()
	return f, nil
}

// SetLocked locks or unlocks a fence against moves and edits by the UI.
func (a *App) SetLocked(id string, locked bool) (*model.Fence, error) {
	return a.mutate(id, func(f *model.Fence) error {
		f.Locked = locked
		return nil
	})
}

// RegisterFenceBounds records an open fence window.
func (a *App) RegisterFenceBounds(h registry.Handle, bounds model.Rect) {
	a.registry.Add(h, bounds)
}

// UnregisterFenceBounds forgets a closed fence window.
func (a *App) UnregisterFenceBounds(h registry.Handle) {
	a.registry.Remove(h)
}

// ClassifyPoint reports what lies under p, fences first.
func (a *App) ClassifyPoint(p model.Point) platform.PointClass {
	return a.classifier.ClassifyPoint(p)
}

func (a *App) trackLocked(f *model.Fence) {
	h := a.nextHandle
	a.nextHandle++
	a.boundHandles[f.ID] = h
	a.registry.Add(h, f.Bounds())
}

func (a *App) untrackLocked(id string) {
	if h, ok := a.boundHandles[id]; ok {
		a.registry.Remove(h)
		delete(a.boundHandles, id)
	}
}

func (a *App) allFilesLocked() []string {
	var files []string
	for _, f := range a.fences {
		files = append(files, f.AllFiles()...)
	}
	return files
}

// notifyChanged tells the UI a fence's tracked files changed. While the
// main loop runs, bursts for one fence collapse into a single call.
func (a *App) notifyChanged(id string) {
	if a.notifier == nil {
		return
	}
	if a.running.Load() {
		a.repaint.Post(id, func() { a.notifier.TrackedFilesChanged(id) })
		return
	}
	a.notifier.TrackedFilesChanged(id)
}

func (a *App) notifyAll(ids []string) {
	for _, id := range ids {
		a.notifyChanged(id)
	}
}

func (a *App) notifyVisibility(visible bool) {
	if a.notifier == nil {
		return
	}
	if a.running.Load() {
		a.repaint.Post("visibility", func() { a.notifier.VisibilityChanged(visible) })
		return
	}
	a.notifier.VisibilityChanged(visible)
}
