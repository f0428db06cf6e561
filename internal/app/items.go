package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/staging"
)

// AddItem starts tracking path in tab of a fence and hides it from the
// desktop. Staged files are keyed by name, so a name already tracked by
// any fence is rejected with ErrAlreadyTracked.
func (a *App) AddItem(id string, tab int, path string) (*model.Fence, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Lstat(a.staging.EffectivePath(abs)); err != nil {
		return nil, fmt.Errorf("add %s: %w", abs, err)
	}

	a.mu.Lock()
	key := staging.NameKey(filepath.Base(abs))
	for _, f := range a.fences {
		for _, p := range f.AllFiles() {
			if staging.NameKey(filepath.Base(p)) == key {
				a.mu.Unlock()
				return nil, fmt.Errorf("%w: %s (fence %q)", ErrAlreadyTracked, filepath.Base(abs), f.Name)
			}
		}
	}
	f, err := a.update(id, func(f *model.Fence) error {
		return f.AddFile(tab, abs)
	})
	if err == nil {
		a.staging.Stage(abs)
	}
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	a.log.Info().Str("fence", f.ID).Str("path", abs).Msg("item added")
	a.notifyChanged(f.ID)
	return f.Clone(), nil
}

// RemoveItem stops tracking path and restores it to the desktop.
func (a *App) RemoveItem(id, path string) (*model.Fence, error) {
	a.mu.Lock()
	target := a.resolveTrackedLocked(id, path)
	f, err := a.update(id, func(f *model.Fence) error {
		return f.RemoveFile(target)
	})
	if err == nil {
		a.staging.Unstage(target)
	}
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	a.refreshDesktop()
	a.log.Info().Str("fence", f.ID).Str("path", target).Msg("item removed")
	a.notifyChanged(f.ID)
	return f.Clone(), nil
}

// MoveItem moves a tracked path to another tab of the same fence.
func (a *App) MoveItem(id, path string, toTab int) (*model.Fence, error) {
	a.mu.Lock()
	target := a.resolveTrackedLocked(id, path)
	a.mu.Unlock()
	return a.mutate(id, func(f *model.Fence) error {
		return f.MoveFile(target, toTab)
	})
}

// resolveTrackedLocked maps a user-supplied path or bare file name to the
// exact tracked path, falling back to path unchanged.
func (a *App) resolveTrackedLocked(id, path string) string {
	i, err := a.indexLocked(id)
	if err != nil {
		return path
	}
	f := a.fences[i]
	if ti, _ := f.FindFile(path); ti >= 0 {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		if ti, _ := f.FindFile(abs); ti >= 0 {
			return abs
		}
	}
	key := staging.NameKey(filepath.Base(path))
	for _, p := range f.AllFiles() {
		if staging.NameKey(filepath.Base(p)) == key {
			return p
		}
	}
	return path
}

// AddTab appends a tab to a fence and returns its index.
func (a *App) AddTab(id, name string) (*model.Fence, int, error) {
	index := -1
	f, err := a.mutate(id, func(f *model.Fence) error {
		index = f.AddTab(name)
		return nil
	})
	return f, index, err
}

// RenameTab renames tab i of a fence.
func (a *App) RenameTab(id string, i int, name string) (*model.Fence, error) {
	return a.mutate(id, func(f *model.Fence) error {
		return f.RenameTab(i, name)
	})
}

// DeleteTab removes tab i of a fence and restores its files to the
// desktop. The last tab cannot be deleted.
func (a *App) DeleteTab(id string, i int) (*model.Fence, error) {
	var released []string
	a.mu.Lock()
	f, err := a.update(id, func(f *model.Fence) error {
		files, err := f.DeleteTab(i)
		released = files
		return err
	})
	if err == nil {
		a.staging.UnstageAll(released)
	}
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(released) > 0 {
		a.refreshDesktop()
	}
	a.notifyChanged(f.ID)
	return f.Clone(), nil
}

// MoveTab reorders the tabs of a fence.
func (a *App) MoveTab(id string, from, to int) (*model.Fence, error) {
	return a.mutate(id, func(f *model.Fence) error {
		return f.MoveTab(from, to)
	})
}

// EffectivePath returns where a tracked path currently lives on disk.
func (a *App) EffectivePath(path string) string {
	return a.staging.EffectivePath(path)
}

// ResolveDisplayIcon resolves the icon for a tracked path at its current
// location.
func (a *App) ResolveDisplayIcon(path string) (Icon, error) {
	return a.icons.ResolveIcon(a.staging.EffectivePath(path))
}
