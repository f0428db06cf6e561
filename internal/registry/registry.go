// Package registry tracks the screen bounds of open fence windows so that
// input over a fence is never mistaken for desktop input.
package registry

import (
	"sync"

	"github.com/mj1618/desktop-fences/internal/model"
)

// Handle identifies a fence window. Its value is opaque to the registry.
type Handle uintptr

// FenceBounds is a concurrent set of fence window rectangles. Writes come
// from window lifecycle events; reads come from the input pipeline.
type FenceBounds struct {
	mu      sync.RWMutex
	bounds  map[Handle]model.Rect
	visible bool
}

// New creates an empty registry with fences visible.
func New() *FenceBounds {
	return &FenceBounds{bounds: make(map[Handle]model.Rect), visible: true}
}

// Add registers a fence window. Adding a known handle replaces its bounds.
func (r *FenceBounds) Add(h Handle, rect model.Rect) {
	r.mu.Lock()
	r.bounds[h] = rect
	r.mu.Unlock()
}

// Update changes the bounds of a registered window. Unknown handles are
// ignored and reported as false.
func (r *FenceBounds) Update(h Handle, rect model.Rect) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bounds[h]; !ok {
		return false
	}
	r.bounds[h] = rect
	return true
}

// Remove unregisters a fence window.
func (r *FenceBounds) Remove(h Handle) {
	r.mu.Lock()
	delete(r.bounds, h)
	r.mu.Unlock()
}

// SetVisible records whether fence windows are shown. Hidden fences do not
// cover any point.
func (r *FenceBounds) SetVisible(visible bool) {
	r.mu.Lock()
	r.visible = visible
	r.mu.Unlock()
}

// Visible reports whether fence windows are shown.
func (r *FenceBounds) Visible() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible
}

// Contains reports whether h is registered.
func (r *FenceBounds) Contains(h Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bounds[h]
	return ok
}

// ContainsOrOverlaps reports whether p lies within any visible fence,
// edges included.
func (r *FenceBounds) ContainsOrOverlaps(p model.Point) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.visible {
		return false
	}
	for _, rect := range r.bounds {
		if rect.Contains(p) {
			return true
		}
	}
	return false
}

// Len returns the number of registered windows.
func (r *FenceBounds) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bounds)
}
