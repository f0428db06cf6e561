package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// Record field names are persisted to disk. Do not rename yaml/json tags.

const (
	DefaultTitleHeight = 35
	DefaultAccentColor = -10182682 // ARGB 0xFF649FE6
	DefaultOpacity     = 60
	DefaultIconSize    = 75
	DefaultTabName     = "Main"
)

var (
	ErrLastTab    = errors.New("cannot delete the last tab of a fence")
	ErrTabIndex   = errors.New("tab index out of range")
	ErrNotTracked = errors.New("path is not tracked by this fence")
)

// Tab is an ordered list of tracked paths inside a fence. Color fields of 0
// inherit the fence's colors.
type Tab struct {
	Name        string   `yaml:"name"                   json:"name"`
	Files       []string `yaml:"files"                  json:"files"`
	AccentColor int      `yaml:"accent_color,omitempty" json:"accent_color,omitempty"`
	BoxColor    int      `yaml:"box_color,omitempty"    json:"box_color,omitempty"`
	LabelColor  int      `yaml:"label_color,omitempty"  json:"label_color,omitempty"`
}

// Fence is the persisted record of one fence window and the paths it tracks.
type Fence struct {
	ID          string `yaml:"id"           json:"id"`
	Name        string `yaml:"name"         json:"name"`
	PosX        int    `yaml:"pos_x"        json:"pos_x"`
	PosY        int    `yaml:"pos_y"        json:"pos_y"`
	Width       int    `yaml:"width"        json:"width"`
	Height      int    `yaml:"height"       json:"height"`
	TitleHeight int    `yaml:"title_height" json:"title_height"`
	AccentColor int    `yaml:"accent_color" json:"accent_color"`
	Opacity     int    `yaml:"opacity"      json:"opacity"`
	LabelColor  int    `yaml:"label_color"  json:"label_color"`
	BoxColor    int    `yaml:"box_color"    json:"box_color"`
	IconSize    int    `yaml:"icon_size"    json:"icon_size"`
	Locked      bool   `yaml:"locked"       json:"locked"`
	CanMinify   bool   `yaml:"can_minify"   json:"can_minify"`

	// Files is the pre-tab flat list. Normalize moves it into a tab.
	Files []string `yaml:"files,omitempty" json:"files,omitempty"`
	Tabs  []Tab    `yaml:"tabs"            json:"tabs"`
}

// NewFence creates a fence with a fresh id, default appearance and a single
// empty tab.
func NewFence(name string, bounds Rect) *Fence {
	return &Fence{
		ID:          uuid.NewString(),
		Name:        name,
		PosX:        bounds.X,
		PosY:        bounds.Y,
		Width:       bounds.Width,
		Height:      bounds.Height,
		TitleHeight: DefaultTitleHeight,
		AccentColor: DefaultAccentColor,
		Opacity:     DefaultOpacity,
		IconSize:    DefaultIconSize,
		Tabs:        []Tab{{Name: DefaultTabName, Files: []string{}}},
	}
}

// Bounds returns the fence's screen rectangle.
func (f *Fence) Bounds() Rect {
	return Rect{X: f.PosX, Y: f.PosY, Width: f.Width, Height: f.Height}
}

// SetBounds moves and resizes the fence.
func (f *Fence) SetBounds(r Rect) {
	f.PosX, f.PosY, f.Width, f.Height = r.X, r.Y, r.Width, r.Height
}

// Normalize upgrades records written before tabs existed and guarantees at
// least one tab. It reports whether anything changed.
func (f *Fence) Normalize() bool {
	changed := false
	if len(f.Tabs) == 0 && len(f.Files) > 0 {
		f.Tabs = append(f.Tabs, Tab{Name: DefaultTabName, Files: append([]string(nil), f.Files...)})
		changed = true
	}
	if len(f.Files) > 0 {
		f.Files = nil
		changed = true
	}
	if len(f.Tabs) == 0 {
		f.Tabs = []Tab{{Name: DefaultTabName, Files: []string{}}}
		changed = true
	}
	for i := range f.Tabs {
		if f.Tabs[i].Files == nil {
			f.Tabs[i].Files = []string{}
		}
	}
	if f.TitleHeight == 0 {
		f.TitleHeight = DefaultTitleHeight
		changed = true
	}
	if f.IconSize == 0 {
		f.IconSize = DefaultIconSize
		changed = true
	}
	return changed
}

// Clone returns a deep copy of f.
func (f *Fence) Clone() *Fence {
	c := *f
	c.Files = append([]string(nil), f.Files...)
	c.Tabs = make([]Tab, len(f.Tabs))
	for i, t := range f.Tabs {
		c.Tabs[i] = t
		c.Tabs[i].Files = append([]string{}, t.Files...)
	}
	return &c
}

func (f *Fence) checkTab(i int) error {
	if i < 0 || i >= len(f.Tabs) {
		return fmt.Errorf("%w: %d (fence has %d tabs)", ErrTabIndex, i, len(f.Tabs))
	}
	return nil
}

// AddTab appends a new empty tab and returns its index.
func (f *Fence) AddTab(name string) int {
	f.Tabs = append(f.Tabs, Tab{Name: name, Files: []string{}})
	return len(f.Tabs) - 1
}

// RenameTab changes the name of tab i.
func (f *Fence) RenameTab(i int, name string) error {
	if err := f.checkTab(i); err != nil {
		return err
	}
	f.Tabs[i].Name = name
	return nil
}

// DeleteTab removes tab i and returns the files it held. The last tab can
// never be deleted.
func (f *Fence) DeleteTab(i int) ([]string, error) {
	if err := f.checkTab(i); err != nil {
		return nil, err
	}
	if len(f.Tabs) <= 1 {
		return nil, ErrLastTab
	}
	files := f.Tabs[i].Files
	f.Tabs = append(f.Tabs[:i], f.Tabs[i+1:]...)
	return files, nil
}

// MoveTab reorders tab from to index to.
func (f *Fence) MoveTab(from, to int) error {
	if err := f.checkTab(from); err != nil {
		return err
	}
	if err := f.checkTab(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	tab := f.Tabs[from]
	f.Tabs = append(f.Tabs[:from], f.Tabs[from+1:]...)
	f.Tabs = append(f.Tabs[:to], append([]Tab{tab}, f.Tabs[to:]...)...)
	return nil
}

// FindFile returns the tab and index holding path, or -1, -1.
func (f *Fence) FindFile(path string) (tab, index int) {
	for ti, t := range f.Tabs {
		for fi, p := range t.Files {
			if p == path {
				return ti, fi
			}
		}
	}
	return -1, -1
}

// AddFile appends path to tab i. Adding a path the fence already tracks
// moves it instead, so a path is never held by two tabs.
func (f *Fence) AddFile(i int, path string) error {
	if err := f.checkTab(i); err != nil {
		return err
	}
	if ti, _ := f.FindFile(path); ti >= 0 {
		return f.MoveFile(path, i)
	}
	f.Tabs[i].Files = append(f.Tabs[i].Files, path)
	return nil
}

// RemoveFile drops path from whichever tab holds it.
func (f *Fence) RemoveFile(path string) error {
	ti, fi := f.FindFile(path)
	if ti < 0 {
		return fmt.Errorf("%w: %s", ErrNotTracked, path)
	}
	f.removeAt(ti, fi)
	return nil
}

// MoveFile moves path into tab to. The path is removed from its current tab
// before being appended, never duplicated.
func (f *Fence) MoveFile(path string, to int) error {
	if err := f.checkTab(to); err != nil {
		return err
	}
	ti, fi := f.FindFile(path)
	if ti < 0 {
		return fmt.Errorf("%w: %s", ErrNotTracked, path)
	}
	if ti == to {
		return nil
	}
	f.removeAt(ti, fi)
	f.Tabs[to].Files = append(f.Tabs[to].Files, path)
	return nil
}

// RemoveAt drops the file at index fi of tab ti.
func (f *Fence) RemoveAt(ti, fi int) {
	f.removeAt(ti, fi)
}

func (f *Fence) removeAt(ti, fi int) {
	files := f.Tabs[ti].Files
	f.Tabs[ti].Files = append(files[:fi], files[fi+1:]...)
}

// Rebind points the file at index fi of tab ti to a new base name in the
// same directory.
func (f *Fence) Rebind(ti, fi int, name string) string {
	old := f.Tabs[ti].Files[fi]
	f.Tabs[ti].Files[fi] = filepath.Join(filepath.Dir(old), name)
	return f.Tabs[ti].Files[fi]
}

// AllFiles returns every tracked path in tab order.
func (f *Fence) AllFiles() []string {
	var out []string
	for _, t := range f.Tabs {
		out = append(out, t.Files...)
	}
	out = append(out, f.Files...)
	return out
}

// FileCount returns the number of tracked paths across all tabs.
func (f *Fence) FileCount() int {
	n := 0
	for _, t := range f.Tabs {
		n += len(t.Files)
	}
	return n
}
