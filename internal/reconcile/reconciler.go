// Package reconcile repairs tracked file lists against the contents of the
// staging directory after external renames and deletions.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/staging"
)

// OrphanOrder decides which orphan a vanished tracked file is paired with
// when more than one is available.
type OrphanOrder int

const (
	// OrphanLexical pairs with the lexically smallest orphan name.
	OrphanLexical OrphanOrder = iota
	// OrphanEnumeration pairs with the first orphan in directory order.
	OrphanEnumeration
)

// ParseOrphanOrder maps a config value to an OrphanOrder.
func ParseOrphanOrder(s string) (OrphanOrder, error) {
	switch s {
	case "", "lexical":
		return OrphanLexical, nil
	case "enumeration":
		return OrphanEnumeration, nil
	}
	return OrphanLexical, fmt.Errorf("unknown orphan order %q", s)
}

func (o OrphanOrder) String() string {
	if o == OrphanEnumeration {
		return "enumeration"
	}
	return "lexical"
}

// RenameCandidate records a vanished tracked path rebound to an orphan
// staged file. The pairing is a heuristic and may be wrong when several
// files vanish in one pass.
type RenameCandidate struct {
	FenceID string `yaml:"fence_id" json:"fence_id"`
	Tab     int    `yaml:"tab"      json:"tab"`
	Index   int    `yaml:"index"    json:"index"`
	From    string `yaml:"from"     json:"from"`
	To      string `yaml:"to"       json:"to"`
}

// Removal records a tracked path dropped because it exists nowhere.
type Removal struct {
	FenceID string `yaml:"fence_id" json:"fence_id"`
	Tab     int    `yaml:"tab"      json:"tab"`
	Path    string `yaml:"path"     json:"path"`
}

// Result describes the mutations made by one pass. Duplicates lists
// tracked paths present both at their original location and in the
// staging directory; the pass leaves them to the staging engine.
type Result struct {
	Renames    []RenameCandidate `yaml:"renames"    json:"renames"`
	Removals   []Removal         `yaml:"removals"   json:"removals"`
	Duplicates []string          `yaml:"duplicates" json:"duplicates"`
	Changed    []string          `yaml:"changed"    json:"changed"`
}

// Empty reports whether the pass changed nothing.
func (r Result) Empty() bool {
	return len(r.Changed) == 0
}

// Reconciler runs reconcile passes over in-memory fences.
type Reconciler struct {
	paths staging.Paths
	order OrphanOrder
	log   zerolog.Logger
}

// New creates a reconciler for the staging directory described by paths.
func New(paths staging.Paths, order OrphanOrder, log zerolog.Logger) *Reconciler {
	return &Reconciler{paths: paths, order: order, log: log}
}

// Pass aligns the tracked paths of fences with the staging directory,
// mutating fences in place. A tracked path whose staged name is present, or
// whose original still exists, is left alone. Otherwise it is rebound to an
// orphan staged name (one no fence tracks) or removed when none is left.
//
// An error reading the staging directory aborts the pass before any
// mutation.
func (r *Reconciler) Pass(fences []*model.Fence) (Result, error) {
	var res Result

	orphans, staged, err := r.scan()
	if err != nil {
		return res, err
	}

	tracked := make(map[string]bool)
	for _, f := range fences {
		for _, p := range f.AllFiles() {
			tracked[staging.NameKey(filepath.Base(p))] = true
		}
	}

	next := func() (string, bool) {
		for _, name := range orphans {
			if !tracked[staging.NameKey(name)] {
				return name, true
			}
		}
		return "", false
	}

	for _, f := range fences {
		changed := false
		for ti := range f.Tabs {
			files := f.Tabs[ti].Files
			for fi := len(files) - 1; fi >= 0; fi-- {
				p := files[fi]
				if staged[staging.NameKey(filepath.Base(p))] {
					if staging.Exists(p) {
						res.Duplicates = append(res.Duplicates, p)
					}
					continue
				}
				if staging.Exists(p) {
					continue
				}
				if orphan, ok := next(); ok {
					to := f.Rebind(ti, fi, orphan)
					tracked[staging.NameKey(orphan)] = true
					res.Renames = append(res.Renames, RenameCandidate{
						FenceID: f.ID, Tab: ti, Index: fi, From: p, To: to,
					})
					r.log.Info().Str("fence", f.ID).Str("from", p).Str("to", to).Msg("rebound renamed file")
				} else {
					f.RemoveAt(ti, fi)
					res.Removals = append(res.Removals, Removal{FenceID: f.ID, Tab: ti, Path: p})
					r.log.Info().Str("fence", f.ID).Str("path", p).Msg("removed deleted file")
				}
				changed = true
				files = f.Tabs[ti].Files
			}
		}
		if changed {
			res.Changed = append(res.Changed, f.ID)
		}
	}
	return res, nil
}

// scan lists the staging directory in pass order and returns the set of
// present name keys. A missing staging directory is empty.
func (r *Reconciler) scan() ([]string, map[string]bool, error) {
	entries, err := readDirUnsorted(r.paths.Dir())
	if err != nil {
		return nil, nil, fmt.Errorf("read staging directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
		present[staging.NameKey(e.Name())] = true
	}
	if r.order == OrphanLexical {
		sort.Strings(names)
	}
	return names, present, nil
}

// readDirUnsorted lists dir in the order the filesystem returns entries.
func readDirUnsorted(dir string) ([]os.DirEntry, error) {
	d, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer d.Close()
	return d.ReadDir(-1)
}
