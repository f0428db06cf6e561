// Package store persists fence records, one directory per fence keyed by the
// fence id.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-fences/internal/model"
)

// RecordFileName is the name of the per-fence record file.
const RecordFileName = "__fence_metadata.yaml"

// Store reads and writes fence records under a data directory.
type Store struct {
	dir     string
	skip    map[string]bool
	log     zerolog.Logger
	mu      sync.Mutex
	fenceMu map[string]*sync.Mutex
}

// New creates a store rooted at dir. Subdirectories named in skip (such as
// the staging directory) are never treated as fences.
func New(dir string, log zerolog.Logger, skip ...string) *Store {
	s := &Store{
		dir:     dir,
		skip:    make(map[string]bool, len(skip)),
		log:     log,
		fenceMu: make(map[string]*sync.Mutex),
	}
	for _, name := range skip {
		s.skip[name] = true
	}
	return s
}

// FenceDir returns the directory holding the record for id.
func (s *Store) FenceDir(id string) string {
	return filepath.Join(s.dir, id)
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.FenceDir(id), RecordFileName)
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.fenceMu[id]
	if !ok {
		m = &sync.Mutex{}
		s.fenceMu[id] = m
	}
	return m
}

// Load reads every fence record in the data directory, ordered by id.
// Directories without a record are skipped; unreadable records are logged
// and skipped. A missing data directory yields no fences.
func (s *Store) Load() ([]*model.Fence, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory %s: %w", s.dir, err)
	}

	var fences []*model.Fence
	for _, e := range entries {
		if !e.IsDir() || s.skip[e.Name()] {
			continue
		}
		f, err := s.Get(e.Name())
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.log.Error().Err(err).Str("dir", e.Name()).Msg("skipping unreadable fence record")
			}
			continue
		}
		fences = append(fences, f)
	}
	sort.Slice(fences, func(i, j int) bool { return fences[i].ID < fences[j].ID })
	return fences, nil
}

// Get reads the record for id. The returned error wraps fs.ErrNotExist when
// no record exists. The directory name is the fence id: a record carrying
// a different id (a copied fence directory) is loaded under the directory
// name so later saves stay in place.
func (s *Store) Get(id string) (*model.Fence, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		return nil, err
	}
	var f model.Fence
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fence record %s: %w", id, err)
	}
	if f.ID != id {
		if f.ID != "" {
			s.log.Warn().Str("dir", id).Str("record_id", f.ID).Msg("fence record id does not match its directory, using the directory name")
		}
		f.ID = id
	}
	f.Normalize()
	return &f, nil
}

// Save writes f atomically. Saves of the same fence are serialized.
func (s *Store) Save(f *model.Fence) error {
	if f.ID == "" {
		return errors.New("fence has no id")
	}
	m := s.lockFor(f.ID)
	m.Lock()
	defer m.Unlock()

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode fence %s: %w", f.ID, err)
	}

	dir := s.FenceDir(f.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fence directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for fence %s: %w", f.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write fence %s: %w", f.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for fence %s: %w", f.ID, err)
	}
	if err := os.Rename(tmpName, s.recordPath(f.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp for fence %s: %w", f.ID, err)
	}
	return nil
}

// Remove deletes the fence directory for id. Removing an unknown id is not
// an error.
func (s *Store) Remove(id string) error {
	m := s.lockFor(id)
	m.Lock()
	defer m.Unlock()

	if err := os.RemoveAll(s.FenceDir(id)); err != nil {
		return fmt.Errorf("remove fence %s: %w", id, err)
	}
	s.mu.Lock()
	delete(s.fenceMu, id)
	s.mu.Unlock()
	return nil
}
