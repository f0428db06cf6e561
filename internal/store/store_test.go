package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/desktop-fences/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), zerolog.Nop(), "__staged")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newStore(t)
	f := model.NewFence("Work", model.Rect{X: 10, Y: 20, Width: 300, Height: 200})
	f.Locked = true
	f.Tabs[0].Files = []string{"/home/u/Desktop/a.txt"}
	f.AddTab("Docs")
	require.NoError(t, f.AddFile(1, "/home/u/Desktop/b.pdf"))
	require.NoError(t, s.Save(f))

	fences, err := s.Load()
	require.NoError(t, err)
	require.Len(t, fences, 1)
	assert.Equal(t, f, fences[0])
}

func TestLoad_MissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	fences, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, fences)
}

func TestLoad_SkipsStagingAndEmptyDirs(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "__staged"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "not-a-fence"), 0o755))
	require.NoError(t, s.Save(model.NewFence("A", model.Rect{Width: 1, Height: 1})))

	fences, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, fences, 1)
}

func TestLoad_SkipsCorruptRecord(t *testing.T) {
	s := newStore(t)
	dir := filepath.Join(s.dir, "broken")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), []byte("tabs: [unterminated"), 0o644))
	require.NoError(t, s.Save(model.NewFence("A", model.Rect{Width: 1, Height: 1})))

	fences, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, fences, 1)
}

func TestGet_MigratesLegacyFiles(t *testing.T) {
	s := newStore(t)
	dir := filepath.Join(s.dir, "legacy")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	record := "name: Old\nwidth: 100\nheight: 100\nfiles:\n  - /d/a.txt\n  - /d/b.txt\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), []byte(record), 0o644))

	f, err := s.Get("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", f.ID)
	require.Len(t, f.Tabs, 1)
	assert.Equal(t, model.DefaultTabName, f.Tabs[0].Name)
	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt"}, f.Tabs[0].Files)
	assert.Empty(t, f.Files)
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	f := model.NewFence("A", model.Rect{Width: 1, Height: 1})
	require.NoError(t, s.Save(f))
	require.NoError(t, s.Remove(f.ID))
	assert.NoDirExists(t, s.FenceDir(f.ID))
	assert.NoError(t, s.Remove("unknown"))
}

func TestSave_ConcurrentWritesLeaveValidRecord(t *testing.T) {
	s := newStore(t)
	f := model.NewFence("A", model.Rect{Width: 1, Height: 1})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := f.Clone()
			c.Opacity = i
			assert.NoError(t, s.Save(c))
		}(i)
	}
	wg.Wait()

	got, err := s.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Name, got.Name)

	entries, err := os.ReadDir(s.FenceDir(f.ID))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_RequiresID(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.Save(&model.Fence{Name: "x"}))
}

func TestGet_DirectoryNameWinsOverRecordID(t *testing.T) {
	s := newStore(t)
	f := model.NewFence("A", model.Rect{Width: 1, Height: 1})
	require.NoError(t, s.Save(f))

	copied := filepath.Join(s.dir, "copy")
	require.NoError(t, os.MkdirAll(copied, 0o755))
	data, err := os.ReadFile(filepath.Join(s.FenceDir(f.ID), RecordFileName))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(copied, RecordFileName), data, 0o644))

	got, err := s.Get("copy")
	require.NoError(t, err)
	assert.Equal(t, "copy", got.ID)

	got.Name = "edited"
	require.NoError(t, s.Save(got))
	original, err := s.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", original.Name, "saving the copy leaves the original record alone")

	fences, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, fences, 2)
}
