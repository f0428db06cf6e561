package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	desktop string
	engine  *Engine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	desktop := filepath.Join(root, "Desktop")
	require.NoError(t, os.MkdirAll(desktop, 0o755))
	paths := NewPaths(filepath.Join(root, "data", "__staged"))
	return fixture{desktop: desktop, engine: NewEngine(paths, zerolog.Nop())}
}

func (f fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStageUnstage_RoundTrip(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "notes.txt")
	f.write(t, orig, "hello")

	f.engine.Stage(orig)
	assert.NoFileExists(t, orig)
	staged := f.engine.Paths().StagedPath(orig)
	assert.FileExists(t, staged)

	f.engine.Unstage(orig)
	data, err := os.ReadFile(orig)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoFileExists(t, staged)
}

func TestStage_Directory(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "Projects")
	require.NoError(t, os.MkdirAll(filepath.Join(orig, "sub"), 0o755))

	f.engine.Stage(orig)
	assert.NoDirExists(t, orig)
	assert.DirExists(t, filepath.Join(f.engine.Paths().StagedPath(orig), "sub"))

	f.engine.Unstage(orig)
	assert.DirExists(t, filepath.Join(orig, "sub"))
}

func TestStage_DuplicateRemovesOriginal(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "app.lnk")
	f.write(t, orig, "staged")
	f.engine.Stage(orig)

	// installer recreates the shortcut
	f.write(t, orig, "recreated")
	f.engine.Stage(orig)

	assert.NoFileExists(t, orig)
	data, err := os.ReadFile(f.engine.Paths().StagedPath(orig))
	require.NoError(t, err)
	assert.Equal(t, "staged", string(data), "staged copy stays authoritative")
}

func TestStage_AlreadyStagedIsNoop(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "a.txt")
	f.write(t, orig, "x")
	f.engine.Stage(orig)
	f.engine.Stage(orig)

	assert.FileExists(t, f.engine.Paths().StagedPath(orig))
	assert.NoFileExists(t, orig)
}

func TestStage_MissingSourceIsNoop(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "ghost.txt")
	f.engine.Stage(orig)

	assert.NoFileExists(t, f.engine.Paths().StagedPath(orig))
	assert.DirExists(t, f.engine.Paths().Dir(), "staging dir is created")
}

func TestUnstage_MissingStagedIsNoop(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "ghost.txt")
	f.engine.Unstage(orig)
	assert.NoFileExists(t, orig)
}

func TestUnstage_DoesNotOverwriteOriginal(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "a.txt")
	f.write(t, orig, "old")
	f.engine.Stage(orig)
	f.write(t, orig, "new")

	f.engine.Unstage(orig)
	data, err := os.ReadFile(orig)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.FileExists(t, f.engine.Paths().StagedPath(orig))
}

func TestUnstage_RecreatesParentDirectory(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "a.txt")
	f.write(t, orig, "x")
	f.engine.Stage(orig)
	require.NoError(t, os.RemoveAll(f.desktop))

	f.engine.Unstage(orig)
	assert.FileExists(t, orig)
}

func TestEffectivePath(t *testing.T) {
	f := newFixture(t)
	orig := filepath.Join(f.desktop, "a.txt")
	assert.Equal(t, orig, f.engine.EffectivePath(orig), "missing everywhere returns original")

	f.write(t, orig, "x")
	assert.Equal(t, orig, f.engine.EffectivePath(orig))

	f.engine.Stage(orig)
	assert.Equal(t, f.engine.Paths().StagedPath(orig), f.engine.EffectivePath(orig))
}

func TestStageAll_UnstageAll(t *testing.T) {
	f := newFixture(t)
	var files []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(f.desktop, name)
		f.write(t, p, name)
		files = append(files, p)
	}

	f.engine.StageAll(files)
	entries, err := os.ReadDir(f.engine.Paths().Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	f.engine.UnstageAll(files)
	entries, err = os.ReadDir(f.engine.Paths().Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
	for _, p := range files {
		assert.FileExists(t, p)
	}
}
