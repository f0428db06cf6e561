package staging

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths resolves where a tracked file lives: at its original location or
// under the staging directory, keyed by base filename.
type Paths struct {
	dir string
}

// NewPaths returns a Paths rooted at the given staging directory.
func NewPaths(dir string) Paths {
	return Paths{dir: dir}
}

// Dir returns the staging directory.
func (p Paths) Dir() string {
	return p.dir
}

// StagedPath returns where orig lives while staged.
func (p Paths) StagedPath(orig string) string {
	return filepath.Join(p.dir, filepath.Base(orig))
}

// EffectivePath returns the current location of orig: the original path if
// it exists, else the staged path if that exists, else orig unchanged so that
// downstream I/O fails naturally.
func (p Paths) EffectivePath(orig string) string {
	if Exists(orig) {
		return orig
	}
	if staged := p.StagedPath(orig); Exists(staged) {
		return staged
	}
	return orig
}

// Exists reports whether a file or directory is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// NameKey maps a filename to the key used to compare staged names. Windows
// filesystems are case-insensitive, so names fold there.
func NameKey(name string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(name)
	}
	return name
}
