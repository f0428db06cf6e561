package app

import (
	"os"
	"path/filepath"
	"strings"
)

// Icon describes how the UI should draw a tracked entry.
type Icon struct {
	Path string `yaml:"path" json:"path"`
	Kind string `yaml:"kind" json:"kind"`
}

// IconResolver extracts display icons. Thumbnail extraction lives in the
// UI layer; the App only routes requests to the entry's current location.
type IconResolver interface {
	ResolveIcon(effectivePath string) (Icon, error)
}

// FileIconResolver classifies entries by type and extension.
type FileIconResolver struct{}

// ResolveIcon implements IconResolver.
func (FileIconResolver) ResolveIcon(path string) (Icon, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Icon{}, err
	}
	icon := Icon{Path: path, Kind: "file"}
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		icon.Kind = "folder"
	case ext == ".lnk" || ext == ".url":
		icon.Kind = "shortcut"
	case info.Mode()&os.ModeSymlink != 0:
		icon.Kind = "shortcut"
	case ext == ".exe" || ext == ".bat" || ext == ".cmd":
		icon.Kind = "program"
	case ext != "":
		icon.Kind = ext[1:]
	}
	return icon, nil
}
