package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/desktop-fences/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
}

// Item is one tracked path and where it currently lives.
type Item struct {
	Path      string `yaml:"path"                json:"path"`
	Effective string `yaml:"effective,omitempty" json:"effective,omitempty"`
	Staged    bool   `yaml:"staged"              json:"staged"`
}

// TabView is one tab of a fence as printed by list and show commands.
type TabView struct {
	Index int    `yaml:"index" json:"index"`
	Name  string `yaml:"name"  json:"name"`
	Items []Item `yaml:"items" json:"items"`
}

// FenceView is the printed form of a fence.
type FenceView struct {
	ID     string    `yaml:"id"               json:"id"`
	Name   string    `yaml:"name"             json:"name"`
	Bounds string    `yaml:"bounds"           json:"bounds"`
	Locked bool      `yaml:"locked,omitempty" json:"locked,omitempty"`
	Tabs   []TabView `yaml:"tabs"             json:"tabs"`
}

// ListResult is the top-level output of the `list` command.
type ListResult struct {
	DataDir string      `yaml:"data_dir" json:"data_dir"`
	TS      int64       `yaml:"ts"       json:"ts"`
	Fences  []FenceView `yaml:"fences"   json:"fences"`
}

// NewFenceView builds the printed form of f. effective maps a tracked path
// to its current location; a nil effective leaves Effective empty.
func NewFenceView(f *model.Fence, effective func(string) string) FenceView {
	v := FenceView{
		ID:     f.ID,
		Name:   f.Name,
		Bounds: f.Bounds().String(),
		Locked: f.Locked,
		Tabs:   make([]TabView, len(f.Tabs)),
	}
	for i, t := range f.Tabs {
		tv := TabView{Index: i, Name: t.Name, Items: make([]Item, 0, len(t.Files))}
		for _, p := range t.Files {
			it := Item{Path: p}
			if effective != nil {
				if e := effective(p); e != p {
					it.Effective = e
					it.Staged = true
				}
			}
			tv.Items = append(tv.Items, it)
		}
		v.Tabs[i] = tv
	}
	return v
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}
