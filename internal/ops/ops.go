// Package ops executes named fence operations from loosely typed
// parameters. The do command and the MCP server share it.
package ops

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/output"
)

// StepResult is the output for a single operation.
type StepResult struct {
	Step     int                `yaml:"step,omitempty"     json:"step,omitempty"`
	OK       bool               `yaml:"ok"                 json:"ok"`
	Action   string             `yaml:"action"             json:"action"`
	Error    string             `yaml:"error,omitempty"    json:"error,omitempty"`
	Fence    *output.FenceView  `yaml:"fence,omitempty"    json:"fence,omitempty"`
	Fences   []output.FenceView `yaml:"fences,omitempty"   json:"fences,omitempty"`
	Tab      *int               `yaml:"tab,omitempty"      json:"tab,omitempty"`
	Path     string             `yaml:"path,omitempty"     json:"path,omitempty"`
	Icon     *app.Icon          `yaml:"icon,omitempty"     json:"icon,omitempty"`
	Class    string             `yaml:"class,omitempty"    json:"class,omitempty"`
	Renames  int                `yaml:"renames,omitempty"  json:"renames,omitempty"`
	Removals int                `yaml:"removals,omitempty" json:"removals,omitempty"`
	Restaged int                `yaml:"restaged,omitempty" json:"restaged,omitempty"`
}

type executor func(a *app.App, params map[string]interface{}) (StepResult, error)

var executors = map[string]executor{
	"list":       executeList,
	"show-fence": executeShowFence,
	"create":     executeCreate,
	"remove":     executeRemove,
	"rename":     executeRename,
	"move":       executeMove,
	"lock":       executeLock,
	"add":        executeAdd,
	"drop":       executeDrop,
	"move-item":  executeMoveItem,
	"tab-add":    executeTabAdd,
	"tab-rename": executeTabRename,
	"tab-delete": executeTabDelete,
	"tab-move":   executeTabMove,
	"hide":       executeHide,
	"show":       executeShow,
	"reconcile":  executeReconcile,
	"resolve":    executeResolve,
	"hittest":    executeHitTest,
}

// Actions lists the supported operation names.
func Actions() []string {
	names := make([]string, 0, len(executors))
	for name := range executors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute runs one named operation against a.
func Execute(a *app.App, action string, params map[string]interface{}) (StepResult, error) {
	fn, ok := executors[action]
	if !ok {
		return StepResult{Action: action}, fmt.Errorf("unknown step type %q (supported: %s)", action, strings.Join(Actions(), ", "))
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	res, err := fn(a, params)
	res.Action = action
	return res, err
}

func view(a *app.App, f *model.Fence) *output.FenceView {
	v := output.NewFenceView(f, a.EffectivePath)
	return &v
}

func executeList(a *app.App, _ map[string]interface{}) (StepResult, error) {
	fences := a.Fences()
	views := make([]output.FenceView, len(fences))
	for i, f := range fences {
		views[i] = *view(a, f)
	}
	return StepResult{Fences: views}, nil
}

func executeShowFence(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	f, err := a.Fence(id)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeCreate(a *app.App, params map[string]interface{}) (StepResult, error) {
	name := StringParam(params, "name", a.Config().Gesture.NewFenceName)
	r, ok, err := RectParam(params, "bounds")
	if err != nil {
		return StepResult{}, err
	}
	var bounds *model.Rect
	if ok {
		bounds = &r
	}
	f, err := a.CreateFence(name, bounds)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeRemove(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{}, a.RemoveFence(id)
}

func executeRename(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	name, err := requireString(params, "name")
	if err != nil {
		return StepResult{}, err
	}
	f, err := a.RenameFence(id, name)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeMove(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	r, ok, err := RectParam(params, "bounds")
	if err != nil {
		return StepResult{}, err
	}
	if !ok {
		return StepResult{}, fmt.Errorf("bounds is required")
	}
	f, err := a.MoveFence(id, r)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeLock(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	f, err := a.SetLocked(id, BoolParam(params, "locked", true))
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeAdd(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	path, err := requireString(params, "path")
	if err != nil {
		return StepResult{}, err
	}
	f, err := a.AddItem(id, IntParam(params, "tab", 0), path)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Path: path}, nil
}

func executeDrop(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	path, err := requireString(params, "path")
	if err != nil {
		return StepResult{}, err
	}
	f, err := a.RemoveItem(id, path)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Path: path}, nil
}

func executeMoveItem(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	path, err := requireString(params, "path")
	if err != nil {
		return StepResult{}, err
	}
	to := IntParam(params, "to", -1)
	f, err := a.MoveItem(id, path, to)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Path: path, Tab: &to}, nil
}

func executeTabAdd(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	f, index, err := a.AddTab(id, StringParam(params, "name", "New tab"))
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Tab: &index}, nil
}

func executeTabRename(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	name, err := requireString(params, "name")
	if err != nil {
		return StepResult{}, err
	}
	tab := IntParam(params, "tab", 0)
	f, err := a.RenameTab(id, tab, name)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Tab: &tab}, nil
}

func executeTabDelete(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	tab := IntParam(params, "tab", -1)
	f, err := a.DeleteTab(id, tab)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f)}, nil
}

func executeTabMove(a *app.App, params map[string]interface{}) (StepResult, error) {
	id, err := requireString(params, "fence")
	if err != nil {
		return StepResult{}, err
	}
	to := IntParam(params, "to", -1)
	f, err := a.MoveTab(id, IntParam(params, "from", -1), to)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Fence: view(a, f), Tab: &to}, nil
}

func executeHide(a *app.App, _ map[string]interface{}) (StepResult, error) {
	a.HideAll()
	return StepResult{}, nil
}

func executeShow(a *app.App, _ map[string]interface{}) (StepResult, error) {
	a.ShowAll()
	return StepResult{}, nil
}

func executeReconcile(a *app.App, _ map[string]interface{}) (StepResult, error) {
	res, err := a.Reconcile()
	return StepResult{Renames: len(res.Renames), Removals: len(res.Removals), Restaged: len(res.Duplicates)}, err
}

func executeResolve(a *app.App, params map[string]interface{}) (StepResult, error) {
	path, err := requireString(params, "path")
	if err != nil {
		return StepResult{}, err
	}
	res := StepResult{Path: a.EffectivePath(path)}
	if BoolParam(params, "icon", false) {
		icon, err := a.ResolveDisplayIcon(path)
		if err != nil {
			return res, err
		}
		res.Icon = &icon
	}
	return res, nil
}

func executeHitTest(a *app.App, params map[string]interface{}) (StepResult, error) {
	if _, ok := params["x"]; !ok {
		return StepResult{}, fmt.Errorf("x and y are required")
	}
	if _, ok := params["y"]; !ok {
		return StepResult{}, fmt.Errorf("x and y are required")
	}
	p := model.Point{X: IntParam(params, "x", 0), Y: IntParam(params, "y", 0)}
	return StepResult{Class: a.ClassifyPoint(p).String()}, nil
}
