package ops

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-fences/internal/app"
)

// DoResult is the output of a batch of steps.
type DoResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// Step is one batch entry: an action name and its parameters.
type Step struct {
	Action string
	Params map[string]interface{}
}

// ParseSteps reads a YAML list of single-key maps, e.g.
//
//	- create: { name: Work, bounds: "100,100,300,200" }
//	- add: { fence: 3f2a, path: C:\Users\me\Desktop\notes.txt }
func ParseSteps(data []byte) ([]Step, error) {
	var raw []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("no steps provided, expected a YAML list of actions")
	}
	steps := make([]Step, len(raw))
	for i, m := range raw {
		if len(m) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(m))
		}
		for action, params := range m {
			steps[i] = Step{Action: action, Params: params}
		}
	}
	return steps, nil
}

// StepsFromArgs converts MCP-style step objects ({"action": ..., ...}) into
// steps.
func StepsFromArgs(items []interface{}) ([]Step, error) {
	steps := make([]Step, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("step %d: each step must be an object", i+1)
		}
		action := StringParam(m, "action", "")
		if action == "" {
			return nil, fmt.Errorf("step %d: action is required", i+1)
		}
		params := make(map[string]interface{}, len(m))
		for k, v := range m {
			if k != "action" {
				params[k] = v
			}
		}
		steps = append(steps, Step{Action: action, Params: params})
	}
	return steps, nil
}

// Run executes steps in order. With stopOnError the batch ends at the first
// failing step; otherwise every step runs and failures are reported per step.
func Run(a *app.App, steps []Step, stopOnError bool) DoResult {
	res := DoResult{Action: "do", Steps: len(steps), Results: make([]StepResult, 0, len(steps))}
	failed := false
	for i, step := range steps {
		r, err := Execute(a, step.Action, step.Params)
		r.Step = i + 1
		if err != nil {
			r.Error = err.Error()
			res.Results = append(res.Results, r)
			if !failed {
				res.Error = fmt.Sprintf("step %d: %s", r.Step, r.Error)
			}
			failed = true
			if stopOnError {
				break
			}
			continue
		}
		r.OK = true
		res.Completed++
		res.Results = append(res.Results, r)
	}
	res.OK = !failed
	return res
}
