package ops

import (
	"testing"

	"github.com/mj1618/desktop-fences/internal/model"
)

func mustRect(t *testing.T, s string) model.Rect {
	t.Helper()
	r, err := model.ParseRect(s)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps([]byte(`
- create: { name: Work }
- reconcile: {}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[0].Action != "create" || steps[1].Action != "reconcile" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
	if steps[0].Params["name"] != "Work" {
		t.Errorf("expected name Work, got %v", steps[0].Params["name"])
	}
}

func TestParseSteps_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":    ``,
		"two keys": "- { create: {}, list: {} }",
		"not list": "create: {}",
	} {
		if _, err := ParseSteps([]byte(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestStepsFromArgs(t *testing.T) {
	steps, err := StepsFromArgs([]interface{}{
		map[string]interface{}{"action": "create", "name": "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if steps[0].Action != "create" || steps[0].Params["name"] != "A" {
		t.Errorf("unexpected step: %+v", steps[0])
	}
	if _, ok := steps[0].Params["action"]; ok {
		t.Error("action key should not be passed as a parameter")
	}
	if _, err := StepsFromArgs([]interface{}{"create"}); err == nil {
		t.Error("expected error for non-object step")
	}
}

func TestRun_StopOnError(t *testing.T) {
	a, _ := newTestApp(t)
	steps := []Step{
		{Action: "create", Params: map[string]interface{}{"name": "A"}},
		{Action: "explode"},
		{Action: "create", Params: map[string]interface{}{"name": "B"}},
	}

	res := Run(a, steps, true)
	if res.OK {
		t.Error("expected ok=false when a step fails")
	}
	if res.Completed != 1 || len(res.Results) != 2 {
		t.Errorf("expected 1 completed of 2 results, got %d of %d", res.Completed, len(res.Results))
	}
	if res.Error == "" {
		t.Error("expected batch error")
	}
	if len(a.Fences()) != 1 {
		t.Errorf("expected 1 fence, got %d", len(a.Fences()))
	}
}

func TestRun_ContinueOnError(t *testing.T) {
	a, _ := newTestApp(t)
	steps := []Step{
		{Action: "create", Params: map[string]interface{}{"name": "A"}},
		{Action: "explode"},
		{Action: "create", Params: map[string]interface{}{"name": "B"}},
	}

	res := Run(a, steps, false)
	if res.OK {
		t.Error("expected ok=false when a step fails")
	}
	if res.Completed != 2 || len(res.Results) != 3 {
		t.Errorf("expected 2 completed of 3 results, got %d of %d", res.Completed, len(res.Results))
	}
	if res.Results[1].OK || res.Results[1].Step != 2 {
		t.Errorf("expected step 2 to fail, got %+v", res.Results[1])
	}
}

func TestRun_AllSuccess(t *testing.T) {
	a, _ := newTestApp(t)
	res := Run(a, []Step{{Action: "list"}, {Action: "reconcile"}}, true)
	if !res.OK || res.Completed != 2 {
		t.Errorf("expected all steps to succeed, got %+v", res)
	}
}
