package ops

import (
	"fmt"

	"github.com/mj1618/desktop-fences/internal/model"
)

// StringParam reads a string parameter. Numbers are formatted, since YAML
// steps and MCP arguments may carry an id or name as a number.
func StringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

// IntParam reads an integer parameter.
func IntParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

// BoolParam reads a boolean parameter.
func BoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// RectParam reads an "x,y,w,h" parameter. ok is false when absent.
func RectParam(params map[string]interface{}, key string) (r model.Rect, ok bool, err error) {
	s := StringParam(params, key, "")
	if s == "" {
		return model.Rect{}, false, nil
	}
	r, err = model.ParseRect(s)
	return r, err == nil, err
}

func requireString(params map[string]interface{}, key string) (string, error) {
	s := StringParam(params, key, "")
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}
