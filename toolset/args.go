package toolset

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// arguments reads tool arguments as decoded from JSON.
// The first type error sticks in err and later reads return zero values.
type arguments struct {
	m   map[string]any
	err error
}

func args(req mcp.CallToolRequest) *arguments {
	return &arguments{m: req.GetArguments()}
}

func (a *arguments) fail(format string, v ...any) {
	if a.err == nil {
		a.err = fmt.Errorf(format, v...)
	}
}

func (a *arguments) lookup(key string) (any, bool) {
	if a.err != nil {
		return nil, false
	}
	v, ok := a.m[key]
	return v, ok && v != nil
}

// optString returns "" when key is absent.
func (a *arguments) optString(key string) string {
	v, ok := a.lookup(key)
	if !ok {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		a.fail("%s must be a string", key)
	}
	return s
}

func (a *arguments) requireString(key string) string {
	if _, ok := a.lookup(key); !ok {
		a.fail("%s is required", key)
		return ""
	}
	return a.optString(key)
}

func (a *arguments) optFloat(key string) *float64 {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	f, isNumber := v.(float64)
	if !isNumber {
		a.fail("%s must be a number", key)
		return nil
	}
	return &f
}

func (a *arguments) optInt(key string) *int {
	f := a.optFloat(key)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		a.fail("%s must be a whole number", key)
		return nil
	}
	n := int(*f)
	return &n
}

func (a *arguments) optBool(key string) *bool {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	b, isBool := v.(bool)
	if !isBool {
		a.fail("%s must be true or false", key)
		return nil
	}
	return &b
}

func (a *arguments) stringList(key string) []string {
	v, ok := a.lookup(key)
	if !ok {
		a.fail("%s is required", key)
		return nil
	}
	items, isList := v.([]any)
	if !isList {
		a.fail("%s must be an array of strings", key)
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, isString := item.(string)
		if !isString {
			a.fail("%s must be an array of strings", key)
			return nil
		}
		out = append(out, s)
	}
	return out
}
