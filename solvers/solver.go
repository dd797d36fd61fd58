// Package solvers rewrites string leaves of a configuration tree.
//
// Three solvers are provided: variables (${path.to.key}), URIs (@file://...,
// @base64://..., @storage://...) and expressions ({{ expr }}). Each only looks
// at literal string nodes; pending inputs are left for value.Value.Init.
package solvers

import (
	"strconv"

	"github.com/goliatone/go-taskconfig/value"
)

// Solver rewrites a tree in place.
type Solver interface {
	Solve(root *value.Value)
}

// ToString renders a scalar for embedding into a larger string. Null renders as
// the empty string; containers and pending inputs render as JSON.
func ToString(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return ""
	case value.KindString:
		s, _ := v.AsString(nil)
		return s
	case value.KindBool:
		b, _ := v.AsBool(nil)
		return strconv.FormatBool(b)
	case value.KindInt:
		i, _ := v.AsInt(nil)
		return strconv.FormatInt(i, 10)
	case value.KindFloat:
		f, _ := v.AsFloat(nil)
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return v.String()
	}
}

type delimiters struct {
	Start string
	End   string
}

// eachString calls fn for every literal string node under root. When fn returns
// true the node has been replaced through the pointer.
func eachString(root *value.Value, fn func(path, s string, node *value.Value)) {
	_ = root.Walk(func(path string, node *value.Value) error {
		if node.Kind() != value.KindString {
			return nil
		}
		s, _ := node.AsString(nil)
		fn(path, s, node)
		return nil
	})
}
