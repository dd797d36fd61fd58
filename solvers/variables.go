package solvers

import (
	"strings"

	"github.com/goliatone/go-taskconfig/value"
)

type variables struct {
	delimiters *delimiters
}

// NewVariablesSolver resolves references such as ${tasks.0.name}. A string that
// is exactly one reference is replaced by a copy of the referenced node, keeping
// its type. References embedded in longer strings are replaced by the text of
// scalar targets. Unknown references are left untouched.
func NewVariablesSolver(s, e string) Solver {
	return &variables{
		delimiters: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

// Solve rewrites root in place.
func (s variables) Solve(root *value.Value) {
	if root == nil {
		return
	}
	eachString(root, func(path, val string, node *value.Value) {
		if next, ok := s.expand(path, val, *root); ok {
			*node = next
		}
	})
}

func (s variables) expand(self, val string, root value.Value) (value.Value, bool) {
	if ref, ok := s.fullMatch(val); ok {
		if ref == "" || within(self, ref) {
			return value.Value{}, false
		}
		target, ok := root.Lookup(ref)
		if !ok {
			return value.Value{}, false
		}
		return target.Clone(), true
	}

	var (
		b       strings.Builder
		changed bool
		rest    = val
	)
	for {
		start := strings.Index(rest, s.delimiters.Start)
		if start == -1 {
			break
		}
		open := start + len(s.delimiters.Start)
		end := strings.Index(rest[open:], s.delimiters.End)
		if end == -1 {
			break
		}
		ref := rest[open : open+end]
		token := rest[start : open+end+len(s.delimiters.End)]

		b.WriteString(rest[:start])
		if target, ok := root.Lookup(ref); ok && ref != "" && ref != self && isText(target) {
			b.WriteString(ToString(target))
			changed = true
		} else {
			b.WriteString(token)
		}
		rest = rest[start+len(token):]
	}
	if !changed {
		return value.Value{}, false
	}
	b.WriteString(rest)
	return value.String(b.String()), true
}

// within reports whether path is ref or lies below it. Copying such a target
// into path would nest the tree inside itself.
func within(path, ref string) bool {
	return path == ref || strings.HasPrefix(path, ref+".")
}

func (s variables) fullMatch(val string) (string, bool) {
	if !strings.HasPrefix(val, s.delimiters.Start) || !strings.HasSuffix(val, s.delimiters.End) {
		return "", false
	}
	inner := val[len(s.delimiters.Start):]
	if len(inner) < len(s.delimiters.End) {
		return "", false
	}
	inner = inner[:len(inner)-len(s.delimiters.End)]
	if strings.Contains(inner, s.delimiters.End) || strings.Contains(inner, s.delimiters.Start) {
		return "", false
	}
	return inner, true
}

func isText(v value.Value) bool {
	switch v.Kind() {
	case value.KindNull, value.KindBool, value.KindInt, value.KindFloat, value.KindString:
		return true
	default:
		return false
	}
}
