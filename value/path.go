package value

import (
	"strconv"
	"strings"
)

// Lookup follows a dotted path from v. Numeric segments index arrays, other
// segments select object keys. An empty path returns v. Lookup never panics.
func (v Value) Lookup(path string) (Value, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch cur.kind {
		case KindObject:
			next, ok := cur.data.(Map)[seg]
			if !ok {
				return Value{}, false
			}
			cur = next
		case KindArray:
			idx, err := strconv.Atoi(seg)
			items := cur.data.([]Value)
			if err != nil || idx < 0 || idx >= len(items) {
				return Value{}, false
			}
			cur = items[idx]
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// WalkFunc is called for every node visited by Walk. The node may be replaced
// through the pointer; Walk then descends into the replacement.
type WalkFunc func(path string, v *Value) error

// SkipChildren can be returned by a WalkFunc to not descend into the node.
var SkipChildren = skipChildren{}

type skipChildren struct{}

func (skipChildren) Error() string { return "value: skip children" }

// Walk visits v and its descendants in pre-order. Arrays are visited in index
// order and objects in key order. The root has the empty path.
func (v *Value) Walk(fn WalkFunc) error {
	return v.walk("", fn)
}

func (v *Value) walk(path string, fn WalkFunc) error {
	if err := fn(path, v); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	switch v.kind {
	case KindArray:
		items := v.data.([]Value)
		for i := range items {
			if err := items[i].walk(join(path, strconv.Itoa(i)), fn); err != nil {
				return err
			}
		}
	case KindObject:
		m := v.data.(Map)
		for _, k := range m.Keys() {
			child := m[k]
			err := child.walk(join(path, k), fn)
			m[k] = child
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Remove deletes the object entry at path and reports whether one was removed.
// Only object entries can be removed; array elements are left in place.
func (v *Value) Remove(path string) bool {
	if path == "" {
		return false
	}
	parentPath, key := "", path
	if i := strings.LastIndex(path, "."); i >= 0 {
		parentPath, key = path[:i], path[i+1:]
	}
	parent, ok := v.Lookup(parentPath)
	if !ok {
		return false
	}
	m, ok := parent.Object()
	if !ok {
		return false
	}
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}
