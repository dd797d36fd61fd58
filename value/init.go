package value

import (
	"strconv"

	"github.com/goliatone/go-taskconfig/input"
)

// Init replaces every pending-input node under v with the literal the Asker
// produces. Arrays are visited in index order and objects in key order. The
// first failure stops the walk and is returned as a *ResolutionError; nodes
// resolved before it keep their new values.
func (v *Value) Init(a input.Asker) error {
	return v.init(a, "")
}

func (v *Value) init(a input.Asker, path string) error {
	switch v.kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return nil
	case KindInputBool:
		b, err := v.data.(*input.BoolInput).Resolve(a)
		if err != nil {
			return &ResolutionError{Path: path, Kind: v.kind, Err: err}
		}
		*v = Bool(b)
	case KindInputInt:
		i, err := v.data.(input.UserInput[int64]).Resolve(a)
		if err != nil {
			return &ResolutionError{Path: path, Kind: v.kind, Err: err}
		}
		*v = Int(i)
	case KindInputFloat:
		f, err := v.data.(input.UserInput[float64]).Resolve(a)
		if err != nil {
			return &ResolutionError{Path: path, Kind: v.kind, Err: err}
		}
		*v = Float(f)
	case KindInputString:
		s, err := v.data.(input.UserInput[string]).Resolve(a)
		if err != nil {
			return &ResolutionError{Path: path, Kind: v.kind, Err: err}
		}
		*v = String(s)
	case KindArray:
		items := v.data.([]Value)
		for i := range items {
			if err := items[i].init(a, join(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case KindObject:
		m := v.data.(Map)
		for _, k := range m.Keys() {
			child := m[k]
			err := child.init(a, join(path, k))
			m[k] = child
			if err != nil {
				return err
			}
		}
	default:
		panic("value: unknown kind " + v.kind.String())
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
