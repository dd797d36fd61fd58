package value

import (
	"reflect"

	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-taskconfig/input"
)

func init() {
	// Value keeps its payload unexported, so copystructure needs help to copy it
	// when a Value sits inside a struct that is cloned.
	copystructure.Copiers[reflect.TypeOf(Value{})] = func(v any) (any, error) {
		return v.(Value).Clone(), nil
	}
	copystructure.Copiers[reflect.TypeOf(&Value{})] = func(v any) (any, error) {
		src, _ := v.(*Value)
		if src == nil {
			return (*Value)(nil), nil
		}
		clone := src.Clone()
		return &clone, nil
	}
}

// Clone returns a deep copy of v. Pending descriptors are copied too.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		items := v.data.([]Value)
		out := make([]Value, len(items))
		for i, item := range items {
			out[i] = item.Clone()
		}
		return Value{kind: KindArray, data: out}
	case KindObject:
		m := v.data.(Map)
		out := make(Map, len(m))
		for k, item := range m {
			out[k] = item.Clone()
		}
		return Value{kind: KindObject, data: out}
	case KindInputBool:
		return Value{kind: v.kind, data: v.data.(*input.BoolInput).Clone()}
	case KindInputInt:
		return Value{kind: v.kind, data: v.data.(input.UserInput[int64]).Clone()}
	case KindInputFloat:
		return Value{kind: v.kind, data: v.data.(input.UserInput[float64]).Clone()}
	case KindInputString:
		return Value{kind: v.kind, data: v.data.(input.UserInput[string]).Clone()}
	default:
		return v
	}
}

// Equal reports whether v and other are structurally equal. Objects compare by
// key set, arrays by position, pending nodes by their descriptor fields.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindArray:
		a, b := v.data.([]Value), other.data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, b := v.data.(Map), other.data.(Map)
		if len(a) != len(b) {
			return false
		}
		for k, item := range a {
			peer, ok := b[k]
			if !ok || !item.Equal(peer) {
				return false
			}
		}
		return true
	case KindInputBool, KindInputInt, KindInputFloat, KindInputString:
		return reflect.DeepEqual(v.data, other.data)
	default:
		return v.data == other.data
	}
}
