package value

import (
	"reflect"
	"sort"

	"github.com/goliatone/go-taskconfig/input"
)

// Map is the payload of an Object.
type Map map[string]Value

// Keys returns the keys of m in lexicographic order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value is a node of a configuration tree. The zero Value is Null.
type Value struct {
	kind Kind
	data any
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, data: b} }

// Int wraps i.
func Int(i int64) Value { return Value{kind: KindInt, data: i} }

// Float wraps f.
func Float(f float64) Value { return Value{kind: KindFloat, data: f} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, data: s} }

// Array wraps items. The slice is copied.
func Array(items ...Value) Value {
	return Value{kind: KindArray, data: append([]Value{}, items...)}
}

// Object wraps m. A nil map becomes an empty object.
func Object(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindObject, data: m}
}

// New returns an empty object, the root of a fresh configuration.
func New() Value { return Object(nil) }

// isNilInput reports whether in is nil or a nil pointer stored in an interface.
func isNilInput(in any) bool {
	if in == nil {
		return true
	}
	rv := reflect.ValueOf(in)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// InputBool wraps a pending yes/no question. Nil descriptors, typed or not,
// become an empty one.
func InputBool(in *input.BoolInput) Value {
	if isNilInput(in) {
		in = &input.BoolInput{}
	}
	return Value{kind: KindInputBool, data: in}
}

// InputInt wraps a pending integer.
func InputInt(in input.UserInput[int64]) Value {
	if isNilInput(in) {
		in = &input.Input[int64]{}
	}
	return Value{kind: KindInputInt, data: in}
}

// InputFloat wraps a pending float.
func InputFloat(in input.UserInput[float64]) Value {
	if isNilInput(in) {
		in = &input.Input[float64]{}
	}
	return Value{kind: KindInputFloat, data: in}
}

// InputString wraps a pending string.
func InputString(in input.UserInput[string]) Value {
	if isNilInput(in) {
		in = &input.Input[string]{}
	}
	return Value{kind: KindInputString, data: in}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsBool() bool { return v.kind == KindBool || v.kind == KindInputBool }

func (v Value) IsInt() bool { return v.kind == KindInt || v.kind == KindInputInt }

func (v Value) IsFloat() bool { return v.kind == KindFloat || v.kind == KindInputFloat }

func (v Value) IsString() bool { return v.kind == KindString || v.kind == KindInputString }

func (v Value) IsArray() bool { return v.kind == KindArray }

func (v Value) IsObject() bool { return v.kind == KindObject }

// IsInput reports whether v itself is a pending-input node.
func (v Value) IsInput() bool { return v.kind.IsInput() }

// IsConcrete reports whether no pending-input node exists anywhere under v.
func (v Value) IsConcrete() bool {
	switch v.kind {
	case KindArray:
		for _, item := range v.data.([]Value) {
			if !item.IsConcrete() {
				return false
			}
		}
		return true
	case KindObject:
		for _, item := range v.data.(Map) {
			if !item.IsConcrete() {
				return false
			}
		}
		return true
	default:
		return !v.kind.IsInput()
	}
}

// Get returns the child stored under key. It panics with *ContractError when v
// is not an object.
func (v Value) Get(key string) (Value, bool) {
	m := v.mustObject("Get")
	child, ok := m[key]
	return child, ok
}

// Insert stores child under key, replacing any previous entry. It panics with
// *ContractError when v is not an object.
func (v *Value) Insert(key string, child Value) {
	m := v.mustObject("Insert")
	m[key] = child
}

func (v Value) mustObject(op string) Map {
	if v.kind != KindObject {
		panic(&ContractError{Op: op, Kind: v.kind})
	}
	m, _ := v.data.(Map)
	if m == nil {
		panic(&ContractError{Op: op, Kind: v.kind})
	}
	return m
}

// Array returns the items of an array. The slice is shared with v.
func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.data.([]Value), true
}

// Object returns the entries of an object. The map is shared with v.
func (v Value) Object() (Map, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.data.(Map), true
}

// Len returns the number of items of an array or entries of an object, and 0
// for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.data.([]Value))
	case KindObject:
		return len(v.data.(Map))
	default:
		return 0
	}
}

// String renders v as compact JSON. Values that cannot be encoded render as
// their kind name.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}
