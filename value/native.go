package value

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/goliatone/go-taskconfig/input"
)

// From converts a Go value into a Value. It accepts everything FromNative does.
func From(v any) (Value, error) {
	return FromNative(v)
}

// MustFrom is From that panics on error. It is meant for literals in code.
func MustFrom(v any) Value {
	out, err := FromNative(v)
	if err != nil {
		panic(err)
	}
	return out
}

// ObjectOf builds an object from alternating keys and values, converting each
// value with MustFrom. It panics on an odd argument count or a non-string key.
func ObjectOf(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic("value: ObjectOf needs key/value pairs")
	}
	m := make(Map, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("value: ObjectOf key %d is %T, want string", i/2, pairs[i]))
		}
		m[key] = MustFrom(pairs[i+1])
	}
	return Object(m)
}

// FromNative converts the generic data produced by decoders and parsers
// (map[string]any, []any, numbers, strings, bools, nil) into a Value. Mappings
// are checked against the input record shapes, so a map carrying only a
// default and description becomes a pending input. Values and input
// descriptors are accepted as is, text marshalers and stringers become
// strings. Structs become objects keyed by their StructTag names.
func FromNative(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t.Clone(), nil
	case *Value:
		if t == nil {
			return Null(), nil
		}
		return t.Clone(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		return fromUint(uint64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		return fromNumber(string(t))
	case *input.BoolInput:
		return InputBool(t.Clone()), nil
	case input.UserInput[int64]:
		return InputInt(t.Clone()), nil
	case input.UserInput[float64]:
		return InputFloat(t.Clone()), nil
	case input.UserInput[string]:
		return InputString(t.Clone()), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			conv, err := FromNative(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = conv
		}
		return Value{kind: KindArray, data: items}, nil
	case []Value:
		return Array(t...).Clone(), nil
	case map[string]any:
		m := make(Map, len(t))
		for k, item := range t {
			conv, err := FromNative(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = conv
		}
		return fromMapping(m), nil
	case Map:
		return fromMapping(Object(t).Clone().data.(Map)), nil
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return Value{}, err
		}
		return String(string(text)), nil
	case fmt.Stringer:
		return String(t.String()), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			conv, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = conv
		}
		return Value{kind: KindArray, data: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key type %s", ErrUnsupported, rv.Type().Key())
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			conv, err := FromNative(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			m[key] = conv
		}
		return fromMapping(m), nil
	case reflect.Struct:
		m := Map{}
		if err := structFields(rv, m); err != nil {
			return Value{}, err
		}
		return fromMapping(m), nil
	case reflect.Invalid:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupported, rv.Type())
	}
}

// StructTag names the struct tag read when converting structs. It matches the
// tag the config decoders use, so a struct converts to the keys it decodes from.
const StructTag = "koanf"

// structFields adds the exported fields of rv to m. Untagged embedded structs
// are flattened and fields tagged "-" are skipped.
func structFields(rv reflect.Value, m Map) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get(StructTag), ",")
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if field.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			if err := structFields(fv, m); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = field.Name
		}
		conv, err := FromNative(fv.Interface())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		m[name] = conv
	}
	return nil
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrInvalidNumber, u)
	}
	return Int(int64(u)), nil
}

// ToNative converts v into map[string]any, []any and plain scalars. Pending
// nodes become the mapping they are encoded as.
func (v Value) ToNative() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool, KindInt, KindFloat, KindString:
		return v.data
	case KindArray:
		items := v.data.([]Value)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item.ToNative()
		}
		return out
	case KindObject:
		return mapToNative(v.data.(Map))
	case KindInputBool, KindInputInt, KindInputFloat, KindInputString:
		return mapToNative(record(v))
	default:
		panic("value: unknown kind " + v.kind.String())
	}
}

func mapToNative(m Map) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = item.ToNative()
	}
	return out
}

func isFloatLiteral(raw string) bool {
	return strings.ContainsAny(raw, ".eE")
}
