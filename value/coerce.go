package value

import (
	"fmt"

	"github.com/goliatone/go-taskconfig/input"
)

// Scalar lists the Go types a Value can be coerced to.
type Scalar interface {
	bool | int64 | float64 | string
}

// As coerces v to T. Literals of the matching kind are returned directly, the
// matching pending form is resolved through a without touching v, and any other
// kind yields a *TypeMismatchError. A nil Asker is non-interactive.
func As[T Scalar](v Value, a input.Asker) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		switch v.kind {
		case KindBool:
			*p = v.data.(bool)
		case KindInputBool:
			return resolved[T, bool](v.data.(*input.BoolInput).Resolve(a))
		default:
			return out, mismatch(KindBool, v.kind)
		}
	case *int64:
		switch v.kind {
		case KindInt:
			*p = v.data.(int64)
		case KindInputInt:
			return resolved[T, int64](v.data.(input.UserInput[int64]).Resolve(a))
		default:
			return out, mismatch(KindInt, v.kind)
		}
	case *float64:
		switch v.kind {
		case KindFloat:
			*p = v.data.(float64)
		case KindInputFloat:
			return resolved[T, float64](v.data.(input.UserInput[float64]).Resolve(a))
		default:
			return out, mismatch(KindFloat, v.kind)
		}
	case *string:
		switch v.kind {
		case KindString:
			*p = v.data.(string)
		case KindInputString:
			return resolved[T, string](v.data.(input.UserInput[string]).Resolve(a))
		default:
			return out, mismatch(KindString, v.kind)
		}
	default:
		panic(fmt.Sprintf("value: unsupported scalar %T", out))
	}
	return out, nil
}

// GetOr looks up key in the object v. A missing key yields def; a present one is
// coerced with As. It panics like Get when v is not an object.
func GetOr[T Scalar](v Value, key string, def T, a input.Asker) (T, error) {
	child, ok := v.Get(key)
	if !ok {
		return def, nil
	}
	return As[T](child, a)
}

// AsBool coerces v to a bool.
func (v Value) AsBool(a input.Asker) (bool, error) { return As[bool](v, a) }

// AsInt coerces v to an int64.
func (v Value) AsInt(a input.Asker) (int64, error) { return As[int64](v, a) }

// AsFloat coerces v to a float64.
func (v Value) AsFloat(a input.Asker) (float64, error) { return As[float64](v, a) }

// AsString coerces v to a string.
func (v Value) AsString(a input.Asker) (string, error) { return As[string](v, a) }

func resolved[T Scalar, S Scalar](s S, err error) (T, error) {
	var out T
	if err != nil {
		return out, &ResolutionError{Kind: kindOf[S]().inputKind(), Err: err}
	}
	out, _ = any(s).(T)
	return out, nil
}

func mismatch(want, got Kind) error {
	return &TypeMismatchError{Want: want, Got: got}
}

func kindOf[S Scalar]() Kind {
	var zero S
	switch any(zero).(type) {
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	default:
		return KindString
	}
}

func (k Kind) inputKind() Kind {
	switch k {
	case KindBool:
		return KindInputBool
	case KindInt:
		return KindInputInt
	case KindFloat:
		return KindInputFloat
	case KindString:
		return KindInputString
	default:
		return k
	}
}
