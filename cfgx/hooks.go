package cfgx

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-taskconfig/value"
)

var valueType = reflect.TypeOf(value.Value{})

// DefaultDecodeHooks returns the standard hook set (value tree, duration, text unmarshaler).
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		ValueHook(),
		DurationHook(),
		TextUnmarshalerHook(),
	}
}

// ValueHook lets struct fields of type value.Value receive any subtree as is.
// Maps shaped like input records become pending inputs again, so a field can
// hold parameters that are resolved later.
func ValueHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != valueType {
			return data, nil
		}
		if from == valueType {
			return data, nil
		}
		converted, err := value.FromNative(data)
		if err != nil {
			return nil, fmt.Errorf("cfgx: value field: %w", err)
		}
		return converted, nil
	}
}

// DurationHook converts strings (e.g., "5s") into time.Duration.
func DurationHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToTimeDurationHookFunc()
}

// TextUnmarshalerHook mirrors koanf's helper allowing encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}

		dataVal := reflect.ValueOf(data)
		text := []byte(dataVal.String())
		if from.Kind() == to.Kind() {
			ptrVal := reflect.New(dataVal.Type())
			if ptrVal.Elem().CanSet() {
				ptrVal.Elem().Set(dataVal)
			}
			for _, candidate := range []reflect.Value{dataVal, ptrVal} {
				if marshaller, ok := candidate.Interface().(encoding.TextMarshaler); ok {
					marshaled, err := marshaller.MarshalText()
					if err != nil {
						return nil, err
					}
					text = marshaled
					break
				}
			}
		}

		if err := unmarshaller.UnmarshalText(text); err != nil {
			return nil, err
		}
		return result, nil
	}
}
