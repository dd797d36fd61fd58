package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when a document is not well formed JSON.
var ErrInvalidJSON = errors.New("value: invalid json")

// ParseJSON decodes a JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data))
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	out, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromResult(r gjson.Result) (Value, error) {
	switch r.Type {
	case gjson.Null:
		return Null(), nil
	case gjson.True:
		return Bool(true), nil
	case gjson.False:
		return Bool(false), nil
	case gjson.String:
		return String(r.Str), nil
	case gjson.Number:
		return fromNumber(r.Raw)
	}

	var err error
	switch {
	case r.IsArray():
		items := []Value{}
		r.ForEach(func(_, item gjson.Result) bool {
			var conv Value
			conv, err = fromResult(item)
			items = append(items, conv)
			return err == nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindArray, data: items}, nil
	case r.IsObject():
		m := Map{}
		r.ForEach(func(key, item gjson.Result) bool {
			var conv Value
			conv, err = fromResult(item)
			m[key.String()] = conv
			return err == nil
		})
		if err != nil {
			return Value{}, err
		}
		return fromMapping(m), nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected token %q", ErrInvalidJSON, r.Raw)
	}
}

// fromNumber keeps integer literals as Int. Literals with a fraction or an
// exponent, and integers too large for int64, become Float.
func fromNumber(raw string) (Value, error) {
	if !isFloatLiteral(raw) {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidNumber, raw)
	}
	return Float(f), nil
}

// MarshalJSON implements json.Marshaler. Object keys are written in order and
// floats always carry a fraction or exponent so they decode as floats again.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.data.(bool)))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.data.(int64), 10))
	case KindFloat:
		text, err := formatFloat(v.data.(float64))
		if err != nil {
			return err
		}
		buf.WriteString(text)
	case KindString:
		writeString(buf, v.data.(string))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.data.([]Value) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return writeObject(buf, v.data.(Map))
	case KindInputBool, KindInputInt, KindInputFloat, KindInputString:
		return writeObject(buf, record(v))
	default:
		return fmt.Errorf("%w: kind %s", ErrUnsupported, v.kind)
	}
	return nil
}

func writeObject(buf *bytes.Buffer, m Map) error {
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		if err := writeJSON(buf, m[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshalling a string cannot fail.
	quoted, _ := json.Marshal(s)
	buf.Write(quoted)
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidNumber, f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	text := strconv.FormatFloat(f, format, -1, 64)
	if !isFloatLiteral(text) {
		text += ".0"
	}
	return text, nil
}
