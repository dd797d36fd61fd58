package value

import (
	"github.com/goliatone/go-taskconfig/input"
)

const (
	fieldDefault      = "default"
	fieldDescription  = "description"
	fieldAlternatives = "alternatives"
	fieldDefaultIndex = "default_index"
)

// fromMapping turns a decoded mapping into either a pending-input node or a
// plain object. Every decoder goes through here, so the wire rules live in one
// place: input records are tried first, an object is the fallback.
func fromMapping(m Map) Value {
	if len(m) == 0 {
		return Object(m)
	}
	if _, ok := m[fieldAlternatives]; ok {
		if v, ok := selectRecord(m); ok {
			return v
		}
		return Object(m)
	}
	if v, ok := inputRecord(m); ok {
		return v
	}
	return Object(m)
}

func inputRecord(m Map) (Value, bool) {
	for k := range m {
		if k != fieldDefault && k != fieldDescription {
			return Value{}, false
		}
	}
	desc, ok := description(m)
	if !ok {
		return Value{}, false
	}

	def := m[fieldDefault]
	switch def.kind {
	case KindNull:
		return InputString(&input.Input[string]{Description: desc}), true
	case KindString:
		s := def.data.(string)
		return InputString(&input.Input[string]{Default: &s, Description: desc}), true
	case KindBool:
		b := def.data.(bool)
		return InputBool(&input.BoolInput{Default: &b, Description: desc}), true
	case KindInt:
		i := def.data.(int64)
		return InputInt(&input.Input[int64]{Default: &i, Description: desc}), true
	case KindFloat:
		f := def.data.(float64)
		return InputFloat(&input.Input[float64]{Default: &f, Description: desc}), true
	default:
		return Value{}, false
	}
}

func selectRecord(m Map) (Value, bool) {
	for k := range m {
		if k != fieldAlternatives && k != fieldDescription && k != fieldDefaultIndex {
			return Value{}, false
		}
	}
	desc, ok := description(m)
	if !ok {
		return Value{}, false
	}

	var defaultIndex *int
	if raw, ok := m[fieldDefaultIndex]; ok && !raw.IsNull() {
		if raw.kind != KindInt {
			return Value{}, false
		}
		idx := int(raw.data.(int64))
		defaultIndex = &idx
	}

	alts, ok := m[fieldAlternatives].Array()
	if !ok || len(alts) == 0 {
		return Value{}, false
	}

	var strs, ints, floats int
	for _, alt := range alts {
		switch alt.kind {
		case KindString:
			strs++
		case KindInt:
			ints++
		case KindFloat:
			floats++
		default:
			return Value{}, false
		}
	}

	switch {
	case strs == len(alts):
		out := make([]string, len(alts))
		for i, alt := range alts {
			out[i] = alt.data.(string)
		}
		return InputString(&input.Select[string]{Alternatives: out, DefaultIndex: defaultIndex, Description: desc}), true
	case ints == len(alts):
		out := make([]int64, len(alts))
		for i, alt := range alts {
			out[i] = alt.data.(int64)
		}
		return InputInt(&input.Select[int64]{Alternatives: out, DefaultIndex: defaultIndex, Description: desc}), true
	case strs == 0 && floats > 0:
		out := make([]float64, len(alts))
		for i, alt := range alts {
			if alt.kind == KindInt {
				out[i] = float64(alt.data.(int64))
			} else {
				out[i] = alt.data.(float64)
			}
		}
		return InputFloat(&input.Select[float64]{Alternatives: out, DefaultIndex: defaultIndex, Description: desc}), true
	default:
		return Value{}, false
	}
}

func description(m Map) (*string, bool) {
	raw, ok := m[fieldDescription]
	if !ok || raw.IsNull() {
		return nil, true
	}
	if raw.kind != KindString {
		return nil, false
	}
	s := raw.data.(string)
	return &s, true
}

// record renders a pending node as the mapping it is encoded as. A descriptor
// without any field still needs one key to be read back as pending.
func record(v Value) Map {
	m := Map{}
	switch d := v.data.(type) {
	case *input.BoolInput:
		if d.Default != nil {
			m[fieldDefault] = Bool(*d.Default)
		}
		putDescription(m, d.Description)
	case *input.Input[int64]:
		if d.Default != nil {
			m[fieldDefault] = Int(*d.Default)
		}
		putDescription(m, d.Description)
	case *input.Input[float64]:
		if d.Default != nil {
			m[fieldDefault] = Float(*d.Default)
		}
		putDescription(m, d.Description)
	case *input.Input[string]:
		if d.Default != nil {
			m[fieldDefault] = String(*d.Default)
		}
		putDescription(m, d.Description)
	case *input.Select[int64]:
		putSelect(m, d.Alternatives, Int, d.DefaultIndex, d.Description)
	case *input.Select[float64]:
		putSelect(m, d.Alternatives, Float, d.DefaultIndex, d.Description)
	case *input.Select[string]:
		putSelect(m, d.Alternatives, String, d.DefaultIndex, d.Description)
	}
	if len(m) == 0 {
		m[fieldDefault] = Null()
	}
	return m
}

func putDescription(m Map, desc *string) {
	if desc != nil {
		m[fieldDescription] = String(*desc)
	}
}

func putSelect[T input.Scalar](m Map, alts []T, wrap func(T) Value, idx *int, desc *string) {
	items := make([]Value, len(alts))
	for i, alt := range alts {
		items[i] = wrap(alt)
	}
	m[fieldAlternatives] = Value{kind: KindArray, data: items}
	if idx != nil {
		m[fieldDefaultIndex] = Int(int64(*idx))
	}
	putDescription(m, desc)
}
