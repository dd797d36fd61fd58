package value

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts an evaluated HCL value. Numbers that are whole and fit in
// int64 become Int, every other number Float. Objects and maps go through the
// same record detection as the other decoders.
func FromCty(v cty.Value) (Value, error) {
	if v.IsMarked() {
		v, _ = v.Unmark()
	}
	if v.IsNull() {
		return Null(), nil
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("%w: unknown %s value", ErrUnsupported, v.Type().FriendlyName())
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty == cty.String:
		return String(v.AsString()), nil
	case ty == cty.Number:
		return fromBigFloat(v.AsBigFloat())
	case ty.IsListType(), ty.IsSetType(), ty.IsTupleType():
		items := make([]Value, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			conv, err := FromCty(elem)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", len(items), err)
			}
			items = append(items, conv)
		}
		return Value{kind: KindArray, data: items}, nil
	case ty.IsObjectType(), ty.IsMapType():
		m := Map{}
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			conv, err := FromCty(elem)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key.AsString(), err)
			}
			m[key.AsString()] = conv
		}
		return fromMapping(m), nil
	default:
		return Value{}, fmt.Errorf("%w: cty type %s", ErrUnsupported, ty.FriendlyName())
	}
}

func fromBigFloat(bf *big.Float) (Value, error) {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return Int(i), nil
		}
	}
	if bf.IsInf() {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidNumber, bf.String())
	}
	f, _ := bf.Float64()
	return Float(f), nil
}
