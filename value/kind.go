package value

import "fmt"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindInputBool
	KindInputInt
	KindInputFloat
	KindInputString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:        "null",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindInputBool:   "input bool",
	KindInputInt:    "input int",
	KindInputFloat:  "input float",
	KindInputString: "input string",
	KindArray:       "array",
	KindObject:      "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsInput reports whether k is a pending-input kind.
func (k Kind) IsInput() bool {
	switch k {
	case KindInputBool, KindInputInt, KindInputFloat, KindInputString:
		return true
	default:
		return false
	}
}

// Literal returns the kind a pending-input kind resolves to. Other kinds are
// returned unchanged.
func (k Kind) Literal() Kind {
	switch k {
	case KindInputBool:
		return KindBool
	case KindInputInt:
		return KindInt
	case KindInputFloat:
		return KindFloat
	case KindInputString:
		return KindString
	default:
		return k
	}
}
