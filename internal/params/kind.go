package params

import "fmt"

// Kind is the value kind of a declared field.
type Kind int

const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
	KindString
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) numeric() bool {
	return k == KindInt || k == KindFloat
}
