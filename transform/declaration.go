package transform

import (
	"fmt"
	"go/token"
	"strings"
)

// Shape classifies the body of a type declaration.
type Shape int

const (
	// ShapeUnit is a declaration without fields, e.g. struct{}.
	ShapeUnit Shape = iota
	// ShapeRecord is a struct with named (or embedded) fields.
	ShapeRecord
	// ShapeTuple is a defined type over a non-struct type, e.g. type UserID string.
	// It has exactly one positional field.
	ShapeTuple
	// ShapeSum is a sealed interface whose variants are the package types
	// implementing all of its unexported methods.
	ShapeSum
	// ShapeUnion is a constraint interface with type terms. It is rejected.
	ShapeUnion
	// ShapeAlias is a type alias. It is rejected because aliases cannot declare methods.
	ShapeAlias
	// ShapePointer is a defined pointer type. It is rejected because pointer types cannot declare methods.
	ShapePointer
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapeRecord:
		return "record"
	case ShapeTuple:
		return "tuple"
	case ShapeSum:
		return "sum"
	case ShapeUnion:
		return "union"
	case ShapeAlias:
		return "alias"
	case ShapePointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so shapes render by name in json and yaml.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	for shape := ShapeUnit; shape <= ShapePointer; shape++ {
		if shape.String() == string(text) {
			*s = shape
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", text)
}

// TypeParams is the type parameter list of a declaration, carried through unchanged.
type TypeParams struct {
	// List is the verbatim parameter list without brackets, e.g. "K comparable, V any".
	List string
	// Names are the parameter names in declaration order.
	Names []string
}

// IsEmpty reports whether the declaration is not generic.
func (p TypeParams) IsEmpty() bool {
	return len(p.Names) == 0
}

// Declare renders the parameter list for a declaration header, e.g. "[K comparable, V any]".
func (p TypeParams) Declare() string {
	if p.IsEmpty() {
		return ""
	}
	return "[" + p.List + "]"
}

// Instantiate renders the parameter names for a receiver or instantiation, e.g. "[K, V]".
func (p TypeParams) Instantiate() string {
	if p.IsEmpty() {
		return ""
	}
	return "[" + strings.Join(p.Names, ", ") + "]"
}

// Field is a single named or positional field.
type Field struct {
	// Name is empty for positional fields.
	Name string
	// Index is the position of the field within its declaration or variant.
	Index int
	// Type is the declared field type as source text.
	Type string
}

// Variant is one alternative of a sum declaration.
type Variant struct {
	Name       string
	TypeParams TypeParams
	Shape      Shape
	Fields     []Field
}

// Import is an import visible to the declaration.
type Import struct {
	// Name is the qualifier used in source, either the explicit alias or the package name.
	Name string
	Path string
}

// Declaration is a parsed type declaration.
// It is treated as immutable input by Transform.
type Declaration struct {
	Name string
	// Pos is the position of the name token and anchors diagnostics.
	Pos        token.Position
	TypeParams TypeParams
	Shape      Shape
	// Fields are set for record and tuple shapes.
	Fields []Field
	// Variants are set for the sum shape.
	Variants []Variant
	// Source is the original declaration, verbatim.
	Source string
	// Imports are the imports of the file the declaration lives in.
	Imports []Import
}
