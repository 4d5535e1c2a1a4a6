package cppast

import "strings"

// Type is a resolved C++ type.
type Type interface {
	isType()
}

// NamedType is a type referred to by name. Symbol is set when the name
// resolved to a class.
type NamedType struct {
	Name   string
	Symbol *Symbol
}

// PointerType is `Elem *`.
type PointerType struct {
	Elem Type
}

// FunctionType is the signature of a function symbol.
type FunctionType struct {
	Result Type
	Params []Type
}

func (*NamedType) isType()    {}
func (*PointerType) isType()  {}
func (*FunctionType) isType() {}

// PrettyType renders t. Named types that resolved to a class print the
// class's fully qualified name.
func PrettyType(t Type) string {
	switch t := t.(type) {
	case *NamedType:
		if t.Symbol != nil {
			return FullyQualifiedName(t.Symbol)
		}
		return t.Name
	case *PointerType:
		return PrettyType(t.Elem) + " *"
	case *FunctionType:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = PrettyType(p)
		}
		return PrettyType(t.Result) + " (" + strings.Join(params, ", ") + ")"
	}
	return ""
}
