// Package qmlast defines a closed QML syntax tree: the declarative object
// tree plus the small part of the embedded script grammar that test
// discovery needs to walk.
package qmlast

import "fmt"

// SourceLocation is the start of a node's first token. Both fields are 1-based.
type SourceLocation struct {
	StartLine   int
	StartColumn int
}

// Node is implemented by every QML node.
type Node interface {
	FirstSourceLocation() SourceLocation
	qmlNode()
}

// Document is one parsed .qml file.
type Document struct {
	FileName string
	Root     *UiProgram
}

// UiProgram is the root: imports followed by the root object.
type UiProgram struct {
	Loc     SourceLocation
	Imports []*UiImport
	Members []Node
}

// UiImport is `import Module Version`.
type UiImport struct {
	Loc     SourceLocation
	URI     string
	Version string
}

// UiQualifiedID is a dotted name; Next is the following component.
type UiQualifiedID struct {
	Loc  SourceLocation
	Name string
	Next *UiQualifiedID
}

// String joins all components with dots.
func (q *UiQualifiedID) String() string {
	if q == nil {
		return ""
	}
	if q.Next == nil {
		return q.Name
	}
	return q.Name + "." + q.Next.String()
}

// UiObjectDefinition is `TypeName { ... }`.
type UiObjectDefinition struct {
	Loc         SourceLocation
	TypeName    *UiQualifiedID
	Initializer *UiObjectInitializer
}

// UiObjectInitializer is the braced member list of an object.
type UiObjectInitializer struct {
	Loc     SourceLocation
	Members []Node
}

// UiScriptBinding is `id: statement`.
type UiScriptBinding struct {
	Loc         SourceLocation
	QualifiedID *UiQualifiedID
	Statement   Node
}

// UiObjectBinding is `id: TypeName { ... }`.
type UiObjectBinding struct {
	Loc         SourceLocation
	QualifiedID *UiQualifiedID
	TypeName    *UiQualifiedID
	Initializer *UiObjectInitializer
}

// UiArrayBinding is `id: [ Obj {}, Obj {} ]`.
type UiArrayBinding struct {
	Loc         SourceLocation
	QualifiedID *UiQualifiedID
	Members     []Node
}

// UiPublicMember is `property type name: statement` or `signal name(...)`.
type UiPublicMember struct {
	Loc        SourceLocation
	MemberType string
	Name       string
	Statement  Node
}

// UiSourceElement wraps a script declaration placed among object members.
type UiSourceElement struct {
	Loc           SourceLocation
	SourceElement Node
}

// FunctionDeclaration is `function name(params) { body }`.
type FunctionDeclaration struct {
	Loc    SourceLocation
	Name   string
	Params []string
	Body   []Node
}

// ExpressionStatement is an expression used as a statement.
type ExpressionStatement struct {
	Loc        SourceLocation
	Expression Node
}

// Block is a braced statement list.
type Block struct {
	Loc        SourceLocation
	Statements []Node
}

// StringLiteral holds a decoded string value.
type StringLiteral struct {
	Loc   SourceLocation
	Value string
}

// NumericLiteral is a number.
type NumericLiteral struct {
	Loc   SourceLocation
	Value float64
}

// IdentifierExpression is a bare name.
type IdentifierExpression struct {
	Loc  SourceLocation
	Name string
}

// FieldMemberExpression is `Base.Name`.
type FieldMemberExpression struct {
	Loc  SourceLocation
	Base Node
	Name string
}

// CallExpression is `Base(Args...)`.
type CallExpression struct {
	Loc  SourceLocation
	Base Node
	Args []Node
}

func (n *UiProgram) FirstSourceLocation() SourceLocation             { return n.Loc }
func (n *UiImport) FirstSourceLocation() SourceLocation              { return n.Loc }
func (n *UiQualifiedID) FirstSourceLocation() SourceLocation         { return n.Loc }
func (n *UiObjectDefinition) FirstSourceLocation() SourceLocation    { return n.Loc }
func (n *UiObjectInitializer) FirstSourceLocation() SourceLocation   { return n.Loc }
func (n *UiScriptBinding) FirstSourceLocation() SourceLocation       { return n.Loc }
func (n *UiObjectBinding) FirstSourceLocation() SourceLocation       { return n.Loc }
func (n *UiArrayBinding) FirstSourceLocation() SourceLocation        { return n.Loc }
func (n *UiPublicMember) FirstSourceLocation() SourceLocation        { return n.Loc }
func (n *UiSourceElement) FirstSourceLocation() SourceLocation       { return n.Loc }
func (n *FunctionDeclaration) FirstSourceLocation() SourceLocation   { return n.Loc }
func (n *ExpressionStatement) FirstSourceLocation() SourceLocation   { return n.Loc }
func (n *Block) FirstSourceLocation() SourceLocation                 { return n.Loc }
func (n *StringLiteral) FirstSourceLocation() SourceLocation         { return n.Loc }
func (n *NumericLiteral) FirstSourceLocation() SourceLocation        { return n.Loc }
func (n *IdentifierExpression) FirstSourceLocation() SourceLocation  { return n.Loc }
func (n *FieldMemberExpression) FirstSourceLocation() SourceLocation { return n.Loc }
func (n *CallExpression) FirstSourceLocation() SourceLocation        { return n.Loc }

func (*UiProgram) qmlNode()             {}
func (*UiImport) qmlNode()              {}
func (*UiQualifiedID) qmlNode()         {}
func (*UiObjectDefinition) qmlNode()    {}
func (*UiObjectInitializer) qmlNode()   {}
func (*UiScriptBinding) qmlNode()       {}
func (*UiObjectBinding) qmlNode()       {}
func (*UiArrayBinding) qmlNode()        {}
func (*UiPublicMember) qmlNode()        {}
func (*UiSourceElement) qmlNode()       {}
func (*FunctionDeclaration) qmlNode()   {}
func (*ExpressionStatement) qmlNode()   {}
func (*Block) qmlNode()                 {}
func (*StringLiteral) qmlNode()         {}
func (*NumericLiteral) qmlNode()        {}
func (*IdentifierExpression) qmlNode()  {}
func (*FieldMemberExpression) qmlNode() {}
func (*CallExpression) qmlNode()        {}

// Visitor decides, per node, whether to descend into its children.
type Visitor interface {
	Visit(n Node) bool
}

// Walk traverses n depth-first, left to right.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if !v.Visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) bool { return f(n) }

// Inspect walks n and calls f for each node; returning false prunes the subtree.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Children returns the direct children of n in source order. Qualified ids
// are leaves.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *UiProgram:
		for _, imp := range n.Imports {
			if imp != nil {
				add(imp)
			}
		}
		add(n.Members...)
	case *UiObjectDefinition:
		if n.TypeName != nil {
			add(n.TypeName)
		}
		if n.Initializer != nil {
			add(n.Initializer)
		}
	case *UiObjectInitializer:
		add(n.Members...)
	case *UiScriptBinding:
		if n.QualifiedID != nil {
			add(n.QualifiedID)
		}
		add(n.Statement)
	case *UiObjectBinding:
		if n.QualifiedID != nil {
			add(n.QualifiedID)
		}
		if n.TypeName != nil {
			add(n.TypeName)
		}
		if n.Initializer != nil {
			add(n.Initializer)
		}
	case *UiArrayBinding:
		if n.QualifiedID != nil {
			add(n.QualifiedID)
		}
		add(n.Members...)
	case *UiPublicMember:
		add(n.Statement)
	case *UiSourceElement:
		add(n.SourceElement)
	case *FunctionDeclaration:
		add(n.Body...)
	case *ExpressionStatement:
		add(n.Expression)
	case *Block:
		add(n.Statements...)
	case *FieldMemberExpression:
		add(n.Base)
	case *CallExpression:
		add(n.Base)
		add(n.Args...)
	case *UiImport, *UiQualifiedID, *StringLiteral, *NumericLiteral, *IdentifierExpression:
	default:
		panic(fmt.Sprintf("qmlast: unexpected node type %T", n))
	}
	return out
}
