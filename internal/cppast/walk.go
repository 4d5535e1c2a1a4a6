package cppast

import (
	"fmt"
	"strings"
)

// Visitor receives every node of a walk.
//
// PreVisit runs on entry to every node. When it returns true, Visit runs, and
// when Visit returns true the node's children are walked. PostVisit runs for
// every node that was entered, whether or not its children were walked, so
// per-node bookkeeping done in PreVisit/PostVisit always balances.
type Visitor interface {
	PreVisit(n Node) bool
	Visit(n Node) bool
	PostVisit(n Node)
}

// BaseVisitor descends everywhere and does nothing else. Embed it and
// override only the methods a visitor needs.
type BaseVisitor struct{}

func (BaseVisitor) PreVisit(Node) bool { return true }
func (BaseVisitor) Visit(Node) bool    { return true }
func (BaseVisitor) PostVisit(Node)     {}

// Walk traverses n depth-first, left to right.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v.PreVisit(n) && v.Visit(n) {
		for _, c := range Children(n) {
			Walk(v, c)
		}
	}
	v.PostVisit(n)
}

// Inspect walks n and calls f for each node; returning false prunes the subtree.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

type inspector func(Node) bool

func (f inspector) PreVisit(Node) bool { return true }
func (f inspector) Visit(n Node) bool  { return f(n) }
func (f inspector) PostVisit(Node)     {}

// Children returns the direct children of n in source order.
// It panics on a node type outside this package's closed set.
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
	case *TranslationUnit:
		add(n.Decls...)
	case *NamespaceDefinition:
		add(n.Decls...)
	case *ClassSpecifier:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Members...)
	case *NamedTypeSpecifier:
		if n.Name != nil {
			add(n.Name)
		}
	case *SimpleDeclaration:
		add(n.Specifiers...)
		for _, d := range n.Declarators {
			if d != nil {
				add(d)
			}
		}
	case *FunctionDefinition:
		add(n.Specifiers...)
		if n.Declarator != nil {
			add(n.Declarator)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Declarator:
		add(n.Core)
		for _, p := range n.Params {
			if p != nil {
				add(p)
			}
		}
		add(n.Init)
	case *DeclaratorID:
		if n.Name != nil {
			add(n.Name)
		}
	case *ParameterDeclaration:
		add(n.Specifiers...)
		if n.Declarator != nil {
			add(n.Declarator)
		}
	case *CompoundStatement:
		add(n.Statements...)
	case *ExpressionStatement:
		add(n.Expr)
	case *ReturnStatement:
		add(n.Expr)
	case *UsingDirective:
		if n.Name != nil {
			add(n.Name)
		}
	case *CallExpression:
		add(n.Base)
		add(n.Args...)
	case *IDExpression:
		if n.Name != nil {
			add(n.Name)
		}
	case *QualifiedName:
		for _, q := range n.Qualifiers {
			if q != nil {
				add(q)
			}
		}
		if n.Unqualified != nil {
			add(n.Unqualified)
		}
	case *UnaryExpression:
		add(n.Operand)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *MemberAccess:
		add(n.Base)
		if n.Member != nil {
			add(n.Member)
		}
	case *NewExpression:
		if n.Type != nil {
			add(n.Type)
		}
		add(n.Args...)
	case *Unknown:
		add(n.Children...)
	case *SimpleName, *StringLiteral, *NumericLiteral:
	default:
		panic(fmt.Sprintf("cppast: unexpected node type %T", n))
	}
	return out
}

// PrettyName renders a name the way it is spelled in source, e.g. "QTest::qExec".
func PrettyName(n Name) string {
	switch n := n.(type) {
	case *SimpleName:
		if n == nil {
			return ""
		}
		return n.Identifier
	case *QualifiedName:
		if n == nil {
			return ""
		}
		parts := make([]string, 0, len(n.Qualifiers)+1)
		for _, q := range n.Qualifiers {
			parts = append(parts, q.Identifier)
		}
		if n.Unqualified != nil {
			parts = append(parts, n.Unqualified.Identifier)
		}
		s := strings.Join(parts, "::")
		if n.Global {
			s = "::" + s
		}
		return s
	}
	return ""
}
