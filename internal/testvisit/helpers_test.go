package testvisit

import (
	"github.com/phobologic/testscan/internal/cppast"
)

const testFile = "tst_foo.cpp"

func at(line, col int) cppast.Pos {
	return cppast.Pos{Line: line, Column: col}
}

func sname(p cppast.Pos, id string) *cppast.SimpleName {
	return &cppast.SimpleName{Start: p, Identifier: id}
}

// qname builds A::B::c with every component on one line, separated by "::".
func qname(p cppast.Pos, parts ...string) *cppast.QualifiedName {
	q := &cppast.QualifiedName{Start: p}
	col := p.Column
	for i, part := range parts {
		n := sname(at(p.Line, col), part)
		if i == len(parts)-1 {
			q.Unqualified = n
		} else {
			q.Qualifiers = append(q.Qualifiers, n)
		}
		col += len(part) + 2
	}
	return q
}

func call(callee cppast.Name, args ...cppast.Node) *cppast.CallExpression {
	return &cppast.CallExpression{
		Start: callee.Pos(),
		Base:  &cppast.IDExpression{Start: callee.Pos(), Name: callee},
		Args:  args,
	}
}

func str(p cppast.Pos, value string) *cppast.StringLiteral {
	return &cppast.StringLiteral{Start: p, Value: value, Raw: `"` + value + `"`}
}

func stmt(e cppast.Node) *cppast.ExpressionStatement {
	return &cppast.ExpressionStatement{Start: e.Pos(), Expr: e}
}

func block(parent *cppast.Scope, stmts ...cppast.Node) *cppast.CompoundStatement {
	return &cppast.CompoundStatement{
		Statements: stmts,
		Scope:      cppast.NewScope(cppast.BlockScope, nil, parent),
	}
}

func using(p cppast.Pos, name string) *cppast.UsingDirective {
	return &cppast.UsingDirective{Start: p, Name: sname(p, name)}
}

// function builds a definition named name with params parameters.
func function(line int, name cppast.Name, params int, body *cppast.CompoundStatement) *cppast.FunctionDefinition {
	sym := &cppast.Symbol{
		Name:    cppast.PrettyName(name),
		Kind:    cppast.FunctionSymbol,
		File:    testFile,
		Line:    line,
		Column:  6,
		Params:  params,
		HasBody: true,
		Type:    &cppast.FunctionType{Result: &cppast.NamedType{Name: "void"}},
	}
	return &cppast.FunctionDefinition{
		Start:      at(line, 1),
		Specifiers: []cppast.Node{&cppast.NamedTypeSpecifier{Start: at(line, 1), Name: sname(at(line, 1), "void")}},
		Declarator: &cppast.Declarator{
			Start:    name.Pos(),
			Core:     &cppast.DeclaratorID{Start: name.Pos(), Name: name},
			Function: true,
		},
		Body:   body,
		Symbol: sym,
	}
}

func document(decls ...cppast.Node) *cppast.Document {
	return &cppast.Document{
		FileName: testFile,
		Root:     &cppast.TranslationUnit{Start: at(1, 1), Decls: decls},
		Global:   cppast.NewScope(cppast.NamespaceScope, nil, nil),
	}
}

func classSymbol(name string, parent *cppast.Scope) *cppast.Symbol {
	c := &cppast.Symbol{Name: name, Kind: cppast.ClassSymbol, File: "tst_foo.h", Line: 1, Column: 7}
	if parent != nil {
		parent.Add(c)
	}
	c.Members = cppast.NewScope(cppast.ClassScope, c, parent)
	return c
}

func method(class *cppast.Symbol, name string, vis cppast.Visibility, slot bool, line int) *cppast.Symbol {
	m := &cppast.Symbol{
		Name:       name,
		Kind:       cppast.FunctionSymbol,
		File:       "tst_foo.h",
		Line:       line,
		Column:     10,
		Visibility: vis,
		Slot:       slot,
		Type:       &cppast.FunctionType{Result: &cppast.NamedType{Name: "void"}},
	}
	class.Members.Add(m)
	return m
}
