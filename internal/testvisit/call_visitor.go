package testvisit

import (
	"github.com/phobologic/testscan/internal/cppast"
)

const qExecName = "QTest::qExec"

// CallVisitor finds the class handed to QTest::qExec in a document.
type CallVisitor struct {
	cppast.BaseVisitor

	doc       *cppast.Document
	typeOf    cppast.TypeOfExpression
	scope     *cppast.Scope
	className string
	resolved  bool
}

// NewCallVisitor returns a visitor bound to doc. It panics if doc or typeOf is nil.
func NewCallVisitor(doc *cppast.Document, typeOf cppast.TypeOfExpression) *CallVisitor {
	if doc == nil || typeOf == nil {
		panic("testvisit: NewCallVisitor requires a document and a type resolver")
	}
	return &CallVisitor{doc: doc, typeOf: typeOf}
}

// Walk visits the whole document.
func (v *CallVisitor) Walk() {
	cppast.Walk(v, v.doc.Root)
}

func (v *CallVisitor) Visit(n cppast.Node) bool {
	switch n := n.(type) {
	case *cppast.CompoundStatement:
		v.scope = n.Scope
		return true
	case *cppast.CallExpression:
		v.visitCall(n)
		return false
	}
	return true
}

func (v *CallVisitor) visitCall(call *cppast.CallExpression) {
	if v.scope == nil {
		return
	}
	id, ok := call.Base.(*cppast.IDExpression)
	if !ok {
		return
	}
	qualified, ok := id.Name.(*cppast.QualifiedName)
	if !ok || cppast.PrettyName(qualified) != qExecName {
		return
	}
	if len(call.Args) == 0 || call.Args[0] == nil {
		return
	}

	types := v.typeOf.TypeOf(call.Args[0], v.doc, v.scope)
	if len(types) == 0 {
		return
	}
	if ptr, ok := types[0].(*cppast.PointerType); ok {
		v.className = cppast.PrettyType(ptr.Elem)
		v.resolved = true
	}
}

// ClassName returns the pretty-printed class passed to the last qExec call
// visited, if its type resolved to a pointer.
func (v *CallVisitor) ClassName() (string, bool) {
	return v.className, v.resolved
}
