package testvisit

import (
	"strings"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/model"
)

const (
	qtestNamespace = "QTest"
	newRowName     = "newRow"
	qualifiedRow   = qtestNamespace + "::" + newRowName
)

// DataFunctionVisitor collects the data tags registered by QTest::newRow in
// every zero-argument *_data function of a document.
//
// The effect of `using namespace QTest;` is scoped by AST depth: the depth
// just outside the directive is recorded, and the flag drops once the walk
// climbs above it, i.e. when it leaves the block containing the directive.
// Only one active directive is tracked, and data functions must not nest.
type DataFunctionVisitor struct {
	doc *cppast.Document

	depth       int
	usingQTest  bool
	usingDepth  int
	currentFunc string
	currentTags []model.TestLocation
	dataTags    model.DataTagIndex
}

// NewDataFunctionVisitor returns a visitor bound to doc. It panics if doc is nil.
func NewDataFunctionVisitor(doc *cppast.Document) *DataFunctionVisitor {
	if doc == nil {
		panic("testvisit: NewDataFunctionVisitor requires a document")
	}
	return &DataFunctionVisitor{doc: doc, dataTags: make(model.DataTagIndex)}
}

// Walk visits the whole document.
func (v *DataFunctionVisitor) Walk() {
	cppast.Walk(v, v.doc.Root)
}

func (v *DataFunctionVisitor) PreVisit(cppast.Node) bool {
	v.depth++
	return true
}

func (v *DataFunctionVisitor) PostVisit(n cppast.Node) {
	v.depth--
	v.usingQTest = v.usingQTest && v.depth >= v.usingDepth

	if _, ok := n.(*cppast.FunctionDefinition); !ok {
		return
	}
	if v.currentFunc != "" && len(v.currentTags) > 0 {
		v.dataTags[v.currentFunc] = v.currentTags
	}
	v.currentFunc = ""
	v.currentTags = nil
}

func (v *DataFunctionVisitor) Visit(n cppast.Node) bool {
	switch n := n.(type) {
	case *cppast.UsingDirective:
		if n.Name != nil && cppast.PrettyName(n.Name) == qtestNamespace {
			v.usingQTest = true
			// the directive is itself a node, so its container is one level up
			v.usingDepth = v.depth - 1
		}
		return true
	case *cppast.FunctionDefinition:
		return v.enterFunction(n)
	case *cppast.CallExpression:
		v.visitCall(n)
		return true
	}
	return true
}

func (v *DataFunctionVisitor) enterFunction(fn *cppast.FunctionDefinition) bool {
	if fn.Declarator == nil {
		return false
	}
	id, ok := fn.Declarator.Core.(*cppast.DeclaratorID)
	if !ok || id.Name == nil {
		return false
	}
	name := cppast.PrettyName(id.Name)
	if !strings.HasSuffix(name, DataSuffix) || fn.Symbol == nil || fn.Symbol.Params != 0 {
		return false
	}

	v.currentFunc = strings.TrimSuffix(name, DataSuffix)
	v.currentTags = nil
	return true
}

func (v *DataFunctionVisitor) visitCall(call *cppast.CallExpression) {
	if v.currentFunc == "" {
		return
	}
	at, ok := v.newRowCall(call)
	if !ok || len(call.Args) == 0 {
		return
	}
	lit, ok := call.Args[0].(*cppast.StringLiteral)
	if !ok {
		return
	}
	v.currentTags = append(v.currentTags, model.TestLocation{
		File:   v.doc.FileName,
		Line:   at.Line,
		Column: at.Column - 1,
		Kind:   model.DataTag,
		Name:   lit.Value,
	})
}

// newRowCall reports whether call registers a data row and returns the
// position of the callee's first token.
func (v *DataFunctionVisitor) newRowCall(call *cppast.CallExpression) (cppast.Pos, bool) {
	id, ok := call.Base.(*cppast.IDExpression)
	if !ok || id.Name == nil {
		return cppast.Pos{}, false
	}
	switch name := id.Name.(type) {
	case *cppast.QualifiedName:
		return name.Pos(), cppast.PrettyName(name) == qualifiedRow
	case *cppast.SimpleName:
		if v.usingQTest {
			return name.Pos(), name.Identifier == newRowName
		}
	}
	return cppast.Pos{}, false
}

// DataTags returns the collected tags keyed by data function base name.
func (v *DataFunctionVisitor) DataTags() model.DataTagIndex {
	return v.dataTags
}
