package testvisit

import (
	"github.com/phobologic/testscan/internal/model"
	"github.com/phobologic/testscan/internal/qmlast"
)

const (
	testCaseType     = "TestCase"
	testCaseNameProp = "name"
)

// QuickTestVisitor extracts a Quick TestCase object: its declared name, its
// location and its test functions.
//
// A plain Walk keeps only the most recently visited TestCase's name and
// location. Use VisitTestCase to read one specific object.
type QuickTestVisitor struct {
	doc       *qmlast.Document
	root      *qmlast.UiObjectDefinition
	name      string
	location  model.TestLocation
	functions model.NameClassIndex
}

// NewQuickTestVisitor returns a visitor bound to doc. It panics if doc is nil.
func NewQuickTestVisitor(doc *qmlast.Document) *QuickTestVisitor {
	if doc == nil {
		panic("testvisit: NewQuickTestVisitor requires a document")
	}
	return &QuickTestVisitor{doc: doc, functions: make(model.NameClassIndex)}
}

// Walk visits the whole document.
func (v *QuickTestVisitor) Walk() {
	qmlast.Walk(v, v.doc.Root)
}

// VisitTestCase visits obj as the only test case: nested TestCase objects
// are skipped so they do not leak into obj's result.
func (v *QuickTestVisitor) VisitTestCase(obj *qmlast.UiObjectDefinition) {
	v.root = obj
	qmlast.Walk(v, obj)
}

func (v *QuickTestVisitor) Visit(n qmlast.Node) bool {
	switch n := n.(type) {
	case *qmlast.UiObjectDefinition:
		return v.visitObject(n)
	case *qmlast.ExpressionStatement:
		_, ok := n.Expression.(*qmlast.StringLiteral)
		return ok
	case *qmlast.UiScriptBinding:
		return n.QualifiedID != nil && n.QualifiedID.Name == testCaseNameProp
	case *qmlast.FunctionDeclaration:
		v.visitFunction(n)
		return false
	case *qmlast.StringLiteral:
		v.name = n.Value
		return false
	}
	return true
}

// IsTestCase reports whether obj is a TestCase object.
func IsTestCase(obj *qmlast.UiObjectDefinition) bool {
	return obj != nil && obj.TypeName != nil && obj.TypeName.Name == testCaseType
}

func (v *QuickTestVisitor) visitObject(obj *qmlast.UiObjectDefinition) bool {
	if !IsTestCase(obj) {
		// nested TestCase objects may sit anywhere below
		return true
	}
	if v.root != nil && obj != v.root {
		return false
	}

	v.name = ""
	loc := obj.FirstSourceLocation()
	v.location = model.TestLocation{
		File:   v.doc.FileName,
		Line:   loc.StartLine,
		Column: loc.StartColumn - 1,
		Kind:   model.Class,
	}
	return true
}

func (v *QuickTestVisitor) visitFunction(fn *qmlast.FunctionDeclaration) {
	if !isQuickTestFunction(fn.Name) {
		return
	}
	loc := fn.FirstSourceLocation()
	v.functions[fn.Name] = model.TestLocation{
		File:   v.doc.FileName,
		Line:   loc.StartLine,
		Column: loc.StartColumn - 1,
		Kind:   Classify(fn.Name),
	}
}

// TestCaseName returns the declared `name` of the test case, or "".
func (v *QuickTestVisitor) TestCaseName() string {
	return v.name
}

// TestCaseLocation returns the class location of the test case object.
func (v *QuickTestVisitor) TestCaseLocation() model.TestLocation {
	return v.location
}

// TestFunctions returns the admitted functions keyed by name.
func (v *QuickTestVisitor) TestFunctions() model.NameClassIndex {
	return v.functions
}

// Index bundles the visitor's results.
func (v *QuickTestVisitor) Index() model.DeclarativeTestIndex {
	return model.DeclarativeTestIndex{
		Name:      v.name,
		Location:  v.location,
		Functions: v.functions,
	}
}
