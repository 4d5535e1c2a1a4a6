package testvisit

import (
	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/model"
)

// locator resolves where a test method should point. Locators are tried in
// order and the first hit wins.
type locator func(decl *cppast.Symbol) (*cppast.Symbol, bool)

// definitionLocator finds the out-of-line definition of decl.
func definitionLocator(finder cppast.DefinitionFinder) locator {
	return func(decl *cppast.Symbol) (*cppast.Symbol, bool) {
		def := finder.FindMatchingDefinition(decl)
		return def, def != nil
	}
}

// declarationLocator always succeeds with the declaration itself.
func declarationLocator(decl *cppast.Symbol) (*cppast.Symbol, bool) {
	return decl, true
}

// ClassVisitor collects the private slots of one QTest class.
type ClassVisitor struct {
	className string
	locators  []locator
	functions model.NameClassIndex
}

// NewClassVisitor returns a visitor for the class whose fully qualified name
// is className. finder may be nil, in which case declarations are used.
func NewClassVisitor(className string, finder cppast.DefinitionFinder) *ClassVisitor {
	v := &ClassVisitor{
		className: className,
		functions: make(model.NameClassIndex),
	}
	if finder != nil {
		v.locators = append(v.locators, definitionLocator(finder))
	}
	v.locators = append(v.locators, declarationLocator)
	return v
}

// VisitClass scans the members of class. Nested classes are walked too, but
// only members whose enclosing class is the target are admitted, which also
// drops inherited members that appear in the member list.
func (v *ClassVisitor) VisitClass(class *cppast.Symbol) bool {
	for _, member := range class.MemberList() {
		if member.Kind == cppast.ClassSymbol {
			v.VisitClass(member)
			continue
		}
		if cppast.FullyQualifiedName(member.EnclosingClass()) != v.className {
			continue
		}
		if !member.IsMethod() || !member.Slot || member.Visibility != cppast.Private {
			continue
		}
		v.functions[member.Name] = v.locate(member)
	}
	return true
}

func (v *ClassVisitor) locate(decl *cppast.Symbol) model.TestLocation {
	at := decl
	for _, l := range v.locators {
		if sym, ok := l(decl); ok {
			at = sym
			break
		}
	}
	return model.TestLocation{
		File:   at.File,
		Line:   at.Line,
		Column: at.Column - 1,
		Kind:   Classify(decl.Name),
	}
}

// Functions returns the collected test methods keyed by name.
func (v *ClassVisitor) Functions() model.NameClassIndex {
	return v.functions
}
