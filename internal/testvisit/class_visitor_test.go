package testvisit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/model"
)

type finderFunc func(decl *cppast.Symbol) *cppast.Symbol

func (f finderFunc) FindMatchingDefinition(decl *cppast.Symbol) *cppast.Symbol { return f(decl) }

// testClass builds TestFoo with a mix of admitted and rejected members, plus
// an out-of-line definition of initTestCase in tst_foo.cpp.
func testClass(t *testing.T) (*cppast.Symbol, *cppast.Snapshot) {
	t.Helper()

	global := cppast.NewScope(cppast.NamespaceScope, nil, nil)
	base := classSymbol("Base", global)
	class := classSymbol("TestFoo", global)

	method(class, "initTestCase", cppast.Private, true, 5)
	method(class, "cleanup", cppast.Private, true, 6)
	method(class, "compare_data", cppast.Private, true, 7)
	method(class, "compare", cppast.Private, true, 8)
	method(class, "publicSlot", cppast.Public, true, 10)
	method(class, "helper", cppast.Private, false, 12)
	method(class, "protectedSlot", cppast.Protected, true, 13)
	class.Members.Add(&cppast.Symbol{Name: "field", Kind: cppast.VariableSymbol, Visibility: cppast.Private, Slot: true})

	inner := classSymbol("Inner", class.Members)
	method(inner, "innerTest", cppast.Private, true, 16)

	inherited := method(base, "baseTest", cppast.Private, true, 3)
	class.Members.Symbols = append(class.Members.Symbols, inherited)

	def := &cppast.Symbol{
		Name:      "initTestCase",
		Kind:      cppast.FunctionSymbol,
		File:      testFile,
		Line:      20,
		Column:    15,
		HasBody:   true,
		Qualifier: []string{"TestFoo"},
		Type:      &cppast.FunctionType{},
	}
	global.Add(def)

	snap := cppast.NewSnapshot(
		&cppast.Document{FileName: "tst_foo.h", Global: global, Symbols: []*cppast.Symbol{base, class, inner}},
		&cppast.Document{FileName: testFile, Symbols: []*cppast.Symbol{def}},
	)
	return class, snap
}

func TestClassVisitor_AdmitsPrivateSlotsOfTargetOnly(t *testing.T) {
	t.Parallel()
	class, snap := testClass(t)

	v := NewClassVisitor("TestFoo", snap)
	assert.True(t, v.VisitClass(class))
	got := v.Functions()

	require.Len(t, got, 4)
	for _, name := range []string{"publicSlot", "helper", "protectedSlot", "field", "innerTest", "baseTest"} {
		assert.NotContains(t, got, name)
	}

	assert.Equal(t, model.SpecialFunction, got["initTestCase"].Kind)
	assert.Equal(t, model.SpecialFunction, got["cleanup"].Kind)
	assert.Equal(t, model.DataFunction, got["compare_data"].Kind)
	assert.Equal(t, model.Function, got["compare"].Kind)
}

func TestClassVisitor_PrefersDefinitionLocation(t *testing.T) {
	t.Parallel()
	class, snap := testClass(t)

	v := NewClassVisitor("TestFoo", snap)
	v.VisitClass(class)
	got := v.Functions()

	assert.Equal(t, model.TestLocation{File: testFile, Line: 20, Column: 14, Kind: model.SpecialFunction}, got["initTestCase"])
	// no definition anywhere: declaration fallback
	assert.Equal(t, model.TestLocation{File: "tst_foo.h", Line: 8, Column: 9, Kind: model.Function}, got["compare"])
}

func TestClassVisitor_NilFinderUsesDeclarations(t *testing.T) {
	t.Parallel()
	class, _ := testClass(t)

	v := NewClassVisitor("TestFoo", nil)
	v.VisitClass(class)

	assert.Equal(t, "tst_foo.h", v.Functions()["initTestCase"].File)
	assert.Equal(t, 5, v.Functions()["initTestCase"].Line)
}

func TestClassVisitor_InjectedFinder(t *testing.T) {
	t.Parallel()
	class, _ := testClass(t)

	calls := 0
	finder := finderFunc(func(decl *cppast.Symbol) *cppast.Symbol {
		calls++
		if decl.Name == "compare" {
			return &cppast.Symbol{Name: "compare", File: "other.cpp", Line: 42, Column: 1}
		}
		return nil
	})

	v := NewClassVisitor("TestFoo", finder)
	v.VisitClass(class)

	assert.Equal(t, 4, calls)
	assert.Equal(t, model.TestLocation{File: "other.cpp", Line: 42, Column: 0, Kind: model.Function}, v.Functions()["compare"])
}

func TestClassVisitor_TargetNameMustMatchExactly(t *testing.T) {
	t.Parallel()
	class, snap := testClass(t)

	v := NewClassVisitor("ns::TestFoo", snap)
	v.VisitClass(class)

	assert.Empty(t, v.Functions())
}

func TestClassVisitor_NestedTargetClass(t *testing.T) {
	t.Parallel()
	class, snap := testClass(t)

	inner := class.Members.Find("Inner")
	require.NotNil(t, inner)

	v := NewClassVisitor("TestFoo::Inner", snap)
	v.VisitClass(class)

	assert.Equal(t, []string{"innerTest"}, keys(v.Functions()))
}

func TestClassVisitor_NamespacedClass(t *testing.T) {
	t.Parallel()

	global := cppast.NewScope(cppast.NamespaceScope, nil, nil)
	ns := &cppast.Symbol{Name: "ns", Kind: cppast.NamespaceSymbol}
	global.Add(ns)
	ns.Members = cppast.NewScope(cppast.NamespaceScope, ns, global)
	class := classSymbol("TestFoo", ns.Members)
	method(class, "testOne", cppast.Private, true, 4)

	v := NewClassVisitor("ns::TestFoo", nil)
	v.VisitClass(class)

	assert.Equal(t, []string{"testOne"}, keys(v.Functions()))
}

func TestClassVisitor_EmptyClass(t *testing.T) {
	t.Parallel()

	class := classSymbol("Empty", cppast.NewScope(cppast.NamespaceScope, nil, nil))
	v := NewClassVisitor("Empty", nil)
	v.VisitClass(class)

	assert.NotNil(t, v.Functions())
	assert.Empty(t, v.Functions())
}

func keys(idx model.NameClassIndex) []string {
	var out []string
	for k := range idx {
		out = append(out, k)
	}
	return out
}
