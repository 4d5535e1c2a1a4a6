package cppfront

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/model"
	"github.com/phobologic/testscan/internal/testvisit"
)

const header = `#include <QtTest>
#include "helper.h"

namespace ns {

class TestFoo : public QObject
{
    Q_OBJECT
public:
    TestFoo();

private slots:
    void initTestCase();
    void compare_data();
    void compare();

private:
    void helper(int value);

signals:
    void done();
};

} // namespace ns
`

const source = `#include "tst_foo.h"

void ns::TestFoo::compare_data()
{
    QTest::addColumn<int>("value");
    QTest::newRow("zero") << 0;
    QTest::newRow("one") << 1;
}

void ns::TestFoo::compare()
{
}

QTEST_MAIN(ns::TestFoo)
#include "tst_foo.moc"
`

const mainSource = `#include <QtTest>
#include "tst_foo.h"

int main(int argc, char **argv)
{
    auto tc = new ns::TestFoo;
    return QTest::qExec(tc, argc, argv);
}
`

func parse(t *testing.T, src, file string) *cppast.Document {
	t.Helper()
	doc, err := Parse(context.Background(), []byte(src), file)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func symbol(doc *cppast.Document, name string) *cppast.Symbol {
	for _, s := range doc.Symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestParse_ClassMembers(t *testing.T) {
	t.Parallel()

	doc := parse(t, header, "tst_foo.h")
	assert.Equal(t, "tst_foo.h", doc.FileName)
	assert.Equal(t, []string{"QtTest", "helper.h"}, doc.Includes)
	assert.Empty(t, doc.MainClasses)

	class := cppast.NewSnapshot(doc).FindClass("ns::TestFoo")
	require.NotNil(t, class)
	assert.Equal(t, 6, class.Line)
	assert.Equal(t, 7, class.Column)
	assert.Equal(t, []string{"QObject"}, class.Bases)

	tests := []struct {
		name   string
		vis    cppast.Visibility
		slot   bool
		params int
		line   int
	}{
		{"TestFoo", cppast.Public, false, 0, 10},
		{"initTestCase", cppast.Private, true, 0, 13},
		{"compare_data", cppast.Private, true, 0, 14},
		{"compare", cppast.Private, true, 0, 15},
		{"helper", cppast.Private, false, 1, 18},
		{"done", cppast.Public, false, 0, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := class.Members.Find(tt.name)
			require.NotNil(t, m)
			assert.Equal(t, cppast.FunctionSymbol, m.Kind)
			assert.Equal(t, tt.vis, m.Visibility)
			assert.Equal(t, tt.slot, m.Slot)
			assert.Equal(t, tt.params, m.Params)
			assert.Equal(t, tt.line, m.Line)
			assert.False(t, m.HasBody)
			assert.True(t, m.IsMethod())
			assert.Same(t, class, m.EnclosingClass())
		})
	}
	assert.Equal(t, 10, class.Members.Find("compare").Column)
}

func TestParse_OutOfLineDefinitions(t *testing.T) {
	t.Parallel()

	doc := parse(t, source, "tst_foo.cpp")
	assert.Equal(t, []string{"tst_foo.h", "tst_foo.moc"}, doc.Includes)
	assert.Equal(t, []string{"ns::TestFoo"}, doc.MainClasses)

	def := symbol(doc, "compare_data")
	require.NotNil(t, def)
	assert.Equal(t, []string{"ns", "TestFoo"}, def.Qualifier)
	assert.Equal(t, "ns::TestFoo::compare_data", cppast.FullyQualifiedName(def))
	assert.True(t, def.HasBody)
	assert.Equal(t, 0, def.Params)
	assert.Equal(t, 3, def.Line)
	assert.Equal(t, 19, def.Column)
}

func TestParse_ClassVisitorAcrossFiles(t *testing.T) {
	t.Parallel()

	snap := cppast.NewSnapshot(parse(t, header, "tst_foo.h"), parse(t, source, "tst_foo.cpp"))
	class := snap.FindClass("ns::TestFoo")
	require.NotNil(t, class)

	v := testvisit.NewClassVisitor("ns::TestFoo", snap)
	v.VisitClass(class)
	got := v.Functions()

	assert.Len(t, got, 3)
	assert.Equal(t, model.TestLocation{File: "tst_foo.h", Line: 13, Column: 9, Kind: model.SpecialFunction}, got["initTestCase"])
	assert.Equal(t, model.TestLocation{File: "tst_foo.cpp", Line: 3, Column: 18, Kind: model.DataFunction}, got["compare_data"])
	assert.Equal(t, model.TestLocation{File: "tst_foo.cpp", Line: 10, Column: 18, Kind: model.Function}, got["compare"])
}

func TestParse_DataTags(t *testing.T) {
	t.Parallel()

	doc := parse(t, source, "tst_foo.cpp")
	v := testvisit.NewDataFunctionVisitor(doc)
	v.Walk()

	tags := v.DataTags()
	require.Contains(t, tags, "ns::TestFoo::compare")
	got := tags["ns::TestFoo::compare"]
	require.Len(t, got, 2)
	assert.Equal(t, model.TestLocation{File: "tst_foo.cpp", Line: 6, Column: 4, Kind: model.DataTag, Name: "zero"}, got[0])
	assert.Equal(t, "one", got[1].Name)
	assert.Equal(t, 7, got[1].Line)
}

func TestParse_UsingNamespaceDataTags(t *testing.T) {
	t.Parallel()

	src := `void TestBar::rows_data()
{
    using namespace QTest;
    newRow("a");
}
`
	v := testvisit.NewDataFunctionVisitor(parse(t, src, "tst_bar.cpp"))
	v.Walk()

	tags := v.DataTags()
	require.Len(t, tags["TestBar::rows"], 1)
	assert.Equal(t, model.TestLocation{File: "tst_bar.cpp", Line: 4, Column: 4, Kind: model.DataTag, Name: "a"}, tags["TestBar::rows"][0])
}

func TestParse_DataTagsKeepMocKeywords(t *testing.T) {
	t.Parallel()

	src := `void T::a_data()
{
    QTest::newRow("private slots: x");
    QTest::newRow("emits signals: y");
    QTest::newRow("Q_OBJECT"); // QTEST_MAIN(Fake)
}
`
	doc := parse(t, src, "tst_t.cpp")
	assert.Empty(t, doc.MainClasses)

	v := testvisit.NewDataFunctionVisitor(doc)
	v.Walk()

	var names []string
	for _, tag := range v.DataTags()["T::a"] {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"private slots: x", "emits signals: y", "Q_OBJECT"}, names)
}

func TestParse_SlotSectionAcrossLines(t *testing.T) {
	t.Parallel()

	src := `class TestSplit : public QObject
{
    Q_OBJECT
private
    Q_SLOTS:
    void ok();
public:
    void notATest();
};
`
	snap := cppast.NewSnapshot(parse(t, src, "tst_split.h"))
	class := snap.FindClass("TestSplit")
	require.NotNil(t, class)

	v := testvisit.NewClassVisitor("TestSplit", snap)
	v.VisitClass(class)
	got := v.Functions()

	require.Len(t, got, 1)
	assert.Equal(t, model.TestLocation{File: "tst_split.h", Line: 6, Column: 9, Kind: model.Function}, got["ok"])
}

func TestParse_QExecThroughAuto(t *testing.T) {
	t.Parallel()

	main := parse(t, mainSource, "main.cpp")
	snap := cppast.NewSnapshot(parse(t, header, "tst_foo.h"), main)

	v := testvisit.NewCallVisitor(main, snap)
	v.Walk()
	name, ok := v.ClassName()
	assert.True(t, ok)
	assert.Equal(t, "ns::TestFoo", name)
}

func TestParse_QExecAddressOfLocal(t *testing.T) {
	t.Parallel()

	src := `int main(int argc, char *argv[])
{
    TestFoo tc;
    return QTest::qExec(&tc, argc, argv);
}
`
	main := parse(t, src, "main.cpp")
	v := testvisit.NewCallVisitor(main, cppast.NewSnapshot(main))
	v.Walk()
	name, ok := v.ClassName()
	assert.True(t, ok)
	assert.Equal(t, "TestFoo", name)
}

func TestParse_StructDefaultsAndParameters(t *testing.T) {
	t.Parallel()

	doc := parse(t, `struct S {
    void f(void);
    void g(int, char *p = nullptr);
};
using namespace QTest;
`, "s.h")

	f := symbol(doc, "f")
	require.NotNil(t, f)
	assert.Equal(t, cppast.Public, f.Visibility)
	assert.Equal(t, 0, f.Params)

	g := symbol(doc, "g")
	require.NotNil(t, g)
	assert.Equal(t, 2, g.Params)

	var using *cppast.UsingDirective
	cppast.Inspect(doc.Root, func(n cppast.Node) bool {
		if u, ok := n.(*cppast.UsingDirective); ok {
			using = u
		}
		return true
	})
	require.NotNil(t, using)
	assert.Equal(t, "QTest", cppast.PrettyName(using.Name))
	assert.Equal(t, cppast.Pos{Line: 5, Column: 1}, using.Start)
}

func TestParse_FileTooLarge(t *testing.T) {
	t.Parallel()

	_, err := Parse(context.Background(), []byte(strings.Repeat("x", 64)), "big.cpp", WithMaxFileSize(16))
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Parse(context.Background(), []byte(strings.Repeat("int a;\n", 8)), "ok.cpp", WithMaxFileSize(0))
	require.NoError(t, err)
}

func TestParse_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte(header), "tst_foo.h")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	a := parse(t, source, "tst_foo.cpp")
	b := parse(t, source, "tst_foo.cpp")

	names := func(d *cppast.Document) []string {
		var out []string
		for _, s := range d.Symbols {
			out = append(out, cppast.FullyQualifiedName(s))
		}
		return out
	}
	assert.Equal(t, names(a), names(b))
}

func TestDecodeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind, raw, want string
	}{
		{"string_literal", `"plain"`, "plain"},
		{"string_literal", `"a\tb"`, "a\tb"},
		{"string_literal", `u8"utf"`, "utf"},
		{"string_literal", `L"wide"`, "wide"},
		{"string_literal", `"what\?"`, `what\?`},
		{"raw_string_literal", `R"(raw\n)"`, `raw\n`},
		{"raw_string_literal", `R"xy(a)b)xy"`, "a)b"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decodeString(tt.kind, tt.raw))
		})
	}
}
