package scan

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/graph"
	"github.com/phobologic/testscan/internal/lang"
	"github.com/phobologic/testscan/internal/model"
	"github.com/phobologic/testscan/internal/qmlast"
	"github.com/phobologic/testscan/internal/testvisit"
)

// testDocuments returns the documents that may start a QtTest run: those
// reaching a QtTest header through their includes, and those naming a class
// in a QTEST_MAIN-style macro.
func testDocuments(snap *cppast.Snapshot, includes *graph.Graph) []*cppast.Document {
	var out []*cppast.Document
	for _, d := range snap.Documents() {
		if len(d.MainClasses) > 0 || includes.Reaches(d.FileName, lang.IncludesQtTest) {
			out = append(out, d)
		}
	}
	return out
}

// casesFor resolves the class doc hands to QTest::qExec, falling back to its
// main-macro classes, and builds one test case per resolved class.
func (s *Scanner) casesFor(snap *cppast.Snapshot, doc *cppast.Document) []model.TestCase {
	calls := testvisit.NewCallVisitor(doc, snap)
	calls.Walk()

	names := doc.MainClasses
	if name, ok := calls.ClassName(); ok {
		names = []string{name}
	}

	var cases []model.TestCase
	for _, name := range names {
		class := snap.FindClass(name)
		if class == nil {
			s.logger.Debug("test class not found",
				slog.String("file", doc.FileName),
				slog.String("class", name))
			continue
		}
		cases = append(cases, testCase(snap, doc, class))
	}
	return cases
}

func testCase(snap *cppast.Snapshot, doc *cppast.Document, class *cppast.Symbol) model.TestCase {
	fqn := cppast.FullyQualifiedName(class)

	members := testvisit.NewClassVisitor(fqn, snap)
	members.VisitClass(class)

	tc := model.TestCase{
		Name:      fqn,
		Framework: model.QTest,
		Location: model.TestLocation{
			File:   class.File,
			Line:   class.Line,
			Column: class.Column - 1,
			Kind:   model.Class,
		},
		Functions: members.Functions(),
	}

	// Data rows live wherever the _data functions are defined: usually the
	// file holding the test functions, sometimes the file calling qExec.
	files := map[string]bool{doc.FileName: true}
	for _, loc := range tc.Functions {
		files[loc.File] = true
	}
	var ordered []string
	for f := range files {
		ordered = append(ordered, f)
	}
	sort.Strings(ordered)

	prefixes := []string{fqn + "::", class.Name + "::"}
	for _, file := range ordered {
		d := snap.Document(file)
		if d == nil {
			continue
		}
		rows := testvisit.NewDataFunctionVisitor(d)
		rows.Walk()
		for key, tags := range rows.DataTags() {
			base := key
			for _, p := range prefixes {
				base = strings.TrimPrefix(base, p)
			}
			if strings.Contains(base, "::") {
				// another class's data function
				continue
			}
			if _, ok := tc.Functions[base+testvisit.DataSuffix]; !ok {
				continue
			}
			if tc.DataTags == nil {
				tc.DataTags = make(model.DataTagIndex)
			}
			tc.DataTags[base] = append(tc.DataTags[base], tags...)
		}
	}
	return tc
}

// QuickCases returns one test case per TestCase object in doc, including
// nested ones, in document order.
func QuickCases(doc *qmlast.Document) []model.TestCase {
	if doc.Root == nil {
		return nil
	}
	var cases []model.TestCase
	qmlast.Inspect(doc.Root, func(n qmlast.Node) bool {
		obj, ok := n.(*qmlast.UiObjectDefinition)
		if !ok || !testvisit.IsTestCase(obj) {
			return true
		}
		v := testvisit.NewQuickTestVisitor(doc)
		v.VisitTestCase(obj)
		idx := v.Index()
		cases = append(cases, model.TestCase{
			Name:      idx.Name,
			Framework: model.Quick,
			Location:  idx.Location,
			Functions: idx.Functions,
		})
		return true
	})
	return cases
}

func sortCases(cases []model.TestCase) {
	sort.SliceStable(cases, func(i, j int) bool {
		a, b := cases[i].Location, cases[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return cases[i].Name < cases[j].Name
	})
}
