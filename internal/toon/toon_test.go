package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/testscan/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"qualified name", "ns::TestFoo", `"ns::TestFoo"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "tests/tst_foo.cpp", "tests/tst_foo.cpp"},
		{"data tag with spaces", "empty string", "empty string"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	idx := &model.TestIndex{
		Root: "proj",
		Cases: []model.TestCase{
			{
				Name:      "TestFoo",
				Framework: model.QTest,
				Location:  model.TestLocation{File: "tst_foo.h", Line: 3, Column: 6, Kind: model.Class},
				Functions: model.NameClassIndex{
					"compare":      {File: "tst_foo.cpp", Line: 20, Column: 14, Kind: model.Function},
					"compare_data": {File: "tst_foo.cpp", Line: 10, Column: 14, Kind: model.DataFunction},
					"initTestCase": {File: "tst_foo.h", Line: 7, Column: 9, Kind: model.SpecialFunction},
				},
				DataTags: model.DataTagIndex{
					"compare": {
						{File: "tst_foo.cpp", Line: 12, Column: 4, Kind: model.DataTag, Name: "zero"},
						{File: "tst_foo.cpp", Line: 13, Column: 4, Kind: model.DataTag, Name: "one, two"},
					},
				},
			},
			{
				Name:      "Suite1",
				Framework: model.Quick,
				Location:  model.TestLocation{File: "tst_suite.qml", Line: 3, Column: 0, Kind: model.Class},
				Functions: model.NameClassIndex{
					"test_a": {File: "tst_suite.qml", Line: 5, Column: 4, Kind: model.Function},
				},
			},
		},
	}

	got := Encode(idx)
	want := strings.Join([]string{
		"root: proj",
		"cases[2]{name,framework,file,line,column}:",
		"  TestFoo,qtest,tst_foo.h,3,6",
		"  Suite1,quick,tst_suite.qml,3,0",
		"functions[4]{case,name,kind,file,line,column}:",
		"  TestFoo,compare_data,data_function,tst_foo.cpp,10,14",
		"  TestFoo,compare,function,tst_foo.cpp,20,14",
		"  TestFoo,initTestCase,special_function,tst_foo.h,7,9",
		"  Suite1,test_a,function,tst_suite.qml,5,4",
		"datatags[2]{case,function,tag,file,line,column}:",
		"  TestFoo,compare,zero,tst_foo.cpp,12,4",
		`  TestFoo,compare,"one, two",tst_foo.cpp,13,4`,
	}, "\n")

	if got != want {
		t.Errorf("Encode mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.TestIndex{Root: "empty"})
	if !strings.Contains(got, "cases[0]{name,framework,file,line,column}:") {
		t.Errorf("expected empty cases section, got:\n%s", got)
	}
	if !strings.Contains(got, "functions[0]{case,name,kind,file,line,column}:") {
		t.Errorf("expected empty functions section, got:\n%s", got)
	}
	if strings.Contains(got, "datatags") {
		t.Errorf("datatags section should be omitted when empty, got:\n%s", got)
	}
}

func TestSortedFunctions(t *testing.T) {
	t.Parallel()

	fns := model.NameClassIndex{
		"b": {File: "a.cpp", Line: 2},
		"a": {File: "a.cpp", Line: 2},
		"c": {File: "a.cpp", Line: 1},
		"d": {File: "0.h", Line: 9},
	}
	got := strings.Join(SortedFunctions(fns), ",")
	if got != "d,c,a,b" {
		t.Errorf("SortedFunctions = %s, want d,c,a,b", got)
	}
}
