// Package model defines core data structures for testscan.
package model

// Kind is the semantic kind of a discovered test symbol.
type Kind string

const (
	Class           Kind = "class"
	Function        Kind = "function"
	SpecialFunction Kind = "special_function"
	DataFunction    Kind = "data_function"
	DataTag         Kind = "data_tag"
)

// Framework identifies which test framework a test case belongs to.
type Framework string

const (
	QTest Framework = "qtest"
	Quick Framework = "quick"
)

// TestLocation is a single discovered symbol. Line is 1-based, Column is 0-based.
// Name is only set for DataTag locations and holds the literal tag.
type TestLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   Kind   `json:"kind"`
	Name   string `json:"name,omitempty"`
}

// Valid reports whether the location points somewhere real.
func (l TestLocation) Valid() bool {
	return l.File != "" && l.Line >= 1
}

// NameClassIndex maps a method name to its location.
type NameClassIndex map[string]TestLocation

// DataTagIndex maps a data function base name (suffix stripped) to its tags
// in source order.
type DataTagIndex map[string][]TestLocation

// DeclarativeTestIndex is the result of visiting one Quick TestCase object.
type DeclarativeTestIndex struct {
	Name      string
	Location  TestLocation
	Functions NameClassIndex
}

// TestCase is one test class or Quick test case merged into the project index.
type TestCase struct {
	Name      string         `json:"name"`
	Framework Framework      `json:"framework"`
	Location  TestLocation   `json:"location"`
	Functions NameClassIndex `json:"functions"`
	DataTags  DataTagIndex   `json:"data_tags,omitempty"`
}

// TestIndex is the complete discovered index for a project.
type TestIndex struct {
	Root  string     `json:"root"`
	Cases []TestCase `json:"cases"`
}
