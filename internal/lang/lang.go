// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and their embedded query files.
package lang

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Language holds tree-sitter configuration for a supported language.
// A language without a grammar is recognised by extension only; its
// documents arrive already parsed.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error
}

// GetLanguage returns the tree-sitter Language pointer, or nil.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// HasGrammar reports whether files of this language can be parsed from source.
func (l *Language) HasGrammar() bool {
	return l.lang != nil
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetIncludeQuery returns the compiled include query (safe to share across goroutines).
func (l *Language) GetIncludeQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		if l.lang == nil {
			l.queryErr = fmt.Errorf("language %s has no grammar", l.Name)
			return
		}
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// Includes returns the paths named by #include directives under root, in
// source order, with quotes and angle brackets removed.
func Includes(query *sitter.Query, root *sitter.Node, source []byte) []string {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var out []string
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			if query.CaptureNameForId(c.Index) != "include.path" {
				continue
			}
			p := strings.Trim(NodeText(c.Node, source), "\"<> \t")
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// qtTestHeaders are the headers that pull in the QtTest framework.
var qtTestHeaders = map[string]bool{
	"QtTest":      true,
	"QTest":       true,
	"qtest.h":     true,
	"QtQuickTest": true,
}

// IsQtTestInclude reports whether an include path names a QtTest header,
// e.g. "QtTest", "QtTest/QtTest" or "qtest.h".
func IsQtTestInclude(include string) bool {
	return qtTestHeaders[path.Base(include)]
}

// IncludesQtTest reports whether any of includes names a QtTest header.
func IncludesQtTest(includes []string) bool {
	for _, inc := range includes {
		if IsQtTestInclude(inc) {
			return true
		}
	}
	return false
}
