// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/phobologic/testscan/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a TestIndex into TOON format. Functions are listed per case
// in source order; data tags are grouped by function name.
func Encode(idx *model.TestIndex) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(idx.Root)))

	var caseRows [][]string
	for i := range idx.Cases {
		tc := &idx.Cases[i]
		caseRows = append(caseRows, append([]string{tc.Name, string(tc.Framework)}, position(tc.Location)...))
	}
	parts = append(parts, formatTabular("cases", []string{"name", "framework", "file", "line", "column"}, caseRows))

	var fnRows [][]string
	for i := range idx.Cases {
		tc := &idx.Cases[i]
		for _, name := range SortedFunctions(tc.Functions) {
			loc := tc.Functions[name]
			fnRows = append(fnRows, append([]string{tc.Name, name, string(loc.Kind)}, position(loc)...))
		}
	}
	parts = append(parts, formatTabular("functions", []string{"case", "name", "kind", "file", "line", "column"}, fnRows))

	var tagRows [][]string
	for i := range idx.Cases {
		tc := &idx.Cases[i]
		fns := make([]string, 0, len(tc.DataTags))
		for fn := range tc.DataTags {
			fns = append(fns, fn)
		}
		sort.Strings(fns)
		for _, fn := range fns {
			for _, tag := range tc.DataTags[fn] {
				tagRows = append(tagRows, append([]string{tc.Name, fn, tag.Name}, position(tag)...))
			}
		}
	}
	if len(tagRows) > 0 {
		parts = append(parts, formatTabular("datatags", []string{"case", "function", "tag", "file", "line", "column"}, tagRows))
	}

	return strings.Join(parts, "\n")
}

// SortedFunctions returns the keys of fns ordered by location, then name.
func SortedFunctions(fns model.NameClassIndex) []string {
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := fns[names[i]], fns[names[j]]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return names[i] < names[j]
	})
	return names
}

func position(loc model.TestLocation) []string {
	return []string{loc.File, strconv.Itoa(loc.Line), strconv.Itoa(loc.Column)}
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
