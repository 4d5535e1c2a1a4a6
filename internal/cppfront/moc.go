package cppfront

import (
	"bytes"
	"regexp"
	"sort"
)

var (
	// slotsRe matches the moc slot keyword of an access section. The second
	// group keeps `slots::x` from matching.
	slotsRe   = regexp.MustCompile(`\b(?:Q_SLOTS|slots)(\s*:)([^:]|$)`)
	signalsRe = regexp.MustCompile(`\b(?:Q_SIGNALS|signals)(\s*:)([^:]|$)`)
	markerRe  = regexp.MustCompile(`\bQ_(?:OBJECT|GADGET|INVOKABLE|DECL_OVERRIDE|DECL_FINAL)\b`)
	mainRe    = regexp.MustCompile(`\bQTEST_(?:APPLESS_|GUILESS_)?MAIN\s*\(\s*([A-Za-z_][\w:]*)\s*\)`)
)

// mocResult is source with Qt's moc keywords blanked out. Byte offsets, and
// so every row and column, match the input.
type mocResult struct {
	source []byte
	// slotAccess holds the start offsets of access keywords that open a slot
	// section, e.g. `private` in `private Q_SLOTS:`.
	slotAccess  map[uint32]bool
	mainClasses []string
}

// neutralize rewrites moc keywords the C++ grammar does not know:
//
//	private slots:   ->  private      :   (section remembered as slots)
//	signals:         ->  public :
//	Q_OBJECT         ->  (blank)
//	QTEST_MAIN(Foo)  ->  (blank, Foo recorded)
//
// Comments and string and character literals are left untouched.
func neutralize(src []byte) mocResult {
	out := make([]byte, len(src))
	copy(out, src)
	res := mocResult{source: out, slotAccess: make(map[uint32]bool)}
	skip := literalRanges(src)

	for _, m := range slotsRe.FindAllSubmatchIndex(src, -1) {
		if skip.contains(m[0]) {
			continue
		}
		blank(out, m[0], m[2])
		if at, ok := accessKeyword(src, m[0]); ok {
			res.slotAccess[uint32(at)] = true
		}
	}
	for _, m := range signalsRe.FindAllSubmatchIndex(src, -1) {
		if !skip.contains(m[0]) {
			replace(out, m[0], m[2], "public")
		}
	}
	for _, m := range markerRe.FindAllIndex(src, -1) {
		if !skip.contains(m[0]) {
			blank(out, m[0], m[1])
		}
	}
	for _, m := range mainRe.FindAllSubmatchIndex(src, -1) {
		if skip.contains(m[0]) {
			continue
		}
		res.mainClasses = append(res.mainClasses, string(src[m[2]:m[3]]))
		blank(out, m[0], m[1])
	}
	return res
}

// accessKeyword returns the offset of the public, private or protected
// keyword written before the slots keyword at pos, possibly on an earlier
// line.
func accessKeyword(src []byte, pos int) (int, bool) {
	end := pos
	for end > 0 && isSpace(src[end-1]) {
		end--
	}
	start := end
	for start > 0 && isIdentByte(src[start-1]) {
		start--
	}
	switch string(src[start:end]) {
	case "public", "private", "protected":
		return start, true
	}
	return 0, false
}

// spans is a sorted list of half-open byte ranges.
type spans [][2]int

func (s spans) contains(off int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i][1] > off })
	return i < len(s) && s[i][0] <= off
}

// literalRanges returns the ranges of comments and string and character
// literals in src, including raw strings. Unterminated tokens run to the end
// of their line, or of the input for block comments and raw strings.
func literalRanges(src []byte) spans {
	var out spans
	for i := 0; i < len(src); {
		start := i
		switch c := src[i]; {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			i = lineEnd(src, i)
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			if j := bytes.Index(src[i+2:], []byte("*/")); j >= 0 {
				i += 2 + j + 2
			} else {
				i = len(src)
			}
		case c == '"' && rawPrefix(src, i):
			i = rawStringEnd(src, i)
		case c == '"':
			i = quotedEnd(src, i, '"')
		case c == '\'' && !digitSeparator(src, i):
			i = quotedEnd(src, i, '\'')
		default:
			i++
			continue
		}
		out = append(out, [2]int{start, i})
	}
	return out
}

func lineEnd(src []byte, i int) int {
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(src)
}

// quotedEnd returns the offset just past the closing quote of the literal
// opened at i.
func quotedEnd(src []byte, i int, quote byte) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

// rawPrefix reports whether the quote at i opens a raw string: R", u8R",
// LR", uR" or UR".
func rawPrefix(src []byte, i int) bool {
	if i == 0 || src[i-1] != 'R' {
		return false
	}
	start := i - 1
	for start > 0 && isIdentByte(src[start-1]) {
		start--
	}
	switch string(src[start : i-1]) {
	case "", "u8", "u", "U", "L":
		return true
	}
	return false
}

// rawStringEnd returns the offset just past R"delim( ... )delim".
func rawStringEnd(src []byte, i int) int {
	open := bytes.IndexByte(src[i:], '(')
	if open < 0 {
		return lineEnd(src, i)
	}
	delim := src[i+1 : i+open]
	closing := append(append([]byte(")"), delim...), '"')
	if j := bytes.Index(src[i+open:], closing); j >= 0 {
		return i + open + j + len(closing)
	}
	return len(src)
}

// digitSeparator reports whether the quote at i sits inside a number such
// as 1'000'000.
func digitSeparator(src []byte, i int) bool {
	start := i
	for start > 0 && (isIdentByte(src[start-1]) || src[start-1] == '\'' || src[start-1] == '.') {
		start--
	}
	return start < i && src[start] >= '0' && src[start] <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// blank overwrites buf[start:end] with spaces, keeping line breaks.
func blank(buf []byte, start, end int) {
	for i := start; i < end; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}

// replace writes word at start and pads the rest of buf[start:end] with
// spaces. word must not be longer than the span.
func replace(buf []byte, start, end int, word string) {
	blank(buf, start, end)
	copy(buf[start:end], word)
}
