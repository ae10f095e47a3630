// Package method locates Ruby method definitions inside controller source.
//
// FindEnclosing and FindDefinition are line-oriented heuristics, not a
// parser. They look at `def` and bare `end` lines and compare indentation.
// Supported lists what the heuristic handles; everything reported false
// there can produce a wrong answer instead of an error.
package method

import (
	"regexp"
	"strings"
)

// Capabilities describes which Ruby constructs the boundary heuristic
// understands.
type Capabilities struct {
	// NestedBlockEnds: an `end` closing an if/case/do block at or left of
	// the def's indentation is treated as the end of the method.
	NestedBlockEnds bool
	// OneLineMethods: `def show; end` and endless defs are not recognised
	// as closed.
	OneLineMethods bool
	// Heredocs: a heredoc line reading `def x` or `end` is taken literally.
	Heredocs bool
	// Metaprogramming: define_method and friends are invisible.
	Metaprogramming bool
}

// Supported is the capability set of FindEnclosing.
var Supported = Capabilities{}

var (
	defPattern  = regexp.MustCompile(`^([ \t]*)def[ \t]+(\w+)`)
	endPattern  = regexp.MustCompile(`^([ \t]*)end[ \t\r]*$`)
	namePattern = regexp.MustCompile(`^\w+$`)
)

type definition struct {
	name   string
	line   int
	indent int
}

// FindEnclosing returns the name of the method whose body contains the byte
// offset in text. It picks the closest `def` keyword before the cursor and
// reports no method when a bare `end` line indented no deeper than that def
// appears between the def and the cursor.
func FindEnclosing(text string, offset int) (string, bool) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	lines := splitLines(text, offset)
	var def *definition
	for i, ln := range lines {
		m := defPattern.FindStringSubmatchIndex(ln.full)
		if m == nil {
			continue
		}
		// The def keyword must start strictly before the cursor; the name
		// is always read in full from the line.
		if ln.start+m[3] >= offset {
			continue
		}
		def = &definition{name: ln.full[m[4]:m[5]], line: i, indent: m[3] - m[2]}
	}
	if def == nil {
		return "", false
	}

	for _, ln := range lines[def.line+1:] {
		visible := ln.full
		if ln.start+len(visible) > offset {
			visible = visible[:offset-ln.start]
		}
		m := endPattern.FindStringSubmatchIndex(visible)
		if m == nil {
			continue
		}
		if m[3]-m[2] <= def.indent {
			return "", false
		}
	}
	return def.name, true
}

// FindDefinition returns the byte offset of the name in the first
// `def <action>` line of text. A cursor placed there resolves back to
// action through FindEnclosing.
func FindDefinition(text, action string) (int, bool) {
	if !namePattern.MatchString(action) {
		return 0, false
	}
	re := regexp.MustCompile(`(?m)^[ \t]*def[ \t]+(` + regexp.QuoteMeta(action) + `)\b`)
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, false
	}
	return loc[2], true
}

type line struct {
	start int
	full  string
}

// splitLines returns every line that starts at or before limit.
func splitLines(text string, limit int) []line {
	out := make([]line, 0, strings.Count(text[:limit], "\n")+1)
	start := 0
	for start <= limit {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			out = append(out, line{start: start, full: text[start:]})
			break
		}
		out = append(out, line{start: start, full: text[start : start+end]})
		start += end + 1
	}
	return out
}
