package nav

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionAt converts a byte offset in text to a Position.
func PositionAt(text string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{
		Line:   strings.Count(before, "\n") + 1,
		Column: utf8.RuneCountInString(before[lineStart:]) + 1,
	}
}

// OffsetAt converts a Position to a byte offset in text. Columns past the
// end of a line clamp to the line end.
func OffsetAt(text string, pos Position) (int, error) {
	if pos.Line < 1 || pos.Column < 1 {
		return 0, fmt.Errorf("invalid position %d:%d", pos.Line, pos.Column)
	}
	offset := 0
	for line := 1; line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return 0, fmt.Errorf("line %d is past the end of the document", pos.Line)
		}
		offset += next + 1
	}
	for col := 1; col < pos.Column && offset < len(text) && text[offset] != '\n'; col++ {
		_, size := utf8.DecodeRuneInString(text[offset:])
		offset += size
	}
	return offset, nil
}
