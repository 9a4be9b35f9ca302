// Package normalize implements the fixed/free source-format auto-detection
// and per-line normalization described in §4.2: it turns one logical line of
// bytes into a character buffer of identical length, ready for the lexer.
package normalize

import (
	"bytes"

	"github.com/coboltools/frontend/internal/config"
)

// col returns the byte at 1-based column n of line, or ' ' if the line is
// shorter than n (columns past the end of a short line read as blank).
func col(line []byte, n int) byte {
	if n-1 < 0 || n-1 >= len(line) {
		return ' '
	}
	return line[n-1]
}

func hasVisibleContent(line []byte, from, to int) bool {
	for c := from; c <= to; c++ {
		if col(line, c) != ' ' {
			return true
		}
	}
	return false
}

// Detect implements §4.2's auto-detection rule against one candidate line.
// The second return value reports whether the line was decisive; a blank
// line is never decisive and callers should keep scanning subsequent lines,
// treating the format as Fixed in the meantime (§9's open question: a file
// that begins with blank lines keeps the decision pending).
func Detect(line []byte) (config.SourceFormat, bool) {
	if !hasVisibleContent(line, 1, len(line)) {
		return config.Auto, false
	}

	head := line
	if len(head) > 7 {
		head = head[:7]
	}
	trimmed := bytes.TrimLeft(head, " \t")
	if bytes.HasPrefix(trimmed, []byte("*>")) || bytes.HasPrefix(trimmed, []byte(">>")) {
		return config.Free, true
	}

	col7 := col(line, 7)
	fixedIndicator := col7 == '*' || col7 == '-' || col7 == '/' || col7 == ' '
	if hasVisibleContent(line, 1, 6) || fixedIndicator || (col(line, 8) == '>' && col(line, 9) == '>') {
		return config.Fixed, true
	}

	return config.Auto, false
}

// Normalize applies the fixed- or free-format transformation rules to one
// logical line and returns a buffer of the same length. format must already
// be resolved (Fixed or Free); callers hold Auto at Fixed behavior (§4.2)
// until Detect decides.
func Normalize(line []byte, format config.SourceFormat, columnLength int) []byte {
	buf := make([]byte, len(line))
	copy(buf, line)

	if format == config.Free {
		truncateAtInlineComment(buf)
		return buf
	}

	blankRange(buf, 1, 6)

	if col(buf, 7) == '*' {
		blankRange(buf, 1, len(buf))
		return buf
	}

	if columnLength > 0 && len(buf) > columnLength {
		blankRange(buf, columnLength+1, len(buf))
	}

	truncateAtInlineComment(buf)

	blankRange(buf, 1, 1)

	return buf
}

// blankRange overwrites 1-based columns [from, to] of buf with spaces,
// clamped to buf's bounds.
func blankRange(buf []byte, from, to int) {
	if from < 1 {
		from = 1
	}
	if to > len(buf) {
		to = len(buf)
	}
	for c := from; c <= to; c++ {
		buf[c-1] = ' '
	}
}

// truncateAtInlineComment blanks from the first "*>" to the end of buf.
func truncateAtInlineComment(buf []byte) {
	if idx := bytes.Index(buf, []byte("*>")); idx >= 0 {
		for i := idx; i < len(buf); i++ {
			buf[i] = ' '
		}
	}
}
