package medical

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lower-cases text, expands whole-word medical abbreviations in
// lexicon order and collapses whitespace. Applying it twice yields the same
// result as applying it once.
func (l *Lexicon) Normalize(raw string) string {
	text := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if text == "" {
		return ""
	}

	for _, abbr := range l.Abbreviations {
		text = expandWord(text, abbr.Abbr, abbr.Expansion)
	}

	return strings.Join(strings.Fields(text), " ")
}

// expandWord replaces whole-word occurrences of word with expansion. An
// occurrence that already sits inside a copy of expansion is left alone so
// expansions that contain their own abbreviation are stable.
func expandWord(text, word, expansion string) string {
	if !strings.Contains(text, word) {
		return text
	}
	selfOffsets := wordOffsets(expansion, word)

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], word)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(word)

		if !isBoundary(text, start, end) || insideExpansion(text, start, expansion, selfOffsets) {
			b.WriteString(text[pos:end])
			pos = end
			continue
		}

		b.WriteString(text[pos:start])
		b.WriteString(expansion)
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// wordOffsets lists the byte offsets at which word appears as a whole word in s.
func wordOffsets(s, word string) []int {
	var offsets []int
	for pos := 0; pos < len(s); {
		idx := strings.Index(s[pos:], word)
		if idx < 0 {
			break
		}
		start := pos + idx
		if isBoundary(s, start, start+len(word)) {
			offsets = append(offsets, start)
		}
		pos = start + len(word)
	}
	return offsets
}

func insideExpansion(text string, start int, expansion string, offsets []int) bool {
	for _, off := range offsets {
		from := start - off
		if from < 0 || from+len(expansion) > len(text) {
			continue
		}
		if text[from:from+len(expansion)] == expansion {
			return true
		}
	}
	return false
}

func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '/' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
