package filter

import (
	"strings"
	"unicode"
)

// Span is a half-open rune range [Start, End) within a title.
type Span struct {
	Start int
	End   int
}

// Segment is a piece of a title, marked when it matches the query.
type Segment struct {
	Text  string
	Match bool
}

// Highlight returns the non-overlapping, case-insensitive occurrences of
// query in title as rune spans. A blank query matches nothing.
func Highlight(title, query string) []Span {
	q := []rune(strings.TrimSpace(query))
	if len(q) == 0 {
		return nil
	}
	t := []rune(title)

	var spans []Span
	for i := 0; i+len(q) <= len(t); {
		if foldEqual(t[i:i+len(q)], q) {
			spans = append(spans, Span{Start: i, End: i + len(q)})
			i += len(q)
			continue
		}
		i++
	}
	return spans
}

func foldEqual(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// Segments splits title into alternating plain and matching pieces.
func Segments(title, query string) []Segment {
	spans := Highlight(title, query)
	if len(spans) == 0 {
		return []Segment{{Text: title}}
	}

	runes := []rune(title)
	var segs []Segment
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			segs = append(segs, Segment{Text: string(runes[pos:s.Start])})
		}
		segs = append(segs, Segment{Text: string(runes[s.Start:s.End]), Match: true})
		pos = s.End
	}
	if pos < len(runes) {
		segs = append(segs, Segment{Text: string(runes[pos:])})
	}
	return segs
}
