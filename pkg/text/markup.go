// Package text implements the engine's text output capability. Payloads are
// plain strings carrying lightweight inline markup:
//
//	<b>bold</b>  <u>underline</u>  <i>italic</i>
//
// Tags are case-insensitive and may nest. Anything else that looks like a tag
// is kept as literal text.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Span is a run of text sharing the same style attributes.
type Span struct {
	Text      string
	Bold      bool
	Underline bool
	Italic    bool
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Underline == o.Underline && s.Italic == o.Italic
}

// Plain reports whether the span carries no style.
func (s Span) Plain() bool {
	return !s.Bold && !s.Underline && !s.Italic
}

type attr int

const (
	attrBold attr = iota
	attrUnderline
	attrItalic
	attrCount
)

// Parse splits markup into styled spans. Unclosed tags extend to the end of
// the input and unmatched closing tags are dropped.
func Parse(markup string) []Span {
	var (
		spans []Span
		sb    strings.Builder
		depth [attrCount]int
	)

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		span := Span{
			Text:      sb.String(),
			Bold:      depth[attrBold] > 0,
			Underline: depth[attrUnderline] > 0,
			Italic:    depth[attrItalic] > 0,
		}
		sb.Reset()

		if n := len(spans); n > 0 && spans[n-1].sameStyle(span) {
			spans[n-1].Text += span.Text
			return
		}
		spans = append(spans, span)
	}

	for i := 0; i < len(markup); {
		if markup[i] == '<' {
			if a, closing, n, ok := matchTag(markup[i:]); ok {
				flush()
				switch {
				case !closing:
					depth[a]++
				case depth[a] > 0:
					depth[a]--
				}
				i += n
				continue
			}
		}
		sb.WriteByte(markup[i])
		i++
	}
	flush()

	return spans
}

// matchTag recognises <b>, </b>, <u>, </u>, <i>, </i> at the start of s.
func matchTag(s string) (a attr, closing bool, n int, ok bool) {
	i := 1
	if i < len(s) && s[i] == '/' {
		closing = true
		i++
	}
	if i+1 >= len(s) || s[i+1] != '>' {
		return 0, false, 0, false
	}

	switch s[i] {
	case 'b', 'B':
		a = attrBold
	case 'u', 'U':
		a = attrUnderline
	case 'i', 'I':
		a = attrItalic
	default:
		return 0, false, 0, false
	}

	return a, closing, i + 2, true
}

// Strip returns markup with all recognised tags removed.
func Strip(markup string) string {
	var sb strings.Builder
	for _, s := range Parse(markup) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Width returns the display width of the widest line of the stripped text.
func Width(markup string) int {
	w := 0
	for _, line := range strings.Split(Strip(markup), "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}
