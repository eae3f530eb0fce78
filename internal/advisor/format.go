package advisor

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
)

// FormatMarkdown renders the subset of Markdown the advisor emits
// (bold, italics, line breaks) into safe HTML. The input is escaped
// first, so model output can never inject markup.
//
// It is a pure function of the full text: callers re-render the whole
// accumulated response on every chunk, so markers split across chunk
// boundaries resolve once their closing half arrives.
func FormatMarkdown(raw string) template.HTML {
	s := template.HTMLEscapeString(raw)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicPattern.ReplaceAllString(s, "<em>$1</em>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return template.HTML(s)
}
