// Package template compiles command strings containing {{query}} placeholders
// and evaluates them against a JSON request body.
//
// Each placeholder holds a JSON path query (for example {{$.repository.name}}).
// Evaluation replaces the placeholder with the serialized query result and
// keeps all text outside placeholders verbatim. A query that does not parse or
// matches nothing becomes the empty string; evaluation never fails.
//
// Security caveat: substituted values are NOT shell-escaped. The evaluated
// string is handed to `sh -c` as is, so a request body carrying shell
// metacharacters can inject commands whenever the endpoint is reachable by
// untrusted senders. Protect such endpoints with a secret, and quote or
// validate interpolated values inside the invoked script.
package template

import (
	"regexp"
	"strings"

	"github.com/xdg/multihook/internal/mlog"
)

// placeholderPattern matches {{...}} non-greedily: the first }} closes the placeholder.
var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Span is the byte range of one placeholder, braces included.
type Span struct {
	Start int
	End   int
}

// Template is a compiled command string. It is immutable and safe for
// concurrent use.
type Template struct {
	src   string
	spans []Span
}

// Compile scans src for placeholders. Query text is not validated here.
func Compile(src string) *Template {
	locs := placeholderPattern.FindAllStringIndex(src, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return &Template{src: src, spans: spans}
}

// Source returns the uncompiled command string.
func (t *Template) Source() string {
	return t.src
}

// Placeholders returns the placeholder spans in source order.
func (t *Template) Placeholders() []Span {
	out := make([]Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Evaluate substitutes every placeholder with the result of its query
// against doc.
func (t *Template) Evaluate(doc Document) string {
	if len(t.spans) == 0 {
		return t.src
	}

	var b strings.Builder
	b.Grow(len(t.src))

	last := 0
	for _, span := range t.spans {
		b.WriteString(t.src[last:span.Start])

		query := t.src[span.Start+2 : span.End-2]
		value, err := Query(query, doc)
		if err != nil {
			mlog.Debug("template: query %q ignored: %v", query, err)
		}
		b.WriteString(value)

		last = span.End
	}
	b.WriteString(t.src[last:])

	return b.String()
}
