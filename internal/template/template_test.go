package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_Spans(t *testing.T) {
	tmpl := Compile("echo {{$.a}} and {{ $.b }}")

	assert.Equal(t, "echo {{$.a}} and {{ $.b }}", tmpl.Source())
	assert.Equal(t, []Span{{Start: 5, End: 12}, {Start: 17, End: 26}}, tmpl.Placeholders())
}

func TestCompile_NonGreedy(t *testing.T) {
	tmpl := Compile("{{$.a}}}}{{$.b}}")

	assert.Equal(t, []Span{{Start: 0, End: 7}, {Start: 9, End: 16}}, tmpl.Placeholders())
}

func TestEvaluate_NoPlaceholdersIsIdentity(t *testing.T) {
	bodies := []string{``, `{}`, `{"a":1}`, `not json`, `[1,2,3]`}
	src := "echo 'hello world' | tr a-z A-Z"

	tmpl := Compile(src)
	for _, body := range bodies {
		assert.Equal(t, src, tmpl.Evaluate(ParseDocument([]byte(body))), "body %q", body)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		body string
		want string
	}{
		{"number", "echo {{$.a}}", `{"a": 5}`, "echo 5"},
		{"string unquoted", "echo {{$.name}}", `{"name": "multihook"}`, "echo multihook"},
		{"boolean", "test {{$.ok}} = true", `{"ok": true}`, "test true = true"},
		{"null", "echo [{{$.n}}]", `{"n": null}`, "echo []"},
		{"array joined", "{{$.a}}", `{"a":[1,2]}`, "1\n2"},
		{"object lines", "{{$.o}}", `{"o":{"x":1,"y":2}}`, "x = 1\ny = 2"},
		{"object keeps source order", "{{$.o}}", `{"o":{"y":2,"x":1}}`, "y = 2\nx = 1"},
		{"nested object", "{{$.o}}", `{"o":{"k":{"a":true}}}`, "k = a = true"},
		{"missing key", "echo {{$.missing}}!", `{"a":1}`, "echo !"},
		{"malformed query", "echo {{a.b}}!", `{"a":{"b":1}}`, "echo !"},
		{"malformed body", "echo {{$.a}}!", `{"a":`, "echo !"},
		{"literal text kept", "a{{$.x}}b{{$.y}}c", `{"x":"1","y":"2"}`, "a1b2c"},
		{"multiple matches", "{{$.items[*].id}}", `{"items":[{"id":1},{"id":2}]}`, "1\n2"},
		{"number literal text", "{{$.f}}", `{"f":1.50}`, "1.50"},
		{"no shell escaping", "echo {{$.msg}}", `{"msg":"hi; rm -rf /tmp/x"}`, "echo hi; rm -rf /tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(tt.src).Evaluate(ParseDocument([]byte(tt.body)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDocument_Valid(t *testing.T) {
	assert.True(t, ParseDocument([]byte(`{"a":1}`)).Valid())
	assert.True(t, ParseDocument([]byte(`null`)).Valid())
	assert.False(t, ParseDocument([]byte(`{"a":`)).Valid())
	assert.False(t, ParseDocument(nil).Valid())
}
