package template

import "github.com/tidwall/gjson"

// Document is a parsed request body that queries run against.
// The zero value is the JSON null document.
type Document struct {
	root gjson.Result
}

// ParseDocument parses body as JSON. Malformed input yields the null
// document rather than an error, so every query against it matches nothing.
func ParseDocument(body []byte) Document {
	if !gjson.ValidBytes(body) {
		return Document{}
	}
	return Document{root: gjson.ParseBytes(body)}
}

// Valid reports whether the body parsed as JSON.
func (d Document) Valid() bool {
	return d.root.Exists()
}
