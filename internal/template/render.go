package template

import (
	"strings"

	"github.com/tidwall/gjson"
)

// render serializes a JSON value for substitution into a command:
//   - null renders as ""
//   - booleans render as true/false; numbers keep their source text, so
//     1e3 stays 1e3
//   - strings render unquoted
//   - arrays render each element, joined by newlines
//   - objects render "key = value" lines in document order
func render(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.False:
		return "false"
	case gjson.True:
		return "true"
	case gjson.Number:
		return v.Raw
	case gjson.String:
		return v.Str
	}

	var lines []string
	switch {
	case v.IsArray():
		v.ForEach(func(_, elem gjson.Result) bool {
			lines = append(lines, render(elem))
			return true
		})
	case v.IsObject():
		v.ForEach(func(key, elem gjson.Result) bool {
			lines = append(lines, key.Str+" = "+render(elem))
			return true
		})
	}
	return strings.Join(lines, "\n")
}
