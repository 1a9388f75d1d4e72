package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidQuery is wrapped by every query parse failure.
var ErrInvalidQuery = errors.New("invalid query")

// Query runs a JSON path query against doc and serializes the matches,
// joined by newlines. A query that matches nothing returns "" and a nil error.
//
// Supported syntax: $ (root), .name, ['name'], .* and [*], [n] with negative
// indexes counting from the end, unions such as [0,2] or ['a','b'], slices
// [start:end:step], and recursive descent (..name, ..*, ..[n]). Filter and
// script expressions are rejected.
func Query(query string, doc Document) (string, error) {
	segments, err := parseQuery(query)
	if err != nil {
		return "", err
	}

	matches := selectAll(segments, doc.root)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, render(m))
	}
	return strings.Join(parts, "\n"), nil
}

type segmentKind int

const (
	segmentChild segmentKind = iota
	segmentIndex
	segmentWildcard
	segmentSlice
)

type segment struct {
	kind      segmentKind
	recursive bool
	names     []string
	indices   []int
	start     *int
	end       *int
	step      int
}

func queryError(query, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidQuery, query, fmt.Sprintf(format, args...))
}

type queryParser struct {
	query string
	s     string
	pos   int
}

func parseQuery(query string) ([]segment, error) {
	s := strings.TrimSpace(query)
	if !strings.HasPrefix(s, "$") {
		return nil, queryError(query, "must start with $")
	}

	p := &queryParser{query: query, s: s, pos: 1}
	var segments []segment
	for p.pos < len(p.s) {
		seg, err := p.next()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (p *queryParser) next() (segment, error) {
	rest := p.s[p.pos:]
	switch {
	case strings.HasPrefix(rest, ".."):
		p.pos += 2
		var seg segment
		var err error
		if p.pos < len(p.s) && p.s[p.pos] == '[' {
			seg, err = p.bracket()
		} else {
			seg, err = p.dotted()
		}
		seg.recursive = true
		return seg, err
	case rest[0] == '.':
		p.pos++
		return p.dotted()
	case rest[0] == '[':
		return p.bracket()
	default:
		return segment{}, queryError(p.query, "unexpected %q at offset %d", rest[0], p.pos)
	}
}

func (p *queryParser) dotted() (segment, error) {
	if p.pos < len(p.s) && p.s[p.pos] == '*' {
		p.pos++
		return segment{kind: segmentWildcard}, nil
	}

	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '.' && p.s[p.pos] != '[' {
		p.pos++
	}
	if start == p.pos {
		return segment{}, queryError(p.query, "empty member name at offset %d", start)
	}
	return segment{kind: segmentChild, names: []string{p.s[start:p.pos]}}, nil
}

func (p *queryParser) bracket() (segment, error) {
	end, err := p.closingBracket()
	if err != nil {
		return segment{}, err
	}
	inner := strings.TrimSpace(p.s[p.pos+1 : end])
	p.pos = end + 1

	switch {
	case inner == "":
		return segment{}, queryError(p.query, "empty brackets")
	case inner == "*":
		return segment{kind: segmentWildcard}, nil
	case inner[0] == '?' || inner[0] == '(':
		return segment{}, queryError(p.query, "expressions are not supported")
	case inner[0] != '\'' && inner[0] != '"' && strings.Contains(inner, ":"):
		return p.slice(inner)
	}

	parts, err := splitUnion(inner)
	if err != nil {
		return segment{}, queryError(p.query, "%v", err)
	}

	if parts[0][0] == '\'' || parts[0][0] == '"' {
		names := make([]string, 0, len(parts))
		for _, part := range parts {
			name, err := unquote(part)
			if err != nil {
				return segment{}, queryError(p.query, "%v", err)
			}
			names = append(names, name)
		}
		return segment{kind: segmentChild, names: names}, nil
	}

	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return segment{}, queryError(p.query, "invalid index %q", part)
		}
		indices = append(indices, n)
	}
	return segment{kind: segmentIndex, indices: indices}, nil
}

// closingBracket returns the offset of the ] matching the [ at p.pos,
// skipping brackets inside quoted names.
func (p *queryParser) closingBracket() (int, error) {
	var quote byte
	for i := p.pos + 1; i < len(p.s); i++ {
		c := p.s[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case quote == 0 && c == ']':
			return i, nil
		}
	}
	return 0, queryError(p.query, "unterminated bracket at offset %d", p.pos)
}

func (p *queryParser) slice(inner string) (segment, error) {
	fields := strings.Split(inner, ":")
	if len(fields) > 3 {
		return segment{}, queryError(p.query, "invalid slice %q", inner)
	}

	seg := segment{kind: segmentSlice, step: 1}
	bound := func(field string) (*int, error) {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, queryError(p.query, "invalid slice bound %q", field)
		}
		return &n, nil
	}

	var err error
	if seg.start, err = bound(fields[0]); err != nil {
		return segment{}, err
	}
	if seg.end, err = bound(fields[1]); err != nil {
		return segment{}, err
	}
	if len(fields) == 3 {
		step, err := bound(fields[2])
		if err != nil {
			return segment{}, err
		}
		if step != nil {
			if *step <= 0 {
				return segment{}, queryError(p.query, "slice step must be positive")
			}
			seg.step = *step
		}
	}
	return seg, nil
}

// splitUnion splits a bracket body on commas outside quotes.
func splitUnion(inner string) ([]string, error) {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case quote == 0 && c == ',':
			parts = append(parts, strings.TrimSpace(inner[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, strings.TrimSpace(inner[start:]))

	for _, part := range parts {
		if part == "" {
			return nil, errors.New("empty union member")
		}
	}
	return parts, nil
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != s[len(s)-1] || (s[0] != '\'' && s[0] != '"') {
		return "", fmt.Errorf("malformed quoted name %s", s)
	}

	body := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}

func selectAll(segments []segment, root gjson.Result) []gjson.Result {
	nodes := []gjson.Result{root}
	for _, seg := range segments {
		var next []gjson.Result
		for _, node := range nodes {
			if seg.recursive {
				for _, d := range descendants(node, nil) {
					next = seg.apply(d, next)
				}
				continue
			}
			next = seg.apply(node, next)
		}
		nodes = next
	}
	return nodes
}

// descendants appends node and everything below it in document order.
func descendants(node gjson.Result, out []gjson.Result) []gjson.Result {
	out = append(out, node)
	if node.IsObject() || node.IsArray() {
		node.ForEach(func(_, child gjson.Result) bool {
			out = descendants(child, out)
			return true
		})
	}
	return out
}

func (seg segment) apply(node gjson.Result, out []gjson.Result) []gjson.Result {
	switch seg.kind {
	case segmentChild:
		if !node.IsObject() {
			return out
		}
		for _, name := range seg.names {
			node.ForEach(func(key, value gjson.Result) bool {
				if key.Str == name {
					out = append(out, value)
					return false
				}
				return true
			})
		}
	case segmentWildcard:
		if node.IsObject() || node.IsArray() {
			node.ForEach(func(_, value gjson.Result) bool {
				out = append(out, value)
				return true
			})
		}
	case segmentIndex:
		if !node.IsArray() {
			return out
		}
		elems := node.Array()
		for _, idx := range seg.indices {
			if idx < 0 {
				idx += len(elems)
			}
			if idx >= 0 && idx < len(elems) {
				out = append(out, elems[idx])
			}
		}
	case segmentSlice:
		if !node.IsArray() {
			return out
		}
		elems := node.Array()
		start, end := sliceBounds(seg.start, seg.end, len(elems))
		for i := start; i < end; i += seg.step {
			out = append(out, elems[i])
		}
	}
	return out
}

func sliceBounds(start, end *int, n int) (int, int) {
	normalize := func(v *int, def int) int {
		if v == nil {
			return def
		}
		i := *v
		if i < 0 {
			i += n
		}
		return min(max(i, 0), n)
	}
	return normalize(start, 0), normalize(end, n)
}
