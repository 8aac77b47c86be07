package routing

import "strings"

// Segment is one "/"-separated piece of a route template.
type Segment struct {
	Literal  string
	Param    string // "" for literals
	Optional bool   // {id?}
	CatchAll bool   // {*rest}
	Default  string // {page=1}
}

// IsParam reports whether the segment is a parameter.
func (s Segment) IsParam() bool { return s.Param != "" }

// ParseTemplate splits a template leniently. It never fails: anything that does
// not look like a whole-segment {param} is kept as a literal, leaving real
// validation to the matcher. Inline constraints ({id:int}) are dropped.
func ParseTemplate(template string) []Segment {
	trimmed := strings.Trim(template, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := make([]Segment, 0, len(parts))
	for _, p := range parts {
		if len(p) < 3 || p[0] != '{' || p[len(p)-1] != '}' {
			out = append(out, Segment{Literal: p})
			continue
		}
		body := p[1 : len(p)-1]
		var seg Segment
		if strings.HasPrefix(body, "**") {
			seg.CatchAll, body = true, body[2:]
		} else if strings.HasPrefix(body, "*") {
			seg.CatchAll, body = true, body[1:]
		}
		if i := strings.IndexByte(body, '='); i >= 0 {
			seg.Default, body = body[i+1:], body[:i]
		}
		if strings.HasSuffix(body, "?") {
			seg.Optional, body = true, strings.TrimSuffix(body, "?")
		}
		if i := strings.IndexByte(body, ':'); i >= 0 {
			body = body[:i]
		}
		if body == "" {
			out = append(out, Segment{Literal: p})
			continue
		}
		seg.Param = body
		out = append(out, seg)
	}
	return out
}
