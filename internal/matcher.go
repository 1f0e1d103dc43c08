package internal

import (
	"net/url"
	"strings"
)

// Params holds the values captured from a request path by a route pattern.
type Params map[string]string

type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
	segmentWildcardParam
)

type segment struct {
	value string // literal text or capture name
	kind  segmentKind
}

// Pattern is a parsed route pattern.
//
// Syntax, one segment per "/"-delimited token:
//
//	/literal       exact byte-wise match
//	/:name         captures one segment
//	/*             matches the rest of the path, nothing captured
//	/*:name        captures the rest of the path joined with "/"
type Pattern struct {
	raw      string
	segments []segment
	wildcard bool
}

// ParsePattern parses a route pattern.
func ParsePattern(pattern string) *Pattern {
	p := &Pattern{raw: pattern}
	for _, s := range splitPath(pattern) {
		switch {
		case strings.HasPrefix(s, "*:"):
			p.segments = append(p.segments, segment{kind: segmentWildcardParam, value: s[2:]})
		case strings.Contains(s, "*"):
			p.segments = append(p.segments, segment{kind: segmentWildcard})
		case strings.HasPrefix(s, ":"):
			p.segments = append(p.segments, segment{kind: segmentParam, value: s[1:]})
		default:
			p.segments = append(p.segments, segment{kind: segmentLiteral, value: s})
		}
	}
	p.wildcard = strings.Contains(pattern, "*")
	return p
}

// String returns the pattern as it was written.
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether path satisfies the pattern and returns the captured
// parameters. Params is nil when the pattern captured nothing.
func (p *Pattern) Match(path string) (Params, bool) {
	parts := splitPath(path)

	// Without a wildcard the arity must agree before any segment is looked at.
	if !p.wildcard && len(parts) != len(p.segments) {
		return nil, false
	}

	var params Params
	capture := func(name, value string) {
		if params == nil {
			params = make(Params)
		}
		params[name] = decodeSegment(value)
	}

	for _, seg := range p.segments {
		part, ok := shift(&parts)

		switch seg.kind {
		case segmentLiteral:
			if !ok || part != seg.value {
				return nil, false
			}
		case segmentParam:
			capture(seg.value, part)
		case segmentWildcardParam:
			rest := parts
			if ok {
				rest = append([]string{part}, parts...)
			}
			capture(seg.value, strings.Join(rest, "/"))
			return params, true
		case segmentWildcard:
			return params, true
		}
	}

	return params, true
}

// MatchPrefix reports whether path falls under the pattern when it is used as
// a group gate. It walks the same segments as Match but never captures, skips
// the arity check and succeeds once the pattern is exhausted.
func (p *Pattern) MatchPrefix(path string) bool {
	parts := splitPath(path)
	for _, seg := range p.segments {
		part, ok := shift(&parts)

		switch seg.kind {
		case segmentLiteral:
			if !ok || part != seg.value {
				return false
			}
		case segmentWildcard, segmentWildcardParam:
			return true
		}
	}
	return true
}

// Match parses pattern and matches it against path.
func Match(pattern, path string) (Params, bool) {
	return ParsePattern(pattern).Match(path)
}

// splitPath splits on "/" and drops the empty segment produced by a leading slash.
func splitPath(s string) []string {
	parts := strings.Split(s, "/")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	return parts
}

// shift consumes the first element of parts.
func shift(parts *[]string) (string, bool) {
	if len(*parts) == 0 {
		return "", false
	}
	head := (*parts)[0]
	*parts = (*parts)[1:]
	return head, true
}

// decodeSegment URL-decodes a captured value once ("+" becomes a space).
// Values that are not valid escapes are returned unchanged.
func decodeSegment(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
