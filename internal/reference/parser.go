package reference

import (
	"fmt"
	"strings"
)

// Parse parses the textual form of a declaration reference:
//
//	[package-name][/import/path]#Member.Member:selector
//
// The part before '#' names the source module: a package name, optionally
// scoped ("@scope/name"), optionally followed by a '/'-prefixed import
// path. Without a '#' the whole text is the member path. Member segments
// are '.'-separated; a segment is either a plain identifier or a
// bracketed symbol-keyed name ("[Symbol.iterator]"), optionally followed
// by a ':selector'.
//
// Parse guarantees structural shape only (non-empty member path, balanced
// brackets); whether the reference resolves is the resolver's job.
func Parse(text string) (*Reference, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty reference")
	}

	ref := &Reference{}
	memberPath := text

	if idx := strings.IndexByte(text, '#'); idx >= 0 {
		source := text[:idx]
		memberPath = text[idx+1:]
		pkg, importPath, err := splitSource(source)
		if err != nil {
			return nil, err
		}
		ref.Package = pkg
		ref.ImportPath = importPath
	}

	if memberPath == "" {
		return nil, fmt.Errorf("reference %q has no member path", text)
	}

	rawSegments, err := splitSegments(memberPath)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", text, err)
	}
	for _, raw := range rawSegments {
		seg, err := parseSegment(raw)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", text, err)
		}
		ref.Segments = append(ref.Segments, seg)
	}

	return ref, nil
}

// splitSource splits the module source into package name and import path.
// A scoped package keeps its "@scope/" prefix; any further '/' starts the
// import path.
func splitSource(source string) (pkg, importPath string, err error) {
	if source == "" {
		return "", "", fmt.Errorf("reference has an empty package qualifier before '#'")
	}

	rest := source
	prefix := ""
	if strings.HasPrefix(source, "@") {
		slash := strings.IndexByte(source, '/')
		if slash < 0 {
			return "", "", fmt.Errorf("scoped package %q is missing its name after the scope", source)
		}
		prefix = source[:slash+1]
		rest = source[slash+1:]
	}

	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		return prefix + rest[:slash], rest[slash:], nil
	}
	return prefix + rest, "", nil
}

// splitSegments splits the member path on '.' while keeping bracketed
// symbol names intact.
func splitSegments(path string) ([]string, error) {
	var segments []string
	depth := 0
	start := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced ']' in member path")
			}
		case '.':
			if depth == 0 {
				segments = append(segments, path[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced '[' in member path")
	}
	segments = append(segments, path[start:])
	return segments, nil
}

func parseSegment(raw string) (Segment, error) {
	if raw == "" {
		return Segment{}, fmt.Errorf("member path has an empty segment")
	}

	body := raw
	var selector *Selector
	if idx := selectorIndex(raw); idx >= 0 {
		body = raw[:idx]
		tag := raw[idx+1:]
		if tag == "" {
			return Segment{}, fmt.Errorf("segment %q has an empty selector", raw)
		}
		selector = &Selector{Family: classifySelector(tag), Value: tag}
	}

	seg := Segment{Selector: selector}
	switch {
	case strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]"):
		seg.SymbolName = body[1 : len(body)-1]
		if seg.SymbolName == "" {
			return Segment{}, fmt.Errorf("segment %q has an empty symbol name", raw)
		}
	case body == "":
		// ":class" with no identifier: structurally allowed, the resolver
		// reports it as a missing member identifier.
	default:
		seg.Identifier = body
	}
	return seg, nil
}

// selectorIndex finds the ':' introducing a selector, ignoring colons
// inside a bracketed symbol name.
func selectorIndex(raw string) int {
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// classifySelector places a selector tag in its family: all digits is an
// overload index, all uppercase is a user label, anything else is treated
// as a declaration-kind tag.
func classifySelector(tag string) SelectorFamily {
	if isAllDigits(tag) {
		return SelectorIndex
	}
	if isUpperLabel(tag) {
		return SelectorLabel
	}
	return SelectorKind
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isUpperLabel(s string) bool {
	if len(s) == 0 || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
