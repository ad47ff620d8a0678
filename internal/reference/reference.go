// Package reference defines the structured form of a declaration
// reference and the parser that produces it from its textual form, e.g.
// "widgets#Shape:class" or "Button.onClick".
package reference

import "strings"

// SelectorFamily classifies the disambiguation selector attached to a
// member segment. Only kind selectors participate in resolution; index
// and label selectors are recognized by the parser so resolution can
// reject them precisely instead of misreading them as kind tags.
type SelectorFamily string

const (
	// SelectorKind is a declaration-kind tag such as ":class" or ":enum".
	SelectorKind SelectorFamily = "kind"
	// SelectorIndex is a numeric overload index such as ":2".
	SelectorIndex SelectorFamily = "index"
	// SelectorLabel is an uppercase user label such as ":WITH_NUMBERS".
	SelectorLabel SelectorFamily = "label"
)

// Selector is a disambiguation tag attached to a member segment.
type Selector struct {
	Family SelectorFamily
	Value  string
}

// String returns the selector in its textual ":value" form, without the
// colon.
func (s *Selector) String() string { return s.Value }

// Segment is one step of the dotted member path. Exactly one of
// Identifier and SymbolName is set: Identifier for a plain name,
// SymbolName for a bracketed symbol-keyed member like "[Symbol.iterator]".
type Segment struct {
	Identifier string
	SymbolName string
	Selector   *Selector
}

// Reference is the structured resolution request. Package and ImportPath
// are optional qualifiers; Segments is the ordered member path and is
// never empty for a parsed reference.
type Reference struct {
	Package    string
	ImportPath string
	Segments   []Segment
}

// String reconstructs the textual form of the reference.
func (r *Reference) String() string {
	var b strings.Builder
	if r.Package != "" || r.ImportPath != "" {
		b.WriteString(r.Package)
		b.WriteString(r.ImportPath)
		b.WriteByte('#')
	}
	for i, seg := range r.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		if seg.SymbolName != "" {
			b.WriteByte('[')
			b.WriteString(seg.SymbolName)
			b.WriteByte(']')
		} else {
			b.WriteString(seg.Identifier)
		}
		if seg.Selector != nil {
			b.WriteByte(':')
			b.WriteString(seg.Selector.Value)
		}
	}
	return b.String()
}
