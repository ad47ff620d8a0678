// Package resolver locates the single declaration a structured reference
// points at, walking the export table and declaration graph, or reports
// precisely why resolution failed. Failures are values, not exceptions:
// a diagnostics pipeline keeps going after a failed reference.
package resolver

import "fmt"

// FailureCode represents stable codes for every way resolution can fail
type FailureCode string

const (
	// UnsupportedExternalPackage indicates the reference names a package
	// other than the one being analyzed
	UnsupportedExternalPackage FailureCode = "UNSUPPORTED_EXTERNAL_PACKAGE"
	// UnsupportedImportPath indicates the reference carries a file-system
	// import path qualifier
	UnsupportedImportPath FailureCode = "UNSUPPORTED_IMPORT_PATH"
	// EmptyReference indicates the reference has no member segments
	EmptyReference FailureCode = "EMPTY_REFERENCE"
	// UnknownExport indicates the first segment is not an export of the
	// working module
	UnknownExport FailureCode = "UNKNOWN_EXPORT"
	// UnsupportedReexport indicates the first segment resolves to a
	// re-exported entity, which is never followed
	UnsupportedReexport FailureCode = "UNSUPPORTED_REEXPORT"
	// UnsupportedSymbolSelector indicates a segment uses a symbol-keyed
	// name instead of a plain identifier
	UnsupportedSymbolSelector FailureCode = "UNSUPPORTED_SYMBOL_SELECTOR"
	// MissingMemberIdentifier indicates a segment has no identifier at all
	MissingMemberIdentifier FailureCode = "MISSING_MEMBER_IDENTIFIER"
	// NoMatchingMember indicates no child of the current declaration
	// matches the requested identifier
	NoMatchingMember FailureCode = "NO_MATCHING_MEMBER"
	// AmbiguousReference indicates multiple same-named candidates and no
	// selector to choose between them
	AmbiguousReference FailureCode = "AMBIGUOUS_REFERENCE"
	// UnsupportedSelectorFamily indicates a selector that is not a
	// declaration-kind selector
	UnsupportedSelectorFamily FailureCode = "UNSUPPORTED_SELECTOR_FAMILY"
	// UnsupportedSelectorValue indicates a kind tag outside the seven
	// recognized declaration kinds
	UnsupportedSelectorValue FailureCode = "UNSUPPORTED_SELECTOR_VALUE"
	// NoDeclarationForSelector indicates no candidate's kind matches the
	// selector
	NoDeclarationForSelector FailureCode = "NO_DECLARATION_FOR_SELECTOR"
	// AmbiguousSelectorMatch indicates more than one candidate shares both
	// the identifier and the selected kind
	AmbiguousSelectorMatch FailureCode = "AMBIGUOUS_SELECTOR_MATCH"
)

// Failure describes why a reference did not resolve. Reason is
// human-readable and specific enough to act on.
type Failure struct {
	Code   FailureCode `json:"code" yaml:"code"`
	Reason string      `json:"reason" yaml:"reason"`
}

// Error implements the error interface
func (f *Failure) Error() string {
	return fmt.Sprintf("[%s] %s", f.Code, f.Reason)
}

func newFailure(code FailureCode, format string, args ...interface{}) *Failure {
	return &Failure{
		Code:   code,
		Reason: fmt.Sprintf(format, args...),
	}
}
