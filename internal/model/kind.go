// Package model holds the declaration graph, entities, and the per-module
// export table that reference resolution runs against. Everything here is
// built once by a table source (manifest, SCIP index, or source extraction)
// and is read-only afterwards, so concurrent resolvers can share it freely.
package model

// DeclarationKind represents the syntactic kind of a declaration
type DeclarationKind string

const (
	KindClass     DeclarationKind = "class"
	KindInterface DeclarationKind = "interface"
	KindEnum      DeclarationKind = "enum"
	KindFunction  DeclarationKind = "function"
	KindVariable  DeclarationKind = "variable"
	KindTypeAlias DeclarationKind = "typealias"
	KindNamespace DeclarationKind = "namespace"
)

// declarationKinds maps the textual kind tags accepted in manifests and
// selectors to their DeclarationKind.
var declarationKinds = map[string]DeclarationKind{
	"class":     KindClass,
	"interface": KindInterface,
	"enum":      KindEnum,
	"function":  KindFunction,
	"variable":  KindVariable,
	"typealias": KindTypeAlias,
	"namespace": KindNamespace,
}

// ParseDeclarationKind maps a kind tag to a DeclarationKind.
// Returns false if the tag is not one of the seven recognized kinds.
func ParseDeclarationKind(tag string) (DeclarationKind, bool) {
	kind, ok := declarationKinds[tag]
	return kind, ok
}
