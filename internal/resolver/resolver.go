package resolver

import (
	"declref/internal/model"
	"declref/internal/reference"
)

// Resolver resolves structured references against one symbol table. It is
// a pure function over its immutable inputs: no mutation, no hidden
// state, safe for concurrent use from any number of goroutines.
type Resolver struct {
	table *model.SymbolTable
}

// New creates a resolver over the given symbol table.
func New(table *model.SymbolTable) *Resolver {
	return &Resolver{table: table}
}

// Resolve locates the single declaration node the reference points at
// within the working package. Steps run strictly left-to-right and the
// first failing step short-circuits the rest; there is no partial or
// best-effort result.
func (r *Resolver) Resolve(ref *reference.Reference, workingPackage string) (model.NodeID, *Failure) {
	if ref.Package != "" && ref.Package != workingPackage {
		return model.InvalidNode, newFailure(UnsupportedExternalPackage,
			"reference names package %q but the analyzed package is %q; references into other packages are not resolved",
			ref.Package, workingPackage)
	}

	if ref.ImportPath != "" {
		return model.InvalidNode, newFailure(UnsupportedImportPath,
			"reference carries import path %q; only the package's public surface is resolved, not path-based imports",
			ref.ImportPath)
	}

	if len(ref.Segments) == 0 {
		return model.InvalidNode, newFailure(EmptyReference,
			"reference has no member segments")
	}

	first := ref.Segments[0]
	ident, fail := segmentIdentifier(first)
	if fail != nil {
		return model.InvalidNode, fail
	}

	rootModule, ok := r.table.RootModuleOf(workingPackage)
	if !ok {
		return model.InvalidNode, newFailure(UnknownExport,
			"package %q has no export named %q", workingPackage, ident)
	}

	entity, ok := r.table.LookupExport(rootModule, ident)
	if !ok {
		return model.InvalidNode, newFailure(UnknownExport,
			"package %q has no export named %q", workingPackage, ident)
	}

	var decls []model.NodeID
	switch e := entity.(type) {
	case *model.LocalEntity:
		decls = e.Decls
	case *model.ImportedEntity:
		return model.InvalidNode, newFailure(UnsupportedReexport,
			"export %q re-exports %q from another module; re-exports are not followed",
			ident, e.Target)
	}

	graph := r.table.Graph()
	current, fail := narrow(graph, decls, ident, first.Selector)
	if fail != nil {
		return model.InvalidNode, fail
	}

	for _, seg := range ref.Segments[1:] {
		ident, fail = segmentIdentifier(seg)
		if fail != nil {
			return model.InvalidNode, fail
		}

		candidates := graph.ChildrenNamed(current, ident)
		if len(candidates) == 0 {
			return model.InvalidNode, newFailure(NoMatchingMember,
				"%q has no member named %q", graph.Path(current), ident)
		}

		current, fail = narrow(graph, candidates, ident, seg.Selector)
		if fail != nil {
			return model.InvalidNode, fail
		}
	}

	return current, nil
}

// segmentIdentifier extracts the plain identifier for a segment.
// Symbol-keyed members are out of scope in this profile and a segment
// without any identifier cannot be matched against children.
func segmentIdentifier(seg reference.Segment) (string, *Failure) {
	if seg.SymbolName != "" {
		return "", newFailure(UnsupportedSymbolSelector,
			"member %q is symbol-keyed; only plain identifiers are supported", seg.SymbolName)
	}
	if seg.Identifier == "" {
		return "", newFailure(MissingMemberIdentifier,
			"member segment has no identifier")
	}
	return seg.Identifier, nil
}

// narrow reduces a non-empty candidate list to exactly one declaration
// node, or fails. Without a selector a unique candidate is required;
// with a kind selector the candidates are filtered by declaration kind
// and the filtered set must be unique. More than one same-kind candidate
// is a hard failure rather than an arbitrary pick.
func narrow(graph *model.Graph, candidates []model.NodeID, ident string, sel *reference.Selector) (model.NodeID, *Failure) {
	if sel == nil {
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		return model.InvalidNode, newFailure(AmbiguousReference,
			"%q matches %d declarations; append a selector such as %q to disambiguate",
			ident, len(candidates), ident+":"+suggestedSelector(graph, candidates))
	}

	if sel.Family != reference.SelectorKind {
		return model.InvalidNode, newFailure(UnsupportedSelectorFamily,
			"selector %q is a %s selector; only declaration-kind selectors are supported",
			sel.Value, sel.Family)
	}

	kind, ok := model.ParseDeclarationKind(sel.Value)
	if !ok {
		return model.InvalidNode, newFailure(UnsupportedSelectorValue,
			"selector %q is not a recognized declaration kind", sel.Value)
	}

	var matched []model.NodeID
	for _, id := range candidates {
		if graph.Kind(id) == kind {
			matched = append(matched, id)
		}
	}

	switch len(matched) {
	case 0:
		return model.InvalidNode, newFailure(NoDeclarationForSelector,
			"%q has no %s declaration matching selector %q", ident, kind, sel.Value)
	case 1:
		return matched[0], nil
	default:
		return model.InvalidNode, newFailure(AmbiguousSelectorMatch,
			"%q has %d %s declarations; a kind selector cannot choose between them",
			ident, len(matched), kind)
	}
}

// suggestedSelector picks the first candidate's kind tag for the
// AmbiguousReference hint.
func suggestedSelector(graph *model.Graph, candidates []model.NodeID) string {
	return string(graph.Kind(candidates[0]))
}
