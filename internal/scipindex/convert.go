package scipindex

import (
	"fmt"
	"sort"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"declref/internal/model"
)

// entry is one global symbol flattened to its member path and kind.
type entry struct {
	names []string
	kind  model.DeclarationKind
	order int
}

// BuildTable converts a loaded SCIP index into a declaration graph and
// symbol table for the given package. Symbols from other packages, local
// symbols, and non-declaration descriptors (parameters, type parameters,
// meta) are skipped.
func BuildTable(index *scippb.Index, packageName string) (*model.SymbolTable, error) {
	if packageName == "" {
		return nil, fmt.Errorf("a package name is required to select symbols from the index")
	}

	entries := collectEntries(index, packageName)

	// Parents before children: shallower paths first, index order within
	// a depth. SCIP symbol strings usually sort that way already, but the
	// index is not required to.
	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].names) != len(entries[j].names) {
			return len(entries[i].names) < len(entries[j].names)
		}
		return entries[i].order < entries[j].order
	})

	graph := model.NewGraph()
	table := model.NewSymbolTable(graph)
	mod := table.AddModule(packageName)

	// byPath resolves a member path to its node for parent lookups. When
	// overloads share a path, the first declaration wins, which keeps
	// parent resolution deterministic.
	byPath := make(map[string]model.NodeID)

	for _, e := range entries {
		export := e.names[0]
		parent := model.InvalidNode
		if len(e.names) > 1 {
			var err error
			parent, err = ensureAncestors(graph, table, mod, byPath, e.names[:len(e.names)-1])
			if err != nil {
				return nil, err
			}
		}

		name := e.names[len(e.names)-1]
		node := graph.AddNode(parent, export, name, e.kind)
		path := strings.Join(e.names, ".")
		if _, seen := byPath[path]; !seen {
			byPath[path] = node
		}

		if parent == model.InvalidNode {
			if err := bindRoot(mod, export, node); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

// collectEntries walks every document's symbols and keeps the ones that
// belong to the requested package and describe declarations.
func collectEntries(index *scippb.Index, packageName string) []entry {
	var entries []entry
	order := 0
	for _, doc := range index.Documents {
		for _, info := range doc.Symbols {
			if scippb.IsLocalSymbol(info.Symbol) {
				continue
			}
			parsed, err := scippb.ParseSymbol(info.Symbol)
			if err != nil || parsed.Package == nil || parsed.Package.Name != packageName {
				continue
			}

			names, ok := descriptorPath(parsed.Descriptors)
			if !ok {
				continue
			}

			entries = append(entries, entry{
				names: names,
				kind:  declarationKind(info, parsed.Descriptors),
				order: order,
			})
			order++
		}
	}
	return entries
}

// descriptorPath flattens a symbol's descriptors into member path names.
// Returns false for symbols that are not declarations in this profile.
func descriptorPath(descriptors []*scippb.Descriptor) ([]string, bool) {
	if len(descriptors) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		switch d.Suffix {
		case scippb.Descriptor_Namespace, scippb.Descriptor_Type,
			scippb.Descriptor_Term, scippb.Descriptor_Method:
			names = append(names, d.Name)
		default:
			// Parameter, type parameter, macro, meta, local: not a
			// declaration the resolver can address.
			return nil, false
		}
	}
	return names, true
}

// declarationKind maps a SCIP symbol onto one of the seven declaration
// kinds, preferring the indexer-reported kind over the descriptor suffix.
func declarationKind(info *scippb.SymbolInformation, descriptors []*scippb.Descriptor) model.DeclarationKind {
	switch info.Kind {
	case scippb.SymbolInformation_Class, scippb.SymbolInformation_Struct:
		return model.KindClass
	case scippb.SymbolInformation_Interface, scippb.SymbolInformation_Trait, scippb.SymbolInformation_Protocol:
		return model.KindInterface
	case scippb.SymbolInformation_Enum:
		return model.KindEnum
	case scippb.SymbolInformation_Function, scippb.SymbolInformation_Method,
		scippb.SymbolInformation_StaticMethod, scippb.SymbolInformation_Constructor:
		return model.KindFunction
	case scippb.SymbolInformation_Variable, scippb.SymbolInformation_Constant,
		scippb.SymbolInformation_Property, scippb.SymbolInformation_Field,
		scippb.SymbolInformation_EnumMember:
		return model.KindVariable
	case scippb.SymbolInformation_TypeAlias:
		return model.KindTypeAlias
	case scippb.SymbolInformation_Namespace, scippb.SymbolInformation_Module,
		scippb.SymbolInformation_Package:
		return model.KindNamespace
	}

	// Older indexers leave Kind unspecified; fall back to the last
	// descriptor's suffix.
	switch descriptors[len(descriptors)-1].Suffix {
	case scippb.Descriptor_Namespace:
		return model.KindNamespace
	case scippb.Descriptor_Type:
		return model.KindClass
	case scippb.Descriptor_Method:
		return model.KindFunction
	default:
		return model.KindVariable
	}
}

// ensureAncestors resolves the parent node for a member path, creating
// namespace placeholders for ancestors the index never declared.
func ensureAncestors(graph *model.Graph, table *model.SymbolTable, mod *model.Module, byPath map[string]model.NodeID, names []string) (model.NodeID, error) {
	path := strings.Join(names, ".")
	if node, ok := byPath[path]; ok {
		return node, nil
	}

	parent := model.InvalidNode
	if len(names) > 1 {
		var err error
		parent, err = ensureAncestors(graph, table, mod, byPath, names[:len(names)-1])
		if err != nil {
			return model.InvalidNode, err
		}
	}

	node := graph.AddNode(parent, names[0], names[len(names)-1], model.KindNamespace)
	byPath[path] = node
	if parent == model.InvalidNode {
		if err := bindRoot(mod, names[0], node); err != nil {
			return model.InvalidNode, err
		}
	}
	return node, nil
}

// bindRoot binds a top-level declaration to its export, appending to the
// entity's declaration list when the name is already bound (overloads and
// merged declarations).
func bindRoot(mod *model.Module, export string, node model.NodeID) error {
	if existing, ok := mod.Export(export); ok {
		local, ok := existing.(*model.LocalEntity)
		if !ok {
			return fmt.Errorf("export %q is already bound to a re-export", export)
		}
		local.Decls = append(local.Decls, node)
		return nil
	}
	return mod.Bind(&model.LocalEntity{Name: export, Decls: []model.NodeID{node}})
}
