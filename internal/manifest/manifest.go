// Package manifest builds a symbol table from a DECLARATIONS.toml file,
// the hand-maintained table source used by tests and small projects that
// have no SCIP index or checked-out sources.
package manifest

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"declref/internal/model"
)

// DeclarationsFile is the default filename for declaration manifests
const DeclarationsFile = "DECLARATIONS.toml"

// File represents the root structure of DECLARATIONS.toml
type File struct {
	// Version is the schema version
	Version int `toml:"version"`

	// Package is the analyzed package's canonical name
	Package string `toml:"package"`

	// Exports are the package's exported names in declaration order
	Exports []Export `toml:"export"`
}

// Export declares one exported name. Exactly one of Import, Kind, or
// Decls describes it: Import marks a re-export, Kind is shorthand for a
// single declaration, Decls lists the overloaded/merged declarations.
type Export struct {
	// Name is the exported name
	Name string `toml:"name"`

	// Import marks the export as a re-export of another module's name
	Import string `toml:"import,omitempty"`

	// Kind is shorthand for a single declaration of that kind
	Kind string `toml:"kind,omitempty"`

	// Members are the shorthand declaration's nested members
	Members []Member `toml:"members,omitempty"`

	// Decls lists the declarations bound to the name (overloads/merges)
	Decls []Decl `toml:"decl,omitempty"`
}

// Decl is one declaration bound to an exported name
type Decl struct {
	// Kind is the declaration kind
	Kind string `toml:"kind"`

	// Members are the nested member declarations
	Members []Member `toml:"members,omitempty"`
}

// Member is a named declaration nested inside another declaration.
// Members nest recursively (namespaces, inner classes).
type Member struct {
	// Name is the member's identifier
	Name string `toml:"name"`

	// Kind is the declaration kind
	Kind string `toml:"kind"`

	// Members are the member's own nested declarations
	Members []Member `toml:"members,omitempty"`
}

// Load reads and parses a DECLARATIONS.toml file and builds the symbol
// table it declares.
func Load(path string) (*model.SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations manifest: %w", err)
	}
	return Build(data)
}

// Build parses manifest bytes and constructs the declaration graph and
// symbol table.
func Build(data []byte) (*model.SymbolTable, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse declarations manifest: %w", err)
	}

	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported manifest version %d (expected 1)", file.Version)
	}
	if file.Package == "" {
		return nil, fmt.Errorf("manifest is missing the package name")
	}

	graph := model.NewGraph()
	table := model.NewSymbolTable(graph)
	mod := table.AddModule(file.Package)

	for _, export := range file.Exports {
		entity, err := buildExport(graph, export)
		if err != nil {
			return nil, err
		}
		if err := mod.Bind(entity); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func buildExport(graph *model.Graph, export Export) (model.Entity, error) {
	if export.Name == "" {
		return nil, fmt.Errorf("manifest has an export without a name")
	}

	if export.Import != "" {
		if export.Kind != "" || len(export.Decls) > 0 || len(export.Members) > 0 {
			return nil, fmt.Errorf("export %q is a re-export and cannot also carry declarations", export.Name)
		}
		return &model.ImportedEntity{Name: export.Name, Target: export.Import}, nil
	}

	decls := export.Decls
	if export.Kind != "" {
		if len(decls) > 0 {
			return nil, fmt.Errorf("export %q mixes the kind shorthand with [[export.decl]] tables", export.Name)
		}
		decls = []Decl{{Kind: export.Kind, Members: export.Members}}
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("export %q declares neither a kind nor any declarations", export.Name)
	}

	entity := &model.LocalEntity{Name: export.Name}
	for _, decl := range decls {
		kind, ok := model.ParseDeclarationKind(decl.Kind)
		if !ok {
			return nil, fmt.Errorf("export %q has unrecognized declaration kind %q", export.Name, decl.Kind)
		}
		node := graph.AddNode(model.InvalidNode, export.Name, export.Name, kind)
		if err := addMembers(graph, node, export.Name, decl.Members); err != nil {
			return nil, err
		}
		entity.Decls = append(entity.Decls, node)
	}
	return entity, nil
}

func addMembers(graph *model.Graph, parent model.NodeID, export string, members []Member) error {
	for _, member := range members {
		if member.Name == "" {
			return fmt.Errorf("export %q has a member without a name under %q", export, graph.Path(parent))
		}
		kind, ok := model.ParseDeclarationKind(member.Kind)
		if !ok {
			return fmt.Errorf("member %q of export %q has unrecognized kind %q", member.Name, export, member.Kind)
		}
		node := graph.AddNode(parent, export, member.Name, kind)
		if err := addMembers(graph, node, export, member.Members); err != nil {
			return err
		}
	}
	return nil
}
