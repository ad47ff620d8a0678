//go:build cgo

// Package extract builds a symbol table directly from TypeScript sources
// using tree-sitter, for packages that have neither a manifest nor a SCIP
// index.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"declref/internal/model"
)

// Extractor extracts exported declarations from TypeScript source files.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates a new declaration extractor.
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &Extractor{parser: parser}
}

// IsAvailable returns whether source extraction is available.
func IsAvailable() bool {
	return true
}

// ExtractPackage walks the given source roots, parses every TypeScript
// file, and builds the package's symbol table from its exported
// declarations. Files are processed in sorted path order so repeated
// runs produce the same table.
func (e *Extractor) ExtractPackage(ctx context.Context, packageName string, roots, ignore []string) (*model.SymbolTable, error) {
	graph := model.NewGraph()
	table := model.NewSymbolTable(graph)
	table.AddModule(packageName)

	files, err := collectSourceFiles(roots, ignore)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := e.ExtractSource(ctx, table, source); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", path, err)
		}
	}

	return table, nil
}

// ExtractSource parses one TypeScript source and adds its exported
// declarations to the table's root module.
func (e *Extractor) ExtractSource(ctx context.Context, table *model.SymbolTable, source []byte) error {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	mod, ok := table.RootModuleOf("")
	if !ok {
		return fmt.Errorf("symbol table has no root module")
	}

	b := &builder{graph: table.Graph(), mod: mod, source: source}
	return b.walkProgram(tree.RootNode())
}

func collectSourceFiles(roots, ignore []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // Skip unreadable entries
			}
			if info.IsDir() {
				name := info.Name()
				if strings.HasPrefix(name, ".") || ignored(name, ignore) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".test.ts") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func ignored(name string, ignore []string) bool {
	for _, pattern := range ignore {
		if name == pattern {
			return true
		}
	}
	return false
}

// builder accumulates one file's exported declarations into the shared
// graph and module.
type builder struct {
	graph  *model.Graph
	mod    *model.Module
	source []byte
}

// walkProgram scans top-level statements for export statements. Only the
// exported surface enters the table; unexported declarations are invisible
// to reference resolution.
func (b *builder) walkProgram(program *sitter.Node) error {
	for i := 0; i < int(program.NamedChildCount()); i++ {
		stmt := program.NamedChild(i)
		if stmt.Type() != "export_statement" {
			continue
		}
		if err := b.walkExport(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) walkExport(stmt *sitter.Node) error {
	// `export { A, B } from "other"`: a re-export, recorded but opaque.
	if source := stmt.ChildByFieldName("source"); source != nil {
		target := strings.Trim(b.text(source), "\"'`")
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			if child.Type() != "export_clause" {
				continue
			}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := b.exportedName(spec)
				if name == "" {
					continue
				}
				if err := b.bindImported(name, target); err != nil {
					return err
				}
			}
		}
		return nil
	}

	decl := stmt.ChildByFieldName("declaration")
	if decl == nil {
		return nil
	}
	return b.declare(decl, model.InvalidNode, "")
}

// declare adds one declaration node (and its members) under parent.
// Top-level declarations (parent == InvalidNode) are bound to their
// export name; repeated names accumulate overloads/merges on one entity.
func (b *builder) declare(decl *sitter.Node, parent model.NodeID, export string) error {
	kind, ok := declarationKind(decl.Type())
	if !ok {
		return nil // Not a declaration form the resolver can address
	}

	// const/let/var statements declare through their declarators.
	if decl.Type() == "lexical_declaration" || decl.Type() == "variable_declaration" {
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := b.fieldText(declarator, "name")
			if name == "" {
				continue
			}
			if _, err := b.addNode(parent, export, name, model.KindVariable); err != nil {
				return err
			}
		}
		return nil
	}

	name := b.fieldText(decl, "name")
	if name == "" {
		return nil
	}

	node, err := b.addNode(parent, export, name, kind)
	if err != nil {
		return err
	}

	if export == "" {
		export = name
	}

	switch kind {
	case model.KindClass:
		b.addClassMembers(decl, node, export)
	case model.KindInterface:
		b.addInterfaceMembers(decl, node, export)
	case model.KindEnum:
		b.addEnumMembers(decl, node, export)
	case model.KindNamespace:
		return b.addNamespaceMembers(decl, node, export)
	}
	return nil
}

func (b *builder) addNode(parent model.NodeID, export, name string, kind model.DeclarationKind) (model.NodeID, error) {
	if parent != model.InvalidNode {
		return b.graph.AddNode(parent, export, name, kind), nil
	}
	node := b.graph.AddNode(model.InvalidNode, name, name, kind)
	if existing, ok := b.mod.Export(name); ok {
		local, ok := existing.(*model.LocalEntity)
		if !ok {
			return model.InvalidNode, fmt.Errorf("export %q is declared locally but also re-exported", name)
		}
		local.Decls = append(local.Decls, node)
		return node, nil
	}
	if err := b.mod.Bind(&model.LocalEntity{Name: name, Decls: []model.NodeID{node}}); err != nil {
		return model.InvalidNode, err
	}
	return node, nil
}

func (b *builder) bindImported(name, target string) error {
	if existing, ok := b.mod.Export(name); ok {
		if _, isLocal := existing.(*model.LocalEntity); isLocal {
			return fmt.Errorf("export %q is re-exported but also declared locally", name)
		}
		return nil // Same re-export seen twice
	}
	return b.mod.Bind(&model.ImportedEntity{Name: name, Target: target})
}

func (b *builder) addClassMembers(class *sitter.Node, node model.NodeID, export string) {
	body := class.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			if name := b.fieldText(member, "name"); name != "" {
				b.graph.AddNode(node, export, name, model.KindFunction)
			}
		case "public_field_definition", "field_definition":
			if name := b.fieldText(member, "name"); name != "" {
				b.graph.AddNode(node, export, name, model.KindVariable)
			}
		}
	}
}

func (b *builder) addInterfaceMembers(iface *sitter.Node, node model.NodeID, export string) {
	body := iface.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_signature":
			if name := b.fieldText(member, "name"); name != "" {
				b.graph.AddNode(node, export, name, model.KindFunction)
			}
		case "property_signature":
			if name := b.fieldText(member, "name"); name != "" {
				b.graph.AddNode(node, export, name, model.KindVariable)
			}
		}
	}
}

func (b *builder) addEnumMembers(enum *sitter.Node, node model.NodeID, export string) {
	body := enum.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "enum_assignment":
			if name := b.fieldText(member, "name"); name != "" {
				b.graph.AddNode(node, export, name, model.KindVariable)
			}
		case "property_identifier":
			b.graph.AddNode(node, export, b.text(member), model.KindVariable)
		}
	}
}

// addNamespaceMembers recurses into a namespace body. Declarations inside
// a namespace count whether or not they carry their own export keyword;
// visibility within the namespace is not modeled here.
func (b *builder) addNamespaceMembers(ns *sitter.Node, node model.NodeID, export string) error {
	body := ns.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				if err := b.declare(decl, node, export); err != nil {
					return err
				}
			}
			continue
		}
		if err := b.declare(stmt, node, export); err != nil {
			return err
		}
	}
	return nil
}

func declarationKind(nodeType string) (model.DeclarationKind, bool) {
	switch nodeType {
	case "class_declaration", "abstract_class_declaration":
		return model.KindClass, true
	case "interface_declaration":
		return model.KindInterface, true
	case "enum_declaration":
		return model.KindEnum, true
	case "function_declaration", "function_signature", "generator_function_declaration":
		return model.KindFunction, true
	case "lexical_declaration", "variable_declaration":
		return model.KindVariable, true
	case "type_alias_declaration":
		return model.KindTypeAlias, true
	case "internal_module", "module":
		return model.KindNamespace, true
	default:
		return "", false
	}
}

func (b *builder) fieldText(node *sitter.Node, field string) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return b.text(child)
}

func (b *builder) text(node *sitter.Node) string {
	return node.Content(b.source)
}

// exportedName returns the outward-facing name of an export specifier,
// honoring `A as B` aliases.
func (b *builder) exportedName(spec *sitter.Node) string {
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		return b.text(alias)
	}
	return b.fieldText(spec, "name")
}
