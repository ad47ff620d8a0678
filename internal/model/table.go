package model

import "fmt"

// Module is the per-module export index: exported name to Entity.
type Module struct {
	name    string
	exports map[string]Entity
	order   []string
}

// Name returns the module's canonical name.
func (m *Module) Name() string { return m.name }

// Export looks up an exported name. The second return is false when the
// name is not exported from this module.
func (m *Module) Export(name string) (Entity, bool) {
	e, ok := m.exports[name]
	return e, ok
}

// ExportNames returns the exported names in binding order.
func (m *Module) ExportNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Bind binds an exported name to an entity. Each (module, name) pair
// binds exactly once; rebinding is a table-construction bug.
func (m *Module) Bind(e Entity) error {
	name := e.ExportName()
	if _, exists := m.exports[name]; exists {
		return fmt.Errorf("module %q: export %q bound twice", m.name, name)
	}
	m.exports[name] = e
	m.order = append(m.order, name)
	return nil
}

// SymbolTable indexes the exports of every module in the analyzed package.
// It is populated by a table source during construction and read-only
// afterwards.
type SymbolTable struct {
	graph   *Graph
	modules map[string]*Module
	root    string
}

// NewSymbolTable creates an empty symbol table over the given graph.
func NewSymbolTable(graph *Graph) *SymbolTable {
	return &SymbolTable{
		graph:   graph,
		modules: make(map[string]*Module),
	}
}

// Graph returns the declaration graph the table's entities point into.
func (t *SymbolTable) Graph() *Graph { return t.graph }

// AddModule registers a module, creating it on first use. The first module
// added becomes the package's root module unless SetRootModule overrides it.
func (t *SymbolTable) AddModule(name string) *Module {
	if m, ok := t.modules[name]; ok {
		return m
	}
	m := &Module{name: name, exports: make(map[string]Entity)}
	t.modules[name] = m
	if t.root == "" {
		t.root = name
	}
	return m
}

// SetRootModule marks the module that RootModuleOf resolves to for the
// working package.
func (t *SymbolTable) SetRootModule(name string) {
	t.root = name
}

// RootModuleOf resolves the working package's entry module. The second
// return is false when the package has no modules at all.
func (t *SymbolTable) RootModuleOf(workingPackage string) (*Module, bool) {
	_ = workingPackage // one analyzed package per table in this profile
	m, ok := t.modules[t.root]
	return m, ok
}

// LookupExport is the Symbol Table query used by resolution: exported name
// within a module to its Entity.
func (t *SymbolTable) LookupExport(m *Module, name string) (Entity, bool) {
	if m == nil {
		return nil, false
	}
	return m.Export(name)
}
