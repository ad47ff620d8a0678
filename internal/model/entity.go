package model

// Entity is what an exported name is bound to: either declarations that
// live in the module itself (LocalEntity) or a re-export of another
// module's name (ImportedEntity). The interface is sealed so resolution
// can type-switch over exactly two cases.
type Entity interface {
	// ExportName returns the exported name the entity is bound to.
	ExportName() string

	sealedEntity()
}

// LocalEntity binds an exported name to one or more declaration nodes.
// More than one node means overloaded or merged declarations; the order
// is declaration order and the list is never empty.
type LocalEntity struct {
	Name  string
	Decls []NodeID
}

// ExportName returns the exported name the entity is bound to.
func (e *LocalEntity) ExportName() string { return e.Name }

func (e *LocalEntity) sealedEntity() {}

// ImportedEntity binds an exported name to a declaration in another
// module. The target is opaque: re-exports are recorded but never
// expanded during resolution.
type ImportedEntity struct {
	Name   string
	Target string
}

// ExportName returns the exported name the entity is bound to.
func (e *ImportedEntity) ExportName() string { return e.Name }

func (e *ImportedEntity) sealedEntity() {}
