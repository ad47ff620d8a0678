package model

// NodeID is a stable handle into a Graph's node arena.
type NodeID int32

// InvalidNode is the zero-value-adjacent sentinel for "no node".
const InvalidNode NodeID = -1

// node is one syntactic declaration stored in the arena. Parent/child
// relations are handles rather than pointers so the graph has no ownership
// cycles and nodes stay comparable/copyable.
type node struct {
	name     string
	kind     DeclarationKind
	export   string
	parent   NodeID
	children []NodeID
}

// Graph is a flat arena of declaration nodes. Node handles are stable for
// the lifetime of the graph and child order is declaration order.
type Graph struct {
	nodes []node
}

// NewGraph creates an empty declaration graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a declaration to the arena and links it under parent.
// Pass InvalidNode as parent for a top-level declaration; export is the
// exported name that owns the declaration's subtree.
func (g *Graph) AddNode(parent NodeID, export, name string, kind DeclarationKind) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{
		name:   name,
		kind:   kind,
		export: export,
		parent: parent,
	})
	if parent != InvalidNode {
		g.nodes[parent].children = append(g.nodes[parent].children, id)
	}
	return id
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Name returns the declared identifier of the node.
func (g *Graph) Name(id NodeID) string {
	return g.nodes[id].name
}

// Kind returns the declaration kind of the node.
func (g *Graph) Kind(id NodeID) DeclarationKind {
	return g.nodes[id].kind
}

// Export returns the exported name owning the node's subtree.
func (g *Graph) Export(id NodeID) string {
	return g.nodes[id].export
}

// Parent returns the parent node, or InvalidNode for top-level declarations.
func (g *Graph) Parent(id NodeID) NodeID {
	return g.nodes[id].parent
}

// Children returns the node's children in declaration order.
func (g *Graph) Children(id NodeID) []NodeID {
	return g.nodes[id].children
}

// ChildrenNamed returns the node's children whose identifier exactly equals
// name, in declaration order. Multiple results mean overloads or merged
// declarations sharing the identifier.
func (g *Graph) ChildrenNamed(id NodeID, name string) []NodeID {
	var matched []NodeID
	for _, child := range g.nodes[id].children {
		if g.nodes[child].name == name {
			matched = append(matched, child)
		}
	}
	return matched
}

// Path returns the dotted member path of the node starting at its export,
// e.g. "Button.onClick". Used in reports and failure messages.
func (g *Graph) Path(id NodeID) string {
	if parent := g.nodes[id].parent; parent != InvalidNode {
		return g.Path(parent) + "." + g.nodes[id].name
	}
	return g.nodes[id].name
}
