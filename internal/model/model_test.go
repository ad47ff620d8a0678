package model

import (
	"testing"
)

func TestParseDeclarationKind(t *testing.T) {
	recognized := map[string]DeclarationKind{
		"class":     KindClass,
		"interface": KindInterface,
		"enum":      KindEnum,
		"function":  KindFunction,
		"variable":  KindVariable,
		"typealias": KindTypeAlias,
		"namespace": KindNamespace,
	}
	for tag, want := range recognized {
		got, ok := ParseDeclarationKind(tag)
		if !ok || got != want {
			t.Errorf("ParseDeclarationKind(%q) = (%q, %v), want (%q, true)", tag, got, ok, want)
		}
	}

	for _, tag := range []string{"struct", "Class", "CLASS", "", "method"} {
		if got, ok := ParseDeclarationKind(tag); ok {
			t.Errorf("ParseDeclarationKind(%q) = (%q, true), want unrecognized", tag, got)
		}
	}
}

func TestGraph_ChildrenNamed(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(InvalidNode, "Shape", "Shape", KindClass)
	area1 := g.AddNode(root, "Shape", "area", KindFunction)
	g.AddNode(root, "Shape", "name", KindVariable)
	area2 := g.AddNode(root, "Shape", "area", KindFunction)

	got := g.ChildrenNamed(root, "area")
	if len(got) != 2 || got[0] != area1 || got[1] != area2 {
		t.Errorf("ChildrenNamed(area) = %v, want [%d %d] in declaration order", got, area1, area2)
	}

	if got := g.ChildrenNamed(root, "resize"); got != nil {
		t.Errorf("ChildrenNamed(resize) = %v, want none", got)
	}
}

func TestGraph_PathAndLinks(t *testing.T) {
	g := NewGraph()
	forms := g.AddNode(InvalidNode, "Forms", "Forms", KindNamespace)
	input := g.AddNode(forms, "Forms", "Input", KindClass)
	value := g.AddNode(input, "Forms", "value", KindVariable)

	if got := g.Path(value); got != "Forms.Input.value" {
		t.Errorf("Path = %q, want %q", got, "Forms.Input.value")
	}
	if g.Parent(value) != input || g.Parent(input) != forms {
		t.Errorf("parent links are wrong")
	}
	if g.Parent(forms) != InvalidNode {
		t.Errorf("Parent(root) = %d, want InvalidNode", g.Parent(forms))
	}
	if g.Export(value) != "Forms" {
		t.Errorf("Export = %q, want %q", g.Export(value), "Forms")
	}
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
}

func TestSymbolTable_Bind(t *testing.T) {
	g := NewGraph()
	table := NewSymbolTable(g)
	mod := table.AddModule("widgets")

	button := g.AddNode(InvalidNode, "Button", "Button", KindClass)
	if err := mod.Bind(&LocalEntity{Name: "Button", Decls: []NodeID{button}}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// One entity per (module, name): rebinding must fail.
	if err := mod.Bind(&LocalEntity{Name: "Button", Decls: []NodeID{button}}); err == nil {
		t.Error("rebinding Button succeeded, want error")
	}

	e, ok := mod.Export("Button")
	if !ok {
		t.Fatal("Export(Button) not found")
	}
	local, ok := e.(*LocalEntity)
	if !ok {
		t.Fatalf("Export(Button) = %T, want *LocalEntity", e)
	}
	if len(local.Decls) != 1 || local.Decls[0] != button {
		t.Errorf("Decls = %v, want [%d]", local.Decls, button)
	}

	if _, ok := mod.Export("Missing"); ok {
		t.Error("Export(Missing) found, want absent")
	}
}

func TestSymbolTable_RootModule(t *testing.T) {
	g := NewGraph()
	table := NewSymbolTable(g)

	if _, ok := table.RootModuleOf("widgets"); ok {
		t.Error("RootModuleOf on empty table succeeded")
	}

	table.AddModule("widgets")
	table.AddModule("widgets/internal")

	root, ok := table.RootModuleOf("widgets")
	if !ok || root.Name() != "widgets" {
		t.Errorf("RootModuleOf = %v (ok=%v), want first-added module", root, ok)
	}

	table.SetRootModule("widgets/internal")
	root, ok = table.RootModuleOf("widgets")
	if !ok || root.Name() != "widgets/internal" {
		t.Errorf("RootModuleOf after SetRootModule = %v, want widgets/internal", root)
	}
}

func TestModule_ExportNames_Order(t *testing.T) {
	g := NewGraph()
	table := NewSymbolTable(g)
	mod := table.AddModule("widgets")

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		id := g.AddNode(InvalidNode, name, name, KindClass)
		if err := mod.Bind(&LocalEntity{Name: name, Decls: []NodeID{id}}); err != nil {
			t.Fatalf("Bind(%s) failed: %v", name, err)
		}
	}

	got := mod.ExportNames()
	want := []string{"Zeta", "Alpha", "Mid"}
	if len(got) != len(want) {
		t.Fatalf("ExportNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExportNames = %v, want binding order %v", got, want)
		}
	}
}
