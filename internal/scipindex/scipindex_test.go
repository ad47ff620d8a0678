package scipindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"declref/internal/model"
)

// widgetsIndex builds a small in-memory SCIP index for a "widgets"
// npm package: a class with a method, a namespace with a nested class,
// a local symbol, and a symbol from a foreign package.
func widgetsIndex() *scippb.Index {
	sym := func(symbol string, kind scippb.SymbolInformation_Kind) *scippb.SymbolInformation {
		return &scippb.SymbolInformation{Symbol: symbol, Kind: kind}
	}

	return &scippb.Index{
		Metadata: &scippb.Metadata{
			ProjectRoot: "file:///widgets",
			ToolInfo:    &scippb.ToolInfo{Name: "scip-typescript", Version: "0.3.0"},
		},
		Documents: []*scippb.Document{
			{
				RelativePath: "src/button.ts",
				Language:     "typescript",
				Symbols: []*scippb.SymbolInformation{
					sym("scip-typescript npm widgets 1.0.0 Button#", scippb.SymbolInformation_Class),
					sym("scip-typescript npm widgets 1.0.0 Button#onClick().", scippb.SymbolInformation_Method),
					sym("local 3", scippb.SymbolInformation_Variable),
					sym("scip-typescript npm react 18.0.0 Component#", scippb.SymbolInformation_Class),
				},
			},
			{
				RelativePath: "src/forms.ts",
				Language:     "typescript",
				Symbols: []*scippb.SymbolInformation{
					// Nested class listed before its namespace: BuildTable
					// must not depend on index order.
					sym("scip-typescript npm widgets 1.0.0 Forms/Input#", scippb.SymbolInformation_Class),
					sym("scip-typescript npm widgets 1.0.0 Forms/Input#value.", scippb.SymbolInformation_Property),
					sym("scip-typescript npm widgets 1.0.0 Forms/", scippb.SymbolInformation_Namespace),
				},
			},
		},
	}
}

func TestBuildTable(t *testing.T) {
	table, err := BuildTable(widgetsIndex(), "widgets")
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	mod, ok := table.RootModuleOf("widgets")
	if !ok {
		t.Fatal("RootModuleOf failed")
	}
	graph := table.Graph()

	// Foreign-package and local symbols are skipped.
	if _, ok := mod.Export("Component"); ok {
		t.Error("foreign package symbol leaked into the table")
	}

	button, ok := mod.Export("Button")
	if !ok {
		t.Fatal("Button not exported")
	}
	local := button.(*model.LocalEntity)
	if len(local.Decls) != 1 || graph.Kind(local.Decls[0]) != model.KindClass {
		t.Fatalf("Button = %v, want one class declaration", local.Decls)
	}
	onClick := graph.ChildrenNamed(local.Decls[0], "onClick")
	if len(onClick) != 1 || graph.Kind(onClick[0]) != model.KindFunction {
		t.Errorf("Button.onClick = %v, want one function", onClick)
	}

	forms, ok := mod.Export("Forms")
	if !ok {
		t.Fatal("Forms not exported")
	}
	formsNode := forms.(*model.LocalEntity).Decls[0]
	if graph.Kind(formsNode) != model.KindNamespace {
		t.Errorf("Forms kind = %q, want namespace", graph.Kind(formsNode))
	}
	input := graph.ChildrenNamed(formsNode, "Input")
	if len(input) != 1 {
		t.Fatalf("Forms.Input = %v, want one child", input)
	}
	value := graph.ChildrenNamed(input[0], "value")
	if len(value) != 1 || graph.Kind(value[0]) != model.KindVariable {
		t.Errorf("Forms.Input.value = %v, want one variable", value)
	}
}

func TestBuildTable_RequiresPackage(t *testing.T) {
	if _, err := BuildTable(widgetsIndex(), ""); err == nil {
		t.Fatal("BuildTable with empty package succeeded, want error")
	}
}

func TestDeclarationKind_SuffixFallback(t *testing.T) {
	// Unspecified kinds fall back to the descriptor suffix.
	index := &scippb.Index{
		Documents: []*scippb.Document{{
			RelativePath: "src/lib.ts",
			Symbols: []*scippb.SymbolInformation{
				{Symbol: "scip-typescript npm widgets 1.0.0 Shape#"},
				{Symbol: "scip-typescript npm widgets 1.0.0 render()."},
				{Symbol: "scip-typescript npm widgets 1.0.0 VERSION."},
			},
		}},
	}

	table, err := BuildTable(index, "widgets")
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	mod, _ := table.RootModuleOf("widgets")
	graph := table.Graph()

	wantKinds := map[string]model.DeclarationKind{
		"Shape":   model.KindClass,
		"render":  model.KindFunction,
		"VERSION": model.KindVariable,
	}
	for name, want := range wantKinds {
		entity, ok := mod.Export(name)
		if !ok {
			t.Errorf("export %q missing", name)
			continue
		}
		node := entity.(*model.LocalEntity).Decls[0]
		if got := graph.Kind(node); got != want {
			t.Errorf("kind of %q = %q, want %q", name, got, want)
		}
	}
}

func TestLoadIndex(t *testing.T) {
	data, err := proto.Marshal(widgetsIndex())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	dir := t.TempDir()

	plain := filepath.Join(dir, "index.scip")
	if err := os.WriteFile(plain, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	index, err := LoadIndex(plain)
	if err != nil {
		t.Fatalf("LoadIndex(plain) failed: %v", err)
	}
	if len(index.Documents) != 2 {
		t.Errorf("plain index has %d documents, want 2", len(index.Documents))
	}

	compressed := filepath.Join(dir, "index.scip.gz")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	index, err = LoadIndex(compressed)
	if err != nil {
		t.Fatalf("LoadIndex(gzip) failed: %v", err)
	}
	if len(index.Documents) != 2 {
		t.Errorf("gzip index has %d documents, want 2", len(index.Documents))
	}

	if _, err := LoadIndex(filepath.Join(dir, "missing.scip")); err == nil {
		t.Error("LoadIndex(missing) succeeded, want error")
	}
}
