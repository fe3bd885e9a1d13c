package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/duotype/duo/internal/ast"
)

const fixtureYAML = `
uri: test://minimal
decls:
  - kind: data
    name: Bool
    ctors:
      - name: T
        returnType: {name: Bool}
      - name: F
        returnType: {name: Bool}
  - kind: let
    name: main
    type: {kind: typctor, name: Bool}
    body: {kind: call, callKind: ctor, name: T}
holes:
  - id: 0
    kind: canSolve
    ctx: [1, 2]
`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadLoweredModuleDecodesDeclsAndHoles(t *testing.T) {
	path := writeFixture(t, fixtureYAML)
	lowered, err := LoadLoweredModule(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lowered.URI != "test://minimal" {
		t.Fatalf("expected uri test://minimal, got %s", lowered.URI)
	}
	if len(lowered.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(lowered.Decls))
	}
	data, ok := lowered.Decls[0].(*ast.Data)
	if !ok || len(data.Ctors) != 2 {
		t.Fatalf("expected data Bool with 2 ctors, got %v", lowered.Decls[0])
	}
	let, ok := lowered.Decls[1].(*ast.Let)
	if !ok || let.NameStr != "main" {
		t.Fatalf("expected let main, got %v", lowered.Decls[1])
	}

	if _, ok := lowered.Store.Get(0); !ok {
		t.Fatal("expected hole id 0 to be registered in the store")
	}
	if sym, ok := lowered.Symbols["T"]; !ok || sym.Kind != SymCtor || sym.Parent != "Bool" {
		t.Fatalf("expected nested ctor symbol T parented to Bool, got %v", sym)
	}
}

func TestLoadLoweredModuleRejectsOutOfSequenceHoleIDs(t *testing.T) {
	const bad = `
uri: test://bad
decls: []
holes:
  - id: 5
    kind: mustSolve
    ctx: []
`
	path := writeFixture(t, bad)
	if _, err := LoadLoweredModule(path); err == nil {
		t.Fatal("expected an error for an out-of-sequence hole id")
	}
}

func TestNewProgramIndexesDeclsForLookup(t *testing.T) {
	path := writeFixture(t, fixtureYAML)
	lowered, err := LoadLoweredModule(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prog := NewProgram(lowered.URI, lowered.Decls, lowered.Symbols)

	if _, ok := prog.Data("Bool"); !ok {
		t.Fatal("expected Data(\"Bool\") to be found")
	}
	ctor, data, ok := prog.Ctor("T")
	if !ok || ctor.Name != "T" || data.NameStr != "Bool" {
		t.Fatalf("expected Ctor(\"T\") to resolve under Bool, got %v %v", ctor, data)
	}
	if _, ok := prog.Ctor("nope"); ok {
		t.Fatal("expected Ctor(\"nope\") to fail")
	}
	main, ok := prog.Main()
	if !ok || main.NameStr != "main" {
		t.Fatal("expected Main() to find the parameter-less let named main")
	}
}

func TestProgramMainRequiresZeroParams(t *testing.T) {
	let := &ast.Let{NameStr: "main", Params: ast.Telescope{{Name: "x"}}}
	prog := NewProgram("test", []ast.Decl{let}, SymbolTable{})
	if _, ok := prog.Main(); ok {
		t.Fatal("expected a parameterized \"main\" not to count as the entry point")
	}
}
