package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/duotype/duo/internal/elaborate"
)

const okFixture = `
uri: test://ok
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
`

const badFixture = `
uri: test://bad
decls:
  - kind: let
    name: main
    type: {kind: typctor, name: Bool}
    body: {kind: call, callKind: ctor, name: T}
`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestRunSucceedsOnWellTypedFixture(t *testing.T) {
	if err := run(writeFixture(t, okFixture), false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunFailsOnUnknownTypeConstructor(t *testing.T) {
	if err := run(writeFixture(t, badFixture), false, false); err == nil {
		t.Fatal("expected an error for a reference to an undeclared type Bool")
	}
}

func TestRunFailsOnMissingFile(t *testing.T) {
	if err := run(filepath.Join(t.TempDir(), "missing.yaml"), false, false); err == nil {
		t.Fatal("expected an error for a missing fixture file")
	}
}

func TestTraceDetailFormatsByStep(t *testing.T) {
	declEv := elaborate.TraceEvent{Step: "decl:enter", Name: "main"}
	if got := traceDetail(declEv); got != "main" {
		t.Fatalf("expected decl event detail to be the decl name, got %q", got)
	}
	metaEv := elaborate.TraceEvent{Step: "meta:fresh", MetaID: 3, Detail: "?"}
	if got := traceDetail(metaEv); got != "m3 ?" {
		t.Fatalf("expected meta event detail to carry the id, got %q", got)
	}
	other := elaborate.TraceEvent{Step: "zonk", Detail: "done"}
	if got := traceDetail(other); got != "done" {
		t.Fatalf("expected default case to pass Detail through, got %q", got)
	}
}
