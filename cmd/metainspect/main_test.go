package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
)

func newStoreWithEntries() *meta.Store {
	s := meta.NewStore()
	solved := s.Fresh(ast.Context{}, ast.MustSolve)
	_ = s.Solve(solved, &ast.TypCtor{Name: "Nat"})
	s.Fresh(ast.Context{}, ast.CanSolve)
	return s
}

func TestDispatchListShowsEveryEntry(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	dispatch(s, ":list", &buf)
	out := buf.String()
	if !strings.Contains(out, "m1") || !strings.Contains(out, "m2") {
		t.Fatalf("expected both entries listed, got %q", out)
	}
}

func TestDispatchUnsolvedShowsOnlyUnsolved(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	dispatch(s, ":unsolved", &buf)
	out := buf.String()
	if strings.Contains(out, "m1") {
		t.Fatalf("expected solved m1 to be excluded from :unsolved, got %q", out)
	}
	if !strings.Contains(out, "m2") {
		t.Fatalf("expected unsolved m2 to be listed, got %q", out)
	}
}

func TestDispatchSolvedShowsOnlySolved(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	dispatch(s, ":solved", &buf)
	out := buf.String()
	if !strings.Contains(out, "m1") || strings.Contains(out, "m2") {
		t.Fatalf("expected only solved m1 listed, got %q", out)
	}
}

func TestDispatchShowsOneEntryById(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	dispatch(s, "m1", &buf)
	if !strings.Contains(buf.String(), "Nat") {
		t.Fatalf("expected m1's solution Nat to be printed, got %q", buf.String())
	}
}

func TestDispatchReportsUnknownId(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	dispatch(s, "m99", &buf)
	if !strings.Contains(buf.String(), "no metavariable") {
		t.Fatalf("expected an error message for an unknown id, got %q", buf.String())
	}
}

func TestDispatchQuitReturnsFalse(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	if dispatch(s, ":quit", &buf) {
		t.Fatal("expected :quit to signal the shell should stop")
	}
}

func TestRunScannerShellProcessesMultipleCommands(t *testing.T) {
	s := newStoreWithEntries()
	var buf bytes.Buffer
	in := strings.NewReader("m1\nm2\n:quit\nm1\n")
	runScannerShell(s, in, &buf)
	out := buf.String()
	if !strings.Contains(out, "Nat") {
		t.Fatalf("expected m1's entry to print before quitting, got %q", out)
	}
	if strings.Count(out, "unsolved") != 1 {
		t.Fatalf("expected exactly one unsolved entry (m2) before :quit, got %q", out)
	}
}
