// Command metainspect loads a YAML lowered-module fixture, elaborates it,
// and drops into an interactive shell for browsing the resulting
// metavariable store by id — repurposing the teacher REPL's liner/color
// loop from "evaluate an expression" to "inspect a store entry" (DESIGN.md).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/elaborate"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/module"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing fixture argument\n", red("Error"))
		fmt.Fprintln(os.Stderr, "Usage: metainspect <fixture.yaml>")
		os.Exit(1)
	}

	lowered, err := module.LoadLoweredModule(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), err)
		os.Exit(1)
	}
	prog := module.NewProgram(lowered.URI, lowered.Decls, lowered.Symbols)
	elab := elaborate.New(prog, lowered.Store)
	if _, cerr := elab.CheckModule(); cerr != nil {
		fmt.Fprintf(os.Stderr, "%s: elaboration failed: %v\n", yellow("Warning"), cerr)
		fmt.Fprintln(os.Stderr, dim("entering metainspect anyway — the store reflects whatever solved before the error"))
	}

	runShell(lowered.Store, os.Stdin, os.Stdout)
}

// runShell drives the liner-backed REPL loop. Passing a non-terminal stdin
// (as tests do) falls back to a plain bufio.Scanner prompt.
func runShell(store *meta.Store, in io.Reader, out io.Writer) {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		runLinerShell(store, out)
		return
	}
	runScannerShell(store, in, out)
}

func runLinerShell(store *meta.Store, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCompleter(func(s string) (c []string) {
		for _, cmd := range []string{":help", ":quit", ":list", ":unsolved", ":solved"} {
			if strings.HasPrefix(cmd, s) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintln(out, bold("metainspect"), dim("— type :help for commands, :quit to exit"))
	for {
		input, err := line.Prompt("meta> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		line.AppendHistory(input)
		if !dispatch(store, strings.TrimSpace(input), out) {
			return
		}
	}
}

func runScannerShell(store *meta.Store, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !dispatch(store, strings.TrimSpace(scanner.Text()), out) {
			return
		}
	}
}

// dispatch runs one command and returns false when the shell should exit.
func dispatch(store *meta.Store, input string, out io.Writer) bool {
	switch {
	case input == "":
		return true
	case input == ":quit" || input == ":q":
		fmt.Fprintln(out, green("Goodbye!"))
		return false
	case input == ":help":
		printHelp(out)
	case input == ":list":
		listAll(store, out)
	case input == ":unsolved":
		listFiltered(store, store.Unsolved(), out)
	case input == ":solved":
		listSolved(store, out)
	case strings.HasPrefix(input, "m"):
		showOne(store, strings.TrimPrefix(input, "m"), out)
	default:
		showOne(store, input, out)
	}
	return true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "  :list       show every metavariable")
	fmt.Fprintln(out, "  :unsolved   show unsolved metavariables (CanSolve gaps, after a clean run)")
	fmt.Fprintln(out, "  :solved     show solved metavariables and their solutions")
	fmt.Fprintln(out, "  m<id>|<id>  show one metavariable's entry, e.g. m3 or 3")
	fmt.Fprintln(out, "  :quit       exit")
}

func listAll(store *meta.Store, out io.Writer) {
	listFiltered(store, store.All(), out)
}

func listSolved(store *meta.Store, out io.Writer) {
	var ids []meta.Id
	unsolved := map[meta.Id]bool{}
	for _, id := range store.Unsolved() {
		unsolved[id] = true
	}
	for _, id := range store.All() {
		if !unsolved[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listFiltered(store, ids, out)
}

func listFiltered(store *meta.Store, ids []meta.Id, out io.Writer) {
	if len(ids) == 0 {
		fmt.Fprintln(out, dim("(none)"))
		return
	}
	for _, id := range ids {
		printEntry(store, id, out)
	}
}

func showOne(store *meta.Store, idStr string, out io.Writer) {
	n, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		fmt.Fprintf(out, "%s: not a metavariable id: %q\n", red("Error"), idStr)
		return
	}
	if _, ok := store.Get(meta.Id(n)); !ok {
		fmt.Fprintf(out, "%s: no metavariable m%d\n", red("Error"), n)
		return
	}
	printEntry(store, meta.Id(n), out)
}

func printEntry(store *meta.Store, id meta.Id, out io.Writer) {
	e := store.MustGet(id)
	kind := cyan(e.Kind.String())
	if e.Solved() {
		fmt.Fprintf(out, "%s %s = %s\n", bold(fmt.Sprintf("m%d", id)), kind, exprString(e.Solution))
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", bold(fmt.Sprintf("m%d", id)), kind, yellow("unsolved"))
}

func exprString(e ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprint(e)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
