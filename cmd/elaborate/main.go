// Command elaborate loads a YAML-described lowered module (spec.md §6.1),
// runs the core elaborator over it, and prints either the zonked typed
// module or a colorized error report — the smallest possible driver for
// exercising internal/elaborate end to end without the concrete-syntax
// frontend this repo deliberately leaves out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/duotype/duo/internal/elaborate"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/module"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		traceFlag   = flag.Bool("trace", false, "Print a trace of declaration/metavariable events")
		jsonFlag    = flag.Bool("json", false, "Print errors as JSON instead of a colorized report")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("elaborate (duo core) dev")
		return
	}
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing fixture argument\n", red("Error"))
		fmt.Fprintln(os.Stderr, "Usage: elaborate [-trace] [-json] <fixture.yaml>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *traceFlag, *jsonFlag); err != nil {
		os.Exit(1)
	}
}

func run(path string, trace, asJSON bool) error {
	lowered, err := module.LoadLoweredModule(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), err)
		return err
	}

	prog := module.NewProgram(lowered.URI, lowered.Decls, lowered.Symbols)
	elab := elaborate.New(prog, lowered.Store)
	if trace {
		elab.Trace = func(ev elaborate.TraceEvent) {
			fmt.Fprintf(os.Stderr, "[trace] %s %s\n", ev.Step, traceDetail(ev))
		}
	}

	typed, cerr := elab.CheckModule()
	if cerr != nil {
		printError(cerr, asJSON)
		return cerr
	}

	fmt.Printf("%s module %s: %d declarations elaborated\n", green("OK"), bold(prog.URI), len(typed))
	// CheckModule already rejects any unsolved MustSolve/Inserted metavariable
	// (spec.md §5); anything still Unsolved here is an acknowledged CanSolve
	// gap, reported but not fatal (spec.md §4 Open Question resolution).
	for _, u := range lowered.Store.Unsolved() {
		fmt.Printf("  %s: m%d left unsolved (?)\n", bold("gap"), u)
	}
	return nil
}

func traceDetail(ev elaborate.TraceEvent) string {
	switch ev.Step {
	case "decl:enter", "decl:exit":
		return ev.Name
	case "meta:fresh", "meta:solve":
		return fmt.Sprintf("m%d %s", ev.MetaID, ev.Detail)
	default:
		return ev.Detail
	}
}

func printError(err error, asJSON bool) {
	rep, ok := errors.AsReport(err)
	if !ok {
		rep = errors.NewGeneric("elaborate", err)
	}
	if asJSON {
		out, jerr := rep.ToJSON(false)
		if jerr != nil {
			fmt.Fprintln(os.Stderr, rep.Error())
			return
		}
		fmt.Fprintln(os.Stderr, out)
		return
	}
	fmt.Fprint(os.Stderr, rep.Pretty())
}
