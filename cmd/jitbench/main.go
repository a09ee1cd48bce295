// Command jitbench exercises the concrete end-to-end scenarios from
// spec.md §8 against both the interpreter and the JIT path, and
// reports whether the two agree (the interpreter-equivalence
// invariant).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/engineconf"
	"github.com/FocuswithJustin/jitexpr/executor"
	"github.com/FocuswithJustin/jitexpr/ir"
	"github.com/FocuswithJustin/jitexpr/jitlog"
	"github.com/FocuswithJustin/jitexpr/luaenv"
)

var cli struct {
	Run RunCmd `cmd:"" default:"1" help:"Run the built-in JIT demonstration scenarios"`
}

// RunCmd drives every scenario (or one, via --scenario) through the
// executor twice: enough interpreted warm-up calls to cross the
// trigger threshold, then one more call that should run compiled.
type RunCmd struct {
	Scenario string `help:"Run only the named scenario" optional:""`
	Verbose  bool   `short:"v" help:"Enable debug-level JIT logging"`
}

func (c *RunCmd) Run() error {
	if c.Verbose {
		jitlog.InitLogger(slog.LevelDebug)
	}

	scenarios := allScenarios()
	ran, passed := 0, 0
	for _, s := range scenarios {
		if c.Scenario != "" && s.name != c.Scenario {
			continue
		}
		ran++
		if err := runScenario(s); err != nil {
			fmt.Printf("[FAIL] %s: %v\n", s.name, err)
			continue
		}
		passed++
	}

	if ran == 0 {
		return fmt.Errorf("no scenario named %q", c.Scenario)
	}
	fmt.Printf("\n%s/%s scenarios passed\n", humanize.Comma(int64(passed)), humanize.Comma(int64(ran)))
	if passed != ran {
		return fmt.Errorf("%d scenario(s) failed", ran-passed)
	}
	return nil
}

func header(title string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("\033[1m== %s ==\033[0m\n", title)
	} else {
		fmt.Printf("== %s ==\n", title)
	}
}

type scenario struct {
	name    string
	expr    ir.Expr
	inputs  map[int]*columnar.Vector
	count   int
	resultT ir.LogicalType
}

func runScenario(s scenario) error {
	header(s.name)

	cfg := engineconf.NewDefault()
	cfg.JITTriggerCount = 1
	cfg.JITComplexityThreshold = 0

	rt := luaenv.New()
	defer rt.Close()
	ex := executor.New(rt, cfg)
	st := executor.NewState(s.expr)

	interp := columnar.NewFlatResult(s.resultT, s.count)
	if err := executor.Interpret(s.expr, s.inputs, nil, s.count, interp); err != nil {
		return fmt.Errorf("interpreter: %w", err)
	}

	// Warm up past the trigger threshold, then run once more; the last
	// call should go through the compiled routine.
	var jitResult *columnar.Vector
	for i := 0; i < 2; i++ {
		jitResult = columnar.NewFlatResult(s.resultT, s.count)
		if err := ex.Execute(st, s.inputs, nil, s.count, jitResult); err != nil {
			return fmt.Errorf("execute: %w", err)
		}
	}

	if !st.CompilationSucceeded {
		fmt.Println("  (ran via interpreter fallback)")
	}
	if !vectorsEqual(interp, jitResult) {
		return fmt.Errorf("jit result diverges from interpreter result")
	}
	fmt.Printf("  ok: %d rows, result type %s\n", s.count, s.resultT)
	return nil
}

func vectorsEqual(a, b *columnar.Vector) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i := 0; i < a.Count(); i++ {
		if a.RowIsValid(i) != b.RowIsValid(i) {
			return false
		}
		if !a.RowIsValid(i) {
			continue
		}
		switch a.Type {
		case ir.BOOLEAN:
			if a.BoolAt(i) != b.BoolAt(i) {
				return false
			}
		case ir.TINYINT, ir.SMALLINT, ir.INTEGER, ir.DATE:
			if a.Int32At(i) != b.Int32At(i) {
				return false
			}
		case ir.BIGINT, ir.TIMESTAMP:
			if a.Int64At(i) != b.Int64At(i) {
				return false
			}
		case ir.FLOAT, ir.DOUBLE:
			if a.Float64At(i) != b.Float64At(i) {
				return false
			}
		case ir.VARCHAR:
			if a.StringAt(i) != b.StringAt(i) {
				return false
			}
		}
	}
	return true
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name("jitbench"),
		kong.Description("Demonstrates the JIT expression path against spec.md §8 scenarios."),
	)
	err := ktx.Run()
	ktx.FatalIfErrorf(err)
}
