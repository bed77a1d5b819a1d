// main.go - CLI entry point for the pipeline simulator
//
// Following the teacher's main.go: flag-based switches, no config file,
// no third-party CLI framework; fallible setup prints and os.Exit(1)s at
// this boundary, the only place in this binary that does.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

func main() {
	mode := flag.String("mode", "demo", "demo|schedule|execute")
	traceFlag := flag.Bool("trace", false, "print issue/stall trace to stdout")
	visualize := flag.Bool("visualize", false, "open the live pipeline viewer (requires a non-headless build)")
	sonic := flag.Bool("sonic", false, "play an audible trace (requires a non-headless build)")
	emitAsm := flag.Bool("emit-asm", false, "emit C inline-assembly for the scheduled sequence")
	clip := flag.Bool("clipboard", false, "copy emitted assembly to the system clipboard")
	step := flag.Bool("step", false, "interactively single-step the scheduled sequence")
	dump := flag.Bool("dump", false, "print a diagnostic dump of core state after running")
	flush := flag.Bool("flush", false, "flush the countdown tables and write-through bucket between scheduling and execution")
	flag.Parse()

	core := ppc2.NewCore(ppc2.DefaultFPRegisters, ppc2.DefaultIntRegisters, ppc2.DefaultMemoryDoubles)

	var sinks []ppc2.TraceSink
	var view *PipelineView
	if *visualize {
		view = NewPipelineView(core, 24)
		sinks = append(sinks, view)
	} else if *traceFlag {
		sinks = append(sinks, ppc2.NewStdoutTraceSink())
	}

	if *sonic {
		st, err := NewSonicTrace()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize audible trace: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		sinks = append(sinks, st)
	}

	if len(sinks) > 0 {
		core.SetTrace(ppc2.FanoutTraceSink{Sinks: sinks})
	}

	run := func() error {
		bag, err := ppc2.BuildStencilBag(context.Background())
		if err != nil {
			return fmt.Errorf("failed to build stencil bag: %w", err)
		}

		switch *mode {
		case "demo":
			return runDemo(core)
		case "schedule", "execute":
			scheduled, err := ppc2.Schedule(core, bag)
			if err != nil {
				return fmt.Errorf("scheduling failed: %w", err)
			}
			fmt.Printf("scheduled %d instructions\n", len(scheduled))

			if *flush {
				core.FlushPipeline()
			}

			if *mode == "execute" {
				if *step {
					if err := RunStepper(core, scheduled); err != nil {
						return fmt.Errorf("stepper failed: %w", err)
					}
				} else if err := core.Execute(scheduled); err != nil {
					return fmt.Errorf("execution failed: %w", err)
				}
				fmt.Printf("final cycle count: %d\n", core.Cycle)
			}

			if *emitAsm {
				var out strings.Builder
				emitter := ppc2.NewAsmEmitter(func(line string) { out.WriteString(line + "\n") })
				if err := emitter.EmitAll(core, scheduled); err != nil {
					return fmt.Errorf("emit failed: %w", err)
				}
				fmt.Print(out.String())
				if *clip {
					if err := CopyToClipboard(out.String()); err != nil {
						return fmt.Errorf("clipboard copy failed: %w", err)
					}
				}
			}
		default:
			return fmt.Errorf("unknown -mode %q", *mode)
		}

		if *dump {
			fmt.Println(core.String())
		}
		return nil
	}

	// ebiten requires its window loop to run on the main goroutine, so when
	// a live viewer is requested the scheduler/executor run concurrently on
	// a worker goroutine while view.Run() blocks here; Draw reads Core's
	// state live via Snapshot/Counter/Cycle as the worker mutates it.
	if view != nil {
		done := make(chan error, 1)
		go func() { done <- run() }()
		go func() {
			if err := <-done; err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}()
		if err := view.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "viewer failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDemo issues the concrete hazard/throughput scenario from spec.md §8
// against a fresh Core and prints the resulting cycle count.
func runDemo(core *ppc2.Core) error {
	r0, r1, r2 := ppc2.PhysRef(ppc2.FP(0)), ppc2.PhysRef(ppc2.FP(1)), ppc2.PhysRef(ppc2.FP(2))
	instr := ppc2.Fxcpmadd(r0, r1, r2, r0)
	if err := core.IssueOne(instr); err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	if err := core.IssueOne(instr); err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	fmt.Printf("fxcpmadd hazard demo: cycle=%d (expect 5)\n", core.Cycle)
	return nil
}
