// Command stencilgen lets an engineer describe a stencil sweep in Lua
// instead of recompiling Go: a small embeddable DSL (emit_fxcpmadd,
// emit_lfpd, stream(i,j)-style generators) builds up an instruction bag
// the same shape BuildStencilBag produces internally, then hands it to
// the scheduler and prints the resulting C inline-assembly. With no
// script argument it falls back to BuildStencilBag's own default shape.
// Grown out of the teacher's cmd/ subcommand convention.
package main

import (
	"context"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

// builder accumulates the instructions a Lua script emits via the
// registered DSL globals.
type builder struct {
	program []*ppc2.Instruction
}

func fpReg(n int) ppc2.RegRef  { return ppc2.PhysRef(ppc2.FP(n)) }
func intReg(n int) ppc2.RegRef { return ppc2.PhysRef(ppc2.Int(n)) }

// register installs the DSL's Go-backed globals into L. Register numbers
// are plain Lua integers naming physical FP/integer registers; scripts
// have no notion of the symbolic allocator.
func (b *builder) register(L *lua.LState) {
	fn := func(name string, f lua.LGFunction) { L.SetGlobal(name, L.NewFunction(f)) }

	fn("emit_fxcpmadd", func(L *lua.LState) int {
		rt, ra, rc, rb := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
		b.program = append(b.program, ppc2.Fxcpmadd(fpReg(rt), fpReg(ra), fpReg(rc), fpReg(rb)))
		return 0
	})
	fn("emit_fxmul", func(L *lua.LState) int {
		rt, ra, rc := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
		b.program = append(b.program, ppc2.Fxmul(fpReg(rt), fpReg(ra), fpReg(rc)))
		return 0
	})
	fn("emit_fpadd", func(L *lua.LState) int {
		rt, ra, rb := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
		b.program = append(b.program, ppc2.Fpadd(fpReg(rt), fpReg(ra), fpReg(rb)))
		return 0
	})
	fn("emit_lfpd", func(L *lua.LState) int {
		frt, ra, d := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
		b.program = append(b.program, ppc2.Lfpd(fpReg(frt), intReg(ra), d))
		return 0
	})
	fn("emit_stfpdux", func(L *lua.LState) int {
		frs, ra, rb := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
		b.program = append(b.program, ppc2.Stfpdux(fpReg(frs), intReg(ra), intReg(rb)))
		return 0
	})
	fn("emit_fpset2", func(L *lua.LState) int {
		frt := L.CheckInt(1)
		p, s := L.CheckNumber(2), L.CheckNumber(3)
		b.program = append(b.program, ppc2.Fpset2(fpReg(frt), float64(p), float64(s)))
		return 0
	})
	fn("emit_intset", func(L *lua.LState) int {
		ra, val := L.CheckInt(1), L.CheckInt(2)
		b.program = append(b.program, ppc2.Intset(intReg(ra), val))
		return 0
	})
	// stream(i, j, base) appends the nine-instruction per-cell load
	// stream BuildStencilBag generates for grid cell (i,j), rooted at
	// physical integer register base — the "stream(i,j)-style generator"
	// a hand-written script would otherwise have to spell out load by
	// load.
	fn("stream", func(L *lua.LState) int {
		i, j, base := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
		b.program = append(b.program, ppc2.StencilStream(i, j, intReg(base))...)
		return 0
	})
}

// runScript executes the Lua file at path with the DSL globals installed
// and returns the instructions it emitted, in emission order.
func runScript(path string) ([]*ppc2.Instruction, error) {
	b := &builder{}
	L := lua.NewState()
	defer L.Close()
	b.register(L)
	if err := L.DoFile(path); err != nil {
		return nil, err
	}
	return b.program, nil
}

func main() {
	var program []*ppc2.Instruction
	var err error
	if len(os.Args) > 1 {
		program, err = runScript(os.Args[1])
	} else {
		program, err = ppc2.BuildStencilBag(context.Background())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "stencilgen:", err)
		os.Exit(1)
	}

	// Physical-only DSL registers never exhaust the symbolic free pool,
	// but BuildStencilBag's default path still needs its usual headroom
	// for the ~86 distinct FP labels the 9-cell grid allocates.
	core := ppc2.NewCore(ppc2.DefaultFPRegisters*3, ppc2.DefaultIntRegisters, ppc2.DefaultMemoryDoubles)
	scheduled, err := ppc2.Schedule(core, program)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stencilgen: scheduling failed:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "stencilgen: scheduled %d instructions\n", len(scheduled))

	emitter := ppc2.NewAsmEmitter(func(line string) { fmt.Println(line) })
	if err := emitter.EmitAll(core, scheduled); err != nil {
		fmt.Fprintln(os.Stderr, "stencilgen: emit failed:", err)
		os.Exit(1)
	}
}
