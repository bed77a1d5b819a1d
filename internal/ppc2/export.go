// export.go - Exported entry points for consumers outside this package
//
// Everything else in this package is built around lowercase opcode
// constructors (fxcpmadd, lfpd, ...) shared by the in-package tests. The
// handful wrapped here are the ones a host program or the stencilgen DSL
// needs to hand instructions to the scheduler without reaching into the
// package's internals.

package ppc2

// Fxcpmadd builds an fxcpmadd instruction: rt := (ra.p*rc.p+rb.p, ra.p*rc.s+rb.s).
func Fxcpmadd(rt, ra, rc, rb RegRef) *Instruction { return fxcpmadd(rt, ra, rc, rb) }

// Fpadd builds an fpadd instruction: rt := (ra.p+rb.p, ra.s+rb.s).
func Fpadd(rt, ra, rb RegRef) *Instruction { return fpadd(rt, ra, rb) }

// Fxmul builds an fxmul instruction: rt := (ra.s*rc.p, ra.p*rc.s).
func Fxmul(rt, ra, rc RegRef) *Instruction { return fxmul(rt, ra, rc) }

// Lfpd builds a paired-double load: frt := (mem[ea], mem[ea+1]).
func Lfpd(frt, ra RegRef, d int) *Instruction { return lfpd(frt, ra, d) }

// Lfd builds a single-double load into the primary slot.
func Lfd(frt, ra RegRef, d int) *Instruction { return lfd(frt, ra, d) }

// Stfpdux builds a paired-double update-form store.
func Stfpdux(frs, ra, rb RegRef) *Instruction { return stfpdux(frs, ra, rb) }

// Fpset2 seeds a paired FP register directly to (p, s).
func Fpset2(frt RegRef, p, s float64) *Instruction { return fpset2(frt, p, s) }

// Intset seeds an integer register directly.
func Intset(ra RegRef, val int) *Instruction { return intset(ra, val) }

// StencilStream builds the nine-step load stream for grid cell (i,j)
// rooted at base, the same generator BuildStencilBag uses per cell.
func StencilStream(i, j int, base RegRef) []*Instruction {
	return stencilStream(i, j, base)
}
