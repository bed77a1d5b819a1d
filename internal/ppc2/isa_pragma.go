// isa_pragma.go - Pragmatic pseudo-ops
//
// These exist for test/scaffolding convenience (seeding register state,
// marking a trace checkpoint) and are never emitted by AsmEmitter
// (spec.md §9: pragmatic instructions are a scheduling/simulation
// convenience, not real PPC opcodes).

package ppc2

// fpset2 directly seeds a paired FP register to (p, s), bypassing the
// arithmetic unit entirely: unit FP, single-cycle, pragmatic.
func fpset2(frt RegRef, p, s float64) *Instruction {
	i := newInstruction("fpset2", UnitFP, fpMoveLatency, fpMoveThroughput, 0, true)
	i.operand("frt", RegOperand(frt))
	i.writesFP(frt)
	i.Run = func(c *Core) error {
		return writeFPRef(c, frt, FPVal{P: p, S: s})
	}
	return i
}

// intset directly seeds an integer register: unit INT, single-cycle,
// pragmatic.
func intset(ra RegRef, val int) *Instruction {
	i := newInstruction("intset", UnitINT, intSetLatency, intSetThroughput, 0, true)
	i.operand("ra", RegOperand(ra))
	i.writesInt(ra)
	i.Run = func(c *Core) error {
		n, err := intRegNum(ra)
		if err != nil {
			return err
		}
		return c.writeInt(n, IntVal{Val: val})
	}
	return i
}

// inspect is a trace checkpoint: it touches no register and carries zero
// latency, existing only so a trace sink can mark a point in the
// schedule (e.g. "end of prologue"). It still occupies the INT unit for
// one cycle, the minimum throughput any instruction can claim.
func inspect(label string) *Instruction {
	i := newInstruction("inspect", UnitINT, 0, 1, 0, true)
	i.operand("label", ImmOperand(0))
	i.Op = "inspect " + label
	i.Run = func(c *Core) error { return nil }
	return i
}
