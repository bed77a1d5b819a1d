// isa_fp.go - Paired-FP arithmetic opcodes
//
// All of these read and write whole paired-double values (primary p,
// secondary s slots). Unit FP, latency fpArithLatency, throughput 1
// (spec.md §4.4, §6), except the single-cycle fmr/nop move class.

package ppc2

func fpRegs2(c *Core, a, b RegRef) (FPVal, FPVal, error) {
	pa, err := c.GetFPRegister(a, true)
	if err != nil {
		return FPVal{}, FPVal{}, err
	}
	pb, err := c.GetFPRegister(b, true)
	if err != nil {
		return FPVal{}, FPVal{}, err
	}
	va, err := c.readFP(pa)
	if err != nil {
		return FPVal{}, FPVal{}, err
	}
	vb, err := c.readFP(pb)
	if err != nil {
		return FPVal{}, FPVal{}, err
	}
	return va, vb, nil
}

func fpRegs3(c *Core, a, b, cc RegRef) (FPVal, FPVal, FPVal, error) {
	va, vb, err := fpRegs2(c, a, b)
	if err != nil {
		return FPVal{}, FPVal{}, FPVal{}, err
	}
	pc, err := c.GetFPRegister(cc, true)
	if err != nil {
		return FPVal{}, FPVal{}, FPVal{}, err
	}
	vc, err := c.readFP(pc)
	if err != nil {
		return FPVal{}, FPVal{}, FPVal{}, err
	}
	return va, vb, vc, nil
}

func writeFPRef(c *Core, ref RegRef, v FPVal) error {
	phys, err := c.GetFPRegister(ref, true)
	if err != nil {
		return err
	}
	return c.writeFP(phys, v)
}

// fxcpmadd: rt := (ra.p*rc.p + rb.p, ra.p*rc.s + rb.s)
func fxcpmadd(rt, ra, rc, rb RegRef) *Instruction {
	i := newInstruction("fxcpmadd", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.operand("rb", RegOperand(rb))
	i.readsFP(ra, rc, rb)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, b, err := fpRegs3(c, ra, rc, rb)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.P*cc.P + b.P, S: a.P*cc.S + b.S})
	}
	return i
}

// fxcxma: rt := (ra.s*rc.s + rb.p, ra.s*rc.p + rb.s)
func fxcxma(rt, ra, rc, rb RegRef) *Instruction {
	i := newInstruction("fxcxma", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.operand("rb", RegOperand(rb))
	i.readsFP(ra, rc, rb)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, b, err := fpRegs3(c, ra, rc, rb)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.S*cc.S + b.P, S: a.S*cc.P + b.S})
	}
	return i
}

// fxmul: rt := (ra.s*rc.p, ra.p*rc.s)
func fxmul(rt, ra, rc RegRef) *Instruction {
	i := newInstruction("fxmul", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.readsFP(ra, rc)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, err := fpRegs2(c, ra, rc)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.S * cc.P, S: a.P * cc.S})
	}
	return i
}

// fxpmul: rt := (ra.p*rc.p, ra.p*rc.s)
func fxpmul(rt, ra, rc RegRef) *Instruction {
	i := newInstruction("fxpmul", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.readsFP(ra, rc)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, err := fpRegs2(c, ra, rc)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.P * cc.P, S: a.P * cc.S})
	}
	return i
}

// fxsmul: rt := (ra.s*rc.p, ra.s*rc.s)
func fxsmul(rt, ra, rc RegRef) *Instruction {
	i := newInstruction("fxsmul", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.readsFP(ra, rc)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, err := fpRegs2(c, ra, rc)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.S * cc.P, S: a.S * cc.S})
	}
	return i
}

// fxcsmadd: rt := (ra.s*rc.p + rb.p, ra.s*rc.s + rb.s)
func fxcsmadd(rt, ra, rc, rb RegRef) *Instruction {
	i := newInstruction("fxcsmadd", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rc", RegOperand(rc))
	i.operand("rb", RegOperand(rb))
	i.readsFP(ra, rc, rb)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, cc, b, err := fpRegs3(c, ra, rc, rb)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.S*cc.P + b.P, S: a.S*cc.S + b.S})
	}
	return i
}

// fpadd: rt := (ra.p+rb.p, ra.s+rb.s)
func fpadd(rt, ra, rb RegRef) *Instruction {
	i := newInstruction("fpadd", UnitFP, fpArithLatency, fpArithThroughput, 0, false)
	i.operand("rt", RegOperand(rt))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsFP(ra, rb)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		a, b, err := fpRegs2(c, ra, rb)
		if err != nil {
			return err
		}
		return writeFPRef(c, rt, FPVal{P: a.P + b.P, S: a.S + b.S})
	}
	return i
}

// fmr: rt := (frb.p, rt.s) - copies only the primary slot.
func fmr(rt, frb RegRef) *Instruction {
	i := newInstruction("fmr", UnitFP, fpMoveLatency, fpMoveThroughput, 0, false)
	i.operand("frt", RegOperand(rt))
	i.operand("frb", RegOperand(frb))
	i.readsFP(frb)
	i.writesFP(rt)
	i.Run = func(c *Core) error {
		rtPhys, err := c.GetFPRegister(rt, true)
		if err != nil {
			return err
		}
		oldRt, err := c.readFP(rtPhys)
		if err != nil {
			return err
		}
		bPhys, err := c.GetFPRegister(frb, true)
		if err != nil {
			return err
		}
		b, err := c.readFP(bPhys)
		if err != nil {
			return err
		}
		return c.writeFP(rtPhys, FPVal{P: b.P, S: oldRt.S})
	}
	return i
}

// nop occupies the FP unit for one cycle and touches no register; it is
// pragmatic (spec.md §9 design notes), not a real opcode.
func nop() *Instruction {
	i := newInstruction("nop", UnitFP, fpMoveLatency, fpMoveThroughput, 0, true)
	i.Run = func(c *Core) error { return nil }
	return i
}
