// isa_ls.go - Load/store opcodes
//
// FP loads: unit LS, latency loadLatency, throughput loadThroughput, no
// write-through. FP stores: unit LS, latency storeLatency (0 — "not
// actually meaningful", spec.md §9; stores block the LS unit via
// throughput and the write-through bucket instead), throughput
// storeThroughput, write-through storeWriteThrough bytes.
//
// Paired forms (`lfpd*`, `lfxdux`) require 16-byte (2*sizeof(double))
// alignment; single-double forms (`lfd*`, `lfsd*`, `stfdx`, `stfsdx`) only
// require 8-byte alignment (spec.md §3, §4.3).

package ppc2

func baseIntNum(ra RegRef) (int, error) { return intRegNum(ra) }

func loadAddr(c *Core, ra RegRef, x Operand, aligned bool) (int, error) {
	n, err := baseIntNum(ra)
	if err != nil {
		return 0, err
	}
	return effectiveAddress(c, n, x, aligned)
}

func writebackBase(c *Core, ra RegRef, ea int) error {
	n, err := baseIntNum(ra)
	if err != nil {
		return err
	}
	return c.writeInt(n, IntVal{Val: ea * 8})
}

// lfpd: aligned-load; frt := (mem[ea], mem[ea+1]); no base writeback.
func lfpd(frt, ra RegRef, d int) *Instruction {
	i := newInstruction("lfpd", UnitLS, loadLatency, loadThroughput, 0, false)
	i.operand("frt", RegOperand(frt))
	i.operand("ra", RegOperand(ra))
	i.operand("d", ImmOperand(d))
	i.readsInt(ra)
	i.writesFP(frt)
	i.setInuse(frt, loadInuseSrc, loadInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, ImmOperand(d), true)
		if err != nil {
			return err
		}
		p, err := c.readMem(ea)
		if err != nil {
			return err
		}
		s, err := c.readMem(ea + 1)
		if err != nil {
			return err
		}
		return writeFPRef(c, frt, FPVal{P: p, S: s})
	}
	return i
}

// lfpdu: aligned-load with update; frt ditto; ra := ea (bytes).
func lfpdu(frt, ra RegRef, d int) *Instruction {
	i := newInstruction("lfpdu", UnitLS, loadLatency, loadThroughput, 0, false)
	i.operand("frt", RegOperand(frt))
	i.operand("ra", RegOperand(ra))
	i.operand("d", ImmOperand(d))
	i.readsInt(ra)
	i.writesFP(frt)
	i.writesInt(ra)
	i.setInuse(frt, loadInuseSrc, loadInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, ImmOperand(d), true)
		if err != nil {
			return err
		}
		p, err := c.readMem(ea)
		if err != nil {
			return err
		}
		s, err := c.readMem(ea + 1)
		if err != nil {
			return err
		}
		if err := writeFPRef(c, frt, FPVal{P: p, S: s}); err != nil {
			return err
		}
		return writebackBase(c, ra, ea)
	}
	return i
}

// lfpdx: indexed aligned-load, no update.
func lfpdx(frt, ra, rb RegRef) *Instruction {
	i := newInstruction("lfpdx", UnitLS, loadLatency, loadThroughput, 0, false)
	i.operand("frt", RegOperand(frt))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsInt(ra, rb)
	i.writesFP(frt)
	i.setInuse(frt, loadInuseSrc, loadInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), true)
		if err != nil {
			return err
		}
		p, err := c.readMem(ea)
		if err != nil {
			return err
		}
		s, err := c.readMem(ea + 1)
		if err != nil {
			return err
		}
		return writeFPRef(c, frt, FPVal{P: p, S: s})
	}
	return i
}

// lfpdux: indexed aligned-load with update.
func lfpdux(frt, ra, rb RegRef) *Instruction {
	i := newInstruction("lfpdux", UnitLS, loadLatency, loadThroughput, 0, false)
	i.operand("frt", RegOperand(frt))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsInt(ra, rb)
	i.writesFP(frt)
	i.writesInt(ra)
	i.setInuse(frt, loadInuseSrc, loadInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), true)
		if err != nil {
			return err
		}
		p, err := c.readMem(ea)
		if err != nil {
			return err
		}
		s, err := c.readMem(ea + 1)
		if err != nil {
			return err
		}
		if err := writeFPRef(c, frt, FPVal{P: p, S: s}); err != nil {
			return err
		}
		return writebackBase(c, ra, ea)
	}
	return i
}

// lfxdux: slot-swapped aligned-load with update: frt := (mem[ea+1], mem[ea]).
func lfxdux(frt, ra, rb RegRef) *Instruction {
	i := newInstruction("lfxdux", UnitLS, loadLatency, loadThroughput, 0, false)
	i.operand("frt", RegOperand(frt))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsInt(ra, rb)
	i.writesFP(frt)
	i.writesInt(ra)
	i.setInuse(frt, loadInuseSrc, loadInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), true)
		if err != nil {
			return err
		}
		p, err := c.readMem(ea)
		if err != nil {
			return err
		}
		s, err := c.readMem(ea + 1)
		if err != nil {
			return err
		}
		if err := writeFPRef(c, frt, FPVal{P: s, S: p}); err != nil {
			return err
		}
		return writebackBase(c, ra, ea)
	}
	return i
}

func loadSingle(op string, primary bool, update bool) func(frt, ra RegRef, d int) *Instruction {
	return func(frt, ra RegRef, d int) *Instruction {
		i := newInstruction(op, UnitLS, loadLatency, loadThroughput, 0, false)
		i.operand("frt", RegOperand(frt))
		i.operand("ra", RegOperand(ra))
		i.operand("d", ImmOperand(d))
		i.readsInt(ra)
		i.writesFP(frt)
		if update {
			i.writesInt(ra)
		}
		i.setInuse(frt, loadInuseSrc, loadInuseDst)
		i.Run = func(c *Core) error {
			ea, err := loadAddr(c, ra, ImmOperand(d), false)
			if err != nil {
				return err
			}
			v, err := c.readMem(ea)
			if err != nil {
				return err
			}
			phys, err := c.GetFPRegister(frt, true)
			if err != nil {
				return err
			}
			old, err := c.readFP(phys)
			if err != nil {
				return err
			}
			var nv FPVal
			if primary {
				nv = FPVal{P: v, S: old.S}
			} else {
				nv = FPVal{P: old.P, S: v}
			}
			if err := c.writeFP(phys, nv); err != nil {
				return err
			}
			if update {
				return writebackBase(c, ra, ea)
			}
			return nil
		}
		return i
	}
}

func loadSingleIndexed(op string, primary bool, update bool) func(frt, ra, rb RegRef) *Instruction {
	return func(frt, ra, rb RegRef) *Instruction {
		i := newInstruction(op, UnitLS, loadLatency, loadThroughput, 0, false)
		i.operand("frt", RegOperand(frt))
		i.operand("ra", RegOperand(ra))
		i.operand("rb", RegOperand(rb))
		i.readsInt(ra, rb)
		i.writesFP(frt)
		if update {
			i.writesInt(ra)
		}
		i.setInuse(frt, loadInuseSrc, loadInuseDst)
		i.Run = func(c *Core) error {
			ea, err := loadAddr(c, ra, RegOperand(rb), false)
			if err != nil {
				return err
			}
			v, err := c.readMem(ea)
			if err != nil {
				return err
			}
			phys, err := c.GetFPRegister(frt, true)
			if err != nil {
				return err
			}
			old, err := c.readFP(phys)
			if err != nil {
				return err
			}
			var nv FPVal
			if primary {
				nv = FPVal{P: v, S: old.S}
			} else {
				nv = FPVal{P: old.P, S: v}
			}
			if err := c.writeFP(phys, nv); err != nil {
				return err
			}
			if update {
				return writebackBase(c, ra, ea)
			}
			return nil
		}
		return i
	}
}

// lfd/lfdu/lfdx/lfdux: single-double load into primary only; secondary
// preserved; `u` variants write back ea.
var lfd = loadSingle("lfd", true, false)
var lfdu = loadSingle("lfdu", true, true)
var lfdx = loadSingleIndexed("lfdx", true, false)
var lfdux = loadSingleIndexed("lfdux", true, true)

// lfsdx/lfsdux: single-double load into secondary only; primary preserved.
var lfsdx = loadSingleIndexed("lfsdx", false, false)
var lfsdux = loadSingleIndexed("lfsdux", false, true)

// stfpdux: mem[ea]:=frs.p; mem[ea+1]:=frs.s; ra:=ea (bytes).
func stfpdux(frs, ra, rb RegRef) *Instruction {
	i := newInstruction("stfpdux", UnitLS, storeLatency, storeThroughput, storeWriteThrough, false)
	i.operand("frs", RegOperand(frs))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsFP(frs)
	i.readsInt(ra, rb)
	i.writesInt(ra)
	i.setInuse(frs, storeInuseSrc, storeInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), false)
		if err != nil {
			return err
		}
		phys, err := c.GetFPRegister(frs, true)
		if err != nil {
			return err
		}
		v, err := c.readFP(phys)
		if err != nil {
			return err
		}
		if err := c.writeMem(ea, v.P); err != nil {
			return err
		}
		if err := c.writeMem(ea+1, v.S); err != nil {
			return err
		}
		return writebackBase(c, ra, ea)
	}
	return i
}

// stfxdux: slot-swapped store with update: mem[ea]:=frs.s; mem[ea+1]:=frs.p.
func stfxdux(frs, ra, rb RegRef) *Instruction {
	i := newInstruction("stfxdux", UnitLS, storeLatency, storeThroughput, storeWriteThrough, false)
	i.operand("frs", RegOperand(frs))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsFP(frs)
	i.readsInt(ra, rb)
	i.writesInt(ra)
	i.setInuse(frs, storeInuseSrc, storeInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), false)
		if err != nil {
			return err
		}
		phys, err := c.GetFPRegister(frs, true)
		if err != nil {
			return err
		}
		v, err := c.readFP(phys)
		if err != nil {
			return err
		}
		if err := c.writeMem(ea, v.S); err != nil {
			return err
		}
		if err := c.writeMem(ea+1, v.P); err != nil {
			return err
		}
		return writebackBase(c, ra, ea)
	}
	return i
}

// stfdx: mem[ea] := frs.p. No base update.
func stfdx(frs, ra, rb RegRef) *Instruction {
	i := newInstruction("stfdx", UnitLS, storeLatency, storeThroughput, storeWriteThrough, false)
	i.operand("frs", RegOperand(frs))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsFP(frs)
	i.readsInt(ra, rb)
	i.setInuse(frs, storeInuseSrc, storeInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), false)
		if err != nil {
			return err
		}
		phys, err := c.GetFPRegister(frs, true)
		if err != nil {
			return err
		}
		v, err := c.readFP(phys)
		if err != nil {
			return err
		}
		return c.writeMem(ea, v.P)
	}
	return i
}

// stfsdx: mem[ea] := frs.s. No base update.
func stfsdx(frs, ra, rb RegRef) *Instruction {
	i := newInstruction("stfsdx", UnitLS, storeLatency, storeThroughput, storeWriteThrough, false)
	i.operand("frs", RegOperand(frs))
	i.operand("ra", RegOperand(ra))
	i.operand("rb", RegOperand(rb))
	i.readsFP(frs)
	i.readsInt(ra, rb)
	i.setInuse(frs, storeInuseSrc, storeInuseDst)
	i.Run = func(c *Core) error {
		ea, err := loadAddr(c, ra, RegOperand(rb), false)
		if err != nil {
			return err
		}
		phys, err := c.GetFPRegister(frs, true)
		if err != nil {
			return err
		}
		v, err := c.readFP(phys)
		if err != nil {
			return err
		}
		return c.writeMem(ea, v.S)
	}
	return i
}
