package ppc2

import "testing"

func setupBase(t *testing.T, c *Core, byteAddr int) RegRef {
	t.Helper()
	base := PhysRef(Int(9))
	if err := c.IssueOne(intset(base, byteAddr)); err != nil {
		t.Fatalf("intset: %v", err)
	}
	return base
}

func TestLfpduWritesBackByteAddress(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := setupBase(t, c, 0)
	if err := c.writeMem(0, 10); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	if err := c.writeMem(1, 20); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	frt := PhysRef(FP(0))
	if err := c.IssueOne(lfpdu(frt, base, 0)); err != nil {
		t.Fatalf("lfpdu: %v", err)
	}
	n, err := intRegNum(base)
	if err != nil {
		t.Fatalf("intRegNum: %v", err)
	}
	v, err := c.readInt(n)
	if err != nil {
		t.Fatalf("readInt: %v", err)
	}
	if v.Val != 0 {
		t.Fatalf("got base=%d, want 0 (ea*8 with ea=0)", v.Val)
	}
}

func TestLfxduxSwapsSlots(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := setupBase(t, c, 0)
	rb := PhysRef(Int(10))
	if err := c.IssueOne(intset(rb, 0)); err != nil {
		t.Fatalf("intset rb: %v", err)
	}
	if err := c.writeMem(0, 10); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	if err := c.writeMem(1, 20); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	frt := PhysRef(FP(0))
	if err := c.IssueOne(lfxdux(frt, base, rb)); err != nil {
		t.Fatalf("lfxdux: %v", err)
	}
	v, err := c.readFP(FP(0))
	if err != nil {
		t.Fatalf("readFP: %v", err)
	}
	if v.P != 20 || v.S != 10 {
		t.Fatalf("got %+v, want slots swapped to {P:20 S:10}", v)
	}
}

func TestLfsdxLoadsSecondarySlotOnly(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := setupBase(t, c, 0)
	rb := PhysRef(Int(10))
	if err := c.IssueOne(intset(rb, 0)); err != nil {
		t.Fatalf("intset rb: %v", err)
	}
	if err := c.writeMem(0, 99); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	frt := PhysRef(FP(0))
	if err := c.IssueOne(fpset2(frt, 1, 2)); err != nil {
		t.Fatalf("fpset2: %v", err)
	}
	if err := c.IssueOne(lfsdx(frt, base, rb)); err != nil {
		t.Fatalf("lfsdx: %v", err)
	}
	v, err := c.readFP(FP(0))
	if err != nil {
		t.Fatalf("readFP: %v", err)
	}
	if v.P != 1 || v.S != 99 {
		t.Fatalf("got %+v, want primary preserved at 1, secondary overwritten to 99", v)
	}
}

func TestStfdxNoBaseWriteback(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := setupBase(t, c, 0)
	rb := PhysRef(Int(10))
	if err := c.IssueOne(intset(rb, 0)); err != nil {
		t.Fatalf("intset rb: %v", err)
	}
	frs := PhysRef(FP(0))
	if err := c.IssueOne(fpset2(frs, 7, 8)); err != nil {
		t.Fatalf("fpset2: %v", err)
	}
	if err := c.IssueOne(stfdx(frs, base, rb)); err != nil {
		t.Fatalf("stfdx: %v", err)
	}
	n, err := intRegNum(base)
	if err != nil {
		t.Fatalf("intRegNum: %v", err)
	}
	v, err := c.readInt(n)
	if err != nil {
		t.Fatalf("readInt: %v", err)
	}
	if v.Val != 0 {
		t.Fatalf("got base=%d, want unchanged at 0 (stfdx never writes back)", v.Val)
	}
	mem, err := c.readMem(0)
	if err != nil {
		t.Fatalf("readMem: %v", err)
	}
	if mem != 7 {
		t.Fatalf("got mem[0]=%v, want 7 (frs.P)", mem)
	}
}
