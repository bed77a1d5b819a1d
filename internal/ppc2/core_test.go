package ppc2

import "testing"

func TestFxcpmaddHazardStall(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	r0, r1, r2 := PhysRef(FP(0)), PhysRef(FP(1)), PhysRef(FP(2))
	instr := fxcpmadd(r0, r1, r2, r0)
	if err := c.IssueOne(instr); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if err := c.IssueOne(instr); err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if c.Cycle != 5 {
		t.Fatalf("got cycle %d, want 5 (latency of the first fxcpmadd)", c.Cycle)
	}
}

// TestUnitThroughputStall is spec.md §8 scenario 2: three back-to-back
// lfpd (throughput 2) against independent operands issue at cycles
// 0, 2, 4. Using the same (zero-valued, unseeded) base register with
// distinct byte offsets and distinct destinations means nothing but the
// LS unit's own throughput gates the second and third issue.
func TestUnitThroughputStall(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := PhysRef(Int(0))
	want := []int{0, 2, 4}
	for i, offset := range []int{0, 16, 32} {
		dest := PhysRef(FP(i))
		if err := c.IssueOne(lfpd(dest, base, offset)); err != nil {
			t.Fatalf("lfpd %d: %v", i, err)
		}
		if c.Cycle != want[i] {
			t.Fatalf("lfpd %d issued at cycle %d, want %d", i, c.Cycle, want[i])
		}
	}
}

// TestWriteThroughBucketSaturates is spec.md §8 scenario 3: seven
// stfpdux with independent operands (distinct source FP registers so
// none share an in-use window) issue at cycles 0, 4, 8, 12, 16, 20 —
// gated purely by the LS unit's throughput of 4 — then the seventh
// stalls behind the full 6-token write-through bucket until the oldest
// token retires at its 40-cycle latency.
func TestWriteThroughBucketSaturates(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	want := []int{0, 4, 8, 12, 16, 20, 40}
	for i, cycle := range want {
		frs := PhysRef(FP(i))
		base := PhysRef(Int(i))
		if err := c.IssueOne(stfpdux(frs, base, base)); err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
		if c.Cycle != cycle {
			t.Fatalf("store %d issued at cycle %d, want %d", i, c.Cycle, cycle)
		}
	}
}

// TestLoadThenUseStalls is spec.md §8 scenario 4: lfpd(a, i0, 0) then
// fxcpmadd(r, w, a, r). The madd's read of a stalls behind the load's
// latency (4) and then its in-use-source window (1 more, since 4 of the
// 5 in-use cycles elapse during the hazard stall); the load itself
// issues at cycle 0, so the madd's absolute issue cycle is the model's
// exact prediction of 5.
func TestLoadThenUseStalls(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	i0 := PhysRef(Int(0))
	w, a, r := PhysRef(FP(2)), PhysRef(FP(1)), PhysRef(FP(0))
	if err := c.IssueOne(fpset2(w, 2, 3)); err != nil {
		t.Fatalf("fpset2: %v", err)
	}
	if err := c.IssueOne(lfpd(a, i0, 0)); err != nil {
		t.Fatalf("lfpd: %v", err)
	}
	if c.Cycle != 0 {
		t.Fatalf("lfpd issued at cycle %d, want 0", c.Cycle)
	}
	if err := c.IssueOne(fxcpmadd(r, w, a, r)); err != nil {
		t.Fatalf("fxcpmadd: %v", err)
	}
	if c.Cycle != 5 {
		t.Fatalf("fxcpmadd issued at cycle %d, want 5", c.Cycle)
	}
}

// TestFlushPipelineClearsAllTables exercises spec.md §8's universal
// property: after flush_pipeline, all four countdown tables and the
// write-through bucket are empty.
func TestFlushPipelineClearsAllTables(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := PhysRef(Int(0))
	frs := PhysRef(FP(0))
	if err := c.IssueOne(stfpdux(frs, base, base)); err != nil {
		t.Fatalf("stfpdux: %v", err)
	}
	r0, r1, r2 := PhysRef(FP(1)), PhysRef(FP(2)), PhysRef(FP(3))
	if err := c.IssueOne(fxcpmadd(r0, r1, r2, r0)); err != nil {
		t.Fatalf("fxcpmadd: %v", err)
	}
	before := c.Snapshot()
	if len(before.Hazard) == 0 || len(before.Unit) == 0 || len(before.InuseSrc) == 0 || before.WTTokens == 0 {
		t.Fatalf("expected populated tables before flush, got %+v", before)
	}

	c.FlushPipeline()

	after := c.Snapshot()
	if len(after.Hazard) != 0 || len(after.Unit) != 0 || len(after.InuseSrc) != 0 || len(after.InuseDst) != 0 || after.WTTokens != 0 {
		t.Fatalf("expected every table empty after FlushPipeline, got %+v", after)
	}
}

// TestLoadStoreRoundTrip is spec.md §8's Round-trip universal property:
// lfpd followed (after its own latency stall resolves naturally inside
// IssueOne) by stfpdux to the same aligned address leaves mem unchanged
// in both slots.
func TestLoadStoreRoundTrip(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	if err := c.writeMem(0, 11); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	if err := c.writeMem(1, 22); err != nil {
		t.Fatalf("writeMem: %v", err)
	}
	base, base2 := PhysRef(Int(0)), PhysRef(Int(1))
	a := PhysRef(FP(0))
	if err := c.IssueOne(lfpd(a, base, 0)); err != nil {
		t.Fatalf("lfpd: %v", err)
	}
	if err := c.IssueOne(stfpdux(a, base, base2)); err != nil {
		t.Fatalf("stfpdux: %v", err)
	}
	p, err := c.readMem(0)
	if err != nil {
		t.Fatalf("readMem(0): %v", err)
	}
	s, err := c.readMem(1)
	if err != nil {
		t.Fatalf("readMem(1): %v", err)
	}
	if p != 11 || s != 22 {
		t.Fatalf("got mem=(%g,%g), want (11,22) unchanged", p, s)
	}
}

func TestMisalignedAddress(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := PhysRef(Int(0))
	if err := c.IssueOne(intset(base, 3)); err != nil {
		t.Fatalf("intset: %v", err)
	}
	frt := PhysRef(FP(0))
	err := c.IssueOne(lfd(frt, base, 0))
	if err == nil {
		t.Fatal("expected MisalignedAddress for a non-multiple-of-8 effective address")
	}
	perr, ok := err.(*PipelineError)
	if !ok || perr.Kind != ErrMisalignedAddress {
		t.Fatalf("got %v, want PipelineError{Kind: ErrMisalignedAddress}", err)
	}
}

func TestPairedLoadRequiresDoubleAlignment(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	base := PhysRef(Int(0))
	if err := c.IssueOne(intset(base, 8)); err != nil {
		t.Fatalf("intset: %v", err)
	}
	frt := PhysRef(FP(0))
	err := c.IssueOne(lfpd(frt, base, 0))
	if err == nil {
		t.Fatal("expected MisalignedAddress: byte offset 8 is double-aligned but not paired-aligned")
	}
	perr, ok := err.(*PipelineError)
	if !ok || perr.Kind != ErrMisalignedAddress {
		t.Fatalf("got %v, want PipelineError{Kind: ErrMisalignedAddress}", err)
	}
}

func TestNameRegistersConflict(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	if err := c.NameRegisters(map[string]PhysReg{"w0": FP(0)}); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	err := c.NameRegisters(map[string]PhysReg{"w1": FP(0)})
	if err == nil {
		t.Fatal("expected InvalidRegisterRef binding a second label to an already-bound physical register")
	}
}

func TestSymbolicAllocationFromFreePool(t *testing.T) {
	c := NewCore(2, DefaultIntRegisters, DefaultMemoryDoubles)
	a := SymRef("acc")
	b := SymRef("tmp")
	extra := SymRef("overflow")
	if _, err := c.GetFPRegister(a, true); err != nil {
		t.Fatalf("a: %v", err)
	}
	if _, err := c.GetFPRegister(b, true); err != nil {
		t.Fatalf("b: %v", err)
	}
	if _, err := c.GetFPRegister(extra, true); err == nil {
		t.Fatal("expected NoFreeRegister once the 2-entry pool is exhausted")
	}
}
