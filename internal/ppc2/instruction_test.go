package ppc2

import "testing"

func TestNewInstructionClampsThroughput(t *testing.T) {
	i := newInstruction("test", UnitFP, 5, 0, 0, false)
	if i.Throughput != 1 {
		t.Fatalf("got throughput %d, want 1 (clamped minimum)", i.Throughput)
	}
	i2 := newInstruction("test", UnitFP, 5, -3, 0, false)
	if i2.Throughput != 1 {
		t.Fatalf("got throughput %d, want 1 (clamped minimum)", i2.Throughput)
	}
}

func TestInstructionStringPreservesOperandOrder(t *testing.T) {
	rt, ra, rc, rb := PhysRef(FP(0)), PhysRef(FP(1)), PhysRef(FP(2)), PhysRef(FP(3))
	instr := fxcpmadd(rt, ra, rc, rb)
	want := "fxcpmadd(rt=FPR_00, ra=FPR_01, rc=FPR_02, rb=FPR_03)"
	if got := instr.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnitString(t *testing.T) {
	cases := map[Unit]string{UnitFP: "floating point", UnitINT: "integer", UnitLS: "load/store"}
	for u, want := range cases {
		if got := u.String(); got != want {
			t.Fatalf("Unit(%d).String() = %q, want %q", u, got, want)
		}
	}
}
