package ppc2

import (
	"strings"
	"testing"
)

func TestEmitFPClassLine(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	rt, ra, rc, rb := PhysRef(FP(0)), PhysRef(FP(1)), PhysRef(FP(2)), PhysRef(FP(3))
	instr := fxcpmadd(rt, ra, rc, rb)

	var lines []string
	e := NewAsmEmitter(func(l string) { lines = append(lines, l) })
	if err := e.Emit(c, instr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "fxcpmadd 0, 1, 2, 3") {
		t.Fatalf("line %q missing expected operand order", lines[0])
	}
}

func TestEmitLoadStoreUpdateForm(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	frt, ra, rb := PhysRef(FP(0)), PhysRef(Int(1)), PhysRef(Int(2))
	instr := lfpdux(frt, ra, rb)

	var lines []string
	e := NewAsmEmitter(func(l string) { lines = append(lines, l) })
	if err := e.Emit(c, instr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "\"+b\"") {
		t.Fatalf("update form %q should use the +b constraint", lines[0])
	}
}

func TestEmitLoadStoreNonUpdateForm(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	frt, ra, rb := PhysRef(FP(0)), PhysRef(Int(1)), PhysRef(Int(2))
	instr := lfpdx(frt, ra, rb)

	var lines []string
	e := NewAsmEmitter(func(l string) { lines = append(lines, l) })
	if err := e.Emit(c, instr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Contains(lines[0], "+b") {
		t.Fatalf("non-update form %q must not use the +b constraint", lines[0])
	}
}

func TestEmitSuppressesPragmatic(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	var lines []string
	e := NewAsmEmitter(func(l string) { lines = append(lines, l) })
	if err := e.Emit(c, fpset2(PhysRef(FP(0)), 1, 2)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected pragmatic fpset2 to be suppressed, got %v", lines)
	}
}

func TestCVarOverride(t *testing.T) {
	c := NewCore(DefaultFPRegisters, DefaultIntRegisters, DefaultMemoryDoubles)
	frt, ra := PhysRef(FP(0)), PhysRef(Int(1))
	instr := lfd(frt, ra, 0)
	var lines []string
	e := &AsmEmitter{Write: func(l string) { lines = append(lines, l) }, CVar: func(p PhysReg) string { return "named_" + p.String() }}
	if err := e.Emit(c, instr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(lines[0], "named_Int_01") {
		t.Fatalf("expected custom CVar naming in %q", lines[0])
	}
}
