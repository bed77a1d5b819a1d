package ppc2

import "testing"

func TestRegisterFileTypeMismatch(t *testing.T) {
	fp := newRegisterFile(RegFP, 4)
	if _, err := fp.GetInt(0); err == nil {
		t.Fatal("expected TypeMismatch reading GetInt on an FP file")
	}
	ireg := newRegisterFile(RegInt, 4)
	if _, err := ireg.GetFP(0); err == nil {
		t.Fatal("expected TypeMismatch reading GetFP on an integer file")
	}
}

func TestRegisterFileBounds(t *testing.T) {
	fp := newRegisterFile(RegFP, 4)
	if err := fp.SetFP(4, FPVal{P: 1}); err == nil {
		t.Fatal("expected out-of-range error at index == capacity")
	}
	if err := fp.SetFP(-1, FPVal{P: 1}); err == nil {
		t.Fatal("expected out-of-range error for negative index")
	}
	if err := fp.SetFP(3, FPVal{P: 1, S: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := fp.GetFP(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.P != 1 || v.S != 2 {
		t.Fatalf("got %+v, want {1 2}", v)
	}
}

func TestRegRefStringRoundtrip(t *testing.T) {
	if got := PhysRef(FP(3)).String(); got != "FPR_03" {
		t.Fatalf("got %q, want FPR_03", got)
	}
	if got := SymRef("w").String(); got != "w" {
		t.Fatalf("got %q, want w", got)
	}
}

func TestOperandString(t *testing.T) {
	if got := ImmOperand(12).String(); got != "12" {
		t.Fatalf("got %q, want 12", got)
	}
	if got := RegOperand(PhysRef(Int(2))).String(); got != "Int_02" {
		t.Fatalf("got %q, want Int_02", got)
	}
}
