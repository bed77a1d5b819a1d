package ppc2

import "testing"

func TestPipelineErrorMessage(t *testing.T) {
	err := &PipelineError{Kind: ErrMisalignedAddress, Msg: "bad address"}
	want := "MisalignedAddress: bad address"
	if got := err.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorKindStringCoversAllKinds(t *testing.T) {
	kinds := []ErrorKind{
		ErrMisalignedAddress, ErrNoFreeRegister, ErrUnknownLabel,
		ErrInvalidRegisterRef, ErrNoSafeInstruction, ErrWriteThroughOverflow,
		ErrTypeMismatch,
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "UnknownError" {
			t.Fatalf("kind %d stringified to %q", k, s)
		}
		if seen[s] {
			t.Fatalf("duplicate string %q for distinct kinds", s)
		}
		seen[s] = true
	}
}
