// emit_asm.go - C inline-assembly emitter
//
// External collaborator, consumes Core/Instruction state but issues
// nothing. Grounded on original_source/view.py's CViewer: FP-class
// opcodes (name begins with 'f') print every declared operand's
// resolved physical index with a trailing comment naming the source
// label; load/store opcodes print the destination FP index plus the
// GCC extended-asm register constraints for the base/index operands,
// in update or non-update form depending on whether 'u' appears in the
// opcode name (spec.md §6).

package ppc2

import (
	"fmt"
	"strconv"
	"strings"
)

// AsmEmitter renders a scheduled instruction stream as inline asm lines
// suitable for splicing into a host C function body.
type AsmEmitter struct {
	// CVar names the C variable backing a physical integer register,
	// e.g. Int_03 -> "idx3". Defaults to "r<n>" if nil.
	CVar func(PhysReg) string
	// SuppressPragmatic drops pragmatic pseudo-ops from the output
	// (spec.md §9: "the emitter may choose to suppress them").
	SuppressPragmatic bool
	Write             func(line string)
}

func NewAsmEmitter(write func(line string)) *AsmEmitter {
	return &AsmEmitter{SuppressPragmatic: true, Write: write}
}

func (e *AsmEmitter) cvar(p PhysReg) string {
	if e.CVar != nil {
		return e.CVar(p)
	}
	return "r" + strconv.Itoa(p.Num)
}

// Emit renders one instruction's line(s), skipping pragmatic ops when
// SuppressPragmatic is set. core resolves already-bound register labels
// to their physical indices; it is not mutated.
func (e *AsmEmitter) Emit(core *Core, instr *Instruction) error {
	if instr.Pragmatic && e.SuppressPragmatic {
		return nil
	}
	if strings.HasPrefix(instr.Op, "f") {
		return e.emitFPClass(core, instr)
	}
	return e.emitLoadStore(core, instr)
}

func (e *AsmEmitter) emitFPClass(core *Core, instr *Instruction) error {
	nums := make([]string, 0, len(instr.Operands))
	comment := make([]string, 0, len(instr.Operands))
	for _, op := range instr.Operands {
		if !op.Val.isRegRef {
			continue
		}
		phys, err := core.GetFPRegister(op.Val.reg, false)
		if err != nil {
			return err
		}
		nums = append(nums, strconv.Itoa(phys.Num))
		comment = append(comment, fmt.Sprintf("%d:%s", phys.Num, op.Val.reg.String()))
	}
	line := fmt.Sprintf("    asm volatile(\"%s %s\"); // %s", instr.Op, strings.Join(nums, ", "), strings.Join(comment, ", "))
	e.emit(line)
	return nil
}

func (e *AsmEmitter) emitLoadStore(core *Core, instr *Instruction) error {
	var frtRole string
	for _, op := range instr.Operands {
		if op.Role == "frt" || op.Role == "frs" {
			frtRole = op.Role
			break
		}
	}
	var frtRef RegRef
	for _, op := range instr.Operands {
		if op.Role == frtRole {
			frtRef = op.Val.reg
		}
	}
	frtPhys, err := core.GetFPRegister(frtRef, false)
	if err != nil {
		return err
	}

	var raRef RegRef
	var rbRef RegRef
	haveRb := false
	immD := 0
	haveD := false
	for _, op := range instr.Operands {
		switch op.Role {
		case "ra":
			raRef = op.Val.reg
		case "rb":
			rbRef = op.Val.reg
			haveRb = true
		case "d":
			immD = op.Val.imm
			haveD = true
		}
	}
	raNum, err := intRegNum(raRef)
	if err != nil {
		return err
	}
	raPhys := Int(raNum)
	update := strings.Contains(instr.Op, "u")

	var index string
	var constraints string
	if haveRb {
		rbNum, err := intRegNum(rbRef)
		if err != nil {
			return err
		}
		index = "%1"
		if update {
			constraints = fmt.Sprintf(":\"+b\" (%s):\"b\" (%s)", e.cvar(raPhys), e.cvar(Int(rbNum)))
		} else {
			constraints = fmt.Sprintf("::\"b\" (%s),\"b\" (%s)", e.cvar(raPhys), e.cvar(Int(rbNum)))
		}
	} else if haveD {
		index = strconv.Itoa(immD)
		if update {
			constraints = fmt.Sprintf(":\"+b\" (%s)", e.cvar(raPhys))
		} else {
			constraints = fmt.Sprintf("::\"b\" (%s)", e.cvar(raPhys))
		}
	}

	line := fmt.Sprintf("    asm volatile(\"%s %d, %%0, %s\"%s);", instr.Op, frtPhys.Num, index, constraints)
	e.emit(line)
	return nil
}

func (e *AsmEmitter) emit(line string) {
	if e.Write != nil {
		e.Write(line)
	}
}

// EmitAll renders every instruction in seq in order.
func (e *AsmEmitter) EmitAll(core *Core, seq []*Instruction) error {
	for _, instr := range seq {
		if err := e.Emit(core, instr); err != nil {
			return err
		}
	}
	return nil
}
