// instruction.go - Opcode-closure instruction model
//
// Each opcode constructor in isa_fp.go / isa_ls.go / isa_pragma.go builds an
// *Instruction carrying its own effect closure, the way the teacher's 6502
// table (cpu_6502_opcode_table_gen.go) pairs an opcode with a handler
// function rather than dispatching through a type switch. This keeps the
// emitter able to read the opcode name directly off the instruction (design
// note in spec.md §9) without a second table to keep in sync.

package ppc2

import "strconv"

// Unit is the functional-unit tag an instruction occupies while issuing.
type Unit uint8

const (
	UnitFP Unit = iota
	UnitINT
	UnitLS
)

func (u Unit) String() string {
	switch u {
	case UnitFP:
		return "floating point"
	case UnitINT:
		return "integer"
	case UnitLS:
		return "load/store"
	default:
		return "unknown"
	}
}

// inuseCost is the (source-side, dest-side) in-use latency pair for a
// register named in an instruction's Inuse map.
type inuseCost struct {
	Src int
	Dst int
}

// namedOperand is one entry of an instruction's declared operand list, in
// constructor-argument order — the emitter walks this slice, not the
// read/write sets, to reproduce the declared register order (spec.md §6).
type namedOperand struct {
	Role string
	Val  Operand
}

// Instruction is immutable after construction; the engine calls Run but
// never mutates the instruction itself.
type Instruction struct {
	Op         string
	Operands   []namedOperand
	FPRead     []RegRef
	FPWrite    []RegRef
	IntRead    []RegRef
	IntWrite   []RegRef
	Inuse      map[RegRef]inuseCost
	Unit       Unit
	Latency    int
	Throughput int // inverse-throughput: minimum issue spacing, cycles
	WTBytes    int // write-through bytes, 0 if none
	Pragmatic  bool
	Run        func(c *Core) error
}

func newInstruction(op string, unit Unit, latency, throughput, wtBytes int, pragmatic bool) *Instruction {
	if throughput < 1 {
		throughput = 1
	}
	return &Instruction{
		Op:         op,
		Unit:       unit,
		Latency:    latency,
		Throughput: throughput,
		WTBytes:    wtBytes,
		Pragmatic:  pragmatic,
		Inuse:      make(map[RegRef]inuseCost),
	}
}

func (i *Instruction) operand(role string, v Operand) {
	i.Operands = append(i.Operands, namedOperand{Role: role, Val: v})
}

func (i *Instruction) readsFP(refs ...RegRef)   { i.FPRead = append(i.FPRead, refs...) }
func (i *Instruction) writesFP(refs ...RegRef)  { i.FPWrite = append(i.FPWrite, refs...) }
func (i *Instruction) readsInt(refs ...RegRef)  { i.IntRead = append(i.IntRead, refs...) }
func (i *Instruction) writesInt(refs ...RegRef) { i.IntWrite = append(i.IntWrite, refs...) }

func (i *Instruction) setInuse(ref RegRef, srcLatency, dstLatency int) {
	i.Inuse[ref] = inuseCost{Src: srcLatency, Dst: dstLatency}
}

func (i *Instruction) String() string {
	s := i.Op + "("
	for n, o := range i.Operands {
		if n > 0 {
			s += ", "
		}
		s += o.Role + "=" + o.Val.String()
	}
	return s + ")"
}

func (o Operand) String() string {
	if o.isImm {
		return strconv.Itoa(o.imm)
	}
	return o.reg.String()
}
