// core.go - Core machine state and the in-order issue engine
//
// Holds the cycle counter, register files, memory, the four countdown
// tables, the write-through bucket, the symbolic register binding, the free
// register pool, per-unit counters and the trace sink (spec.md §4, §5).
//
// Core's mutable state is owned exclusively by whoever holds it during a
// call (spec.md §5: single logical thread of control). The RWMutex below
// follows the teacher's convention of guarding shared machine state even
// when the hot path is single-threaded (see cpu_ie32.go's register/timer
// locking) — it lets the optional live pipeline viewer and sonic trace
// reader take a consistent snapshot between issue steps without the caller
// having to know about them.

package ppc2

import (
	"fmt"
	"sync"
)

const (
	DefaultFPRegisters   = 32
	DefaultIntRegisters  = 32
	DefaultMemoryDoubles = 32

	writeThroughMaxTokens = 6
	writeThroughLatency   = 40
)

// Core is the whole simulated machine: one instance per run.
type Core struct {
	mu sync.RWMutex

	Cycle int

	fp   *RegisterFile
	ireg *RegisterFile
	mem  []float64

	hazard   *CountdownTable
	unit     *CountdownTable
	inuseSrc *CountdownTable
	inuseDst *CountdownTable
	wt       *WriteThroughBucket

	bindings map[string]PhysReg
	eternal  map[PhysReg]bool
	freePool []int // FP register indices, kept sorted ascending

	counters map[Unit]int

	trace TraceSink
}

// NewCore constructs a Core with fresh empty tables and a full FP free pool.
func NewCore(fpRegisters, intRegisters, memoryDoubles int) *Core {
	c := &Core{
		fp:       newRegisterFile(RegFP, fpRegisters),
		ireg:     newRegisterFile(RegInt, intRegisters),
		mem:      make([]float64, memoryDoubles),
		hazard:   NewCountdownTable(),
		unit:     NewCountdownTable(),
		inuseSrc: NewCountdownTable(),
		inuseDst: NewCountdownTable(),
		wt:       NewWriteThroughBucket(writeThroughMaxTokens, writeThroughLatency),
		bindings: make(map[string]PhysReg),
		eternal:  make(map[PhysReg]bool),
		counters: make(map[Unit]int),
		trace:    NullTraceSink{},
	}
	c.freePool = make([]int, fpRegisters)
	for i := range c.freePool {
		c.freePool[i] = i
	}
	return c
}

// SetTrace installs the trace sink used for issue/stall diagnostics.
func (c *Core) SetTrace(t TraceSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = t
}

// FlushPipeline clears the four countdown tables and the write-through
// bucket, but not register contents or symbolic bindings.
func (c *Core) FlushPipeline() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hazard.Flush()
	c.unit.Flush()
	c.inuseSrc.Flush()
	c.inuseDst.Flush()
	c.wt.Flush()
}

// ---------------------------------------------------------------- pool/bind

func (c *Core) removeFromPool(phys PhysReg) {
	if phys.Kind != RegFP {
		return
	}
	for i, n := range c.freePool {
		if n == phys.Num {
			c.freePool = append(c.freePool[:i], c.freePool[i+1:]...)
			return
		}
	}
}

func (c *Core) popFromPool() (int, bool) {
	if len(c.freePool) == 0 {
		return 0, false
	}
	n := c.freePool[0]
	c.freePool = c.freePool[1:]
	return n, true
}

// NameRegisters pre-binds labels to physical FP registers. Fatal if a
// physical is already bound to a different label.
func (c *Core) NameRegisters(bindings map[string]PhysReg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	reverse := make(map[PhysReg]string, len(c.bindings))
	for label, phys := range c.bindings {
		reverse[phys] = label
	}
	for label, phys := range bindings {
		if existingLabel, ok := reverse[phys]; ok && existingLabel != label {
			return &PipelineError{Kind: ErrInvalidRegisterRef, Msg: "physical register " + phys.String() + " already bound to a different label"}
		}
		c.bindings[label] = phys
		reverse[phys] = label
		c.removeFromPool(phys)
	}
	return nil
}

// AcquireFPRegisters pulls the listed FP identities into the eternal set;
// they never auto-allocate through the symbolic allocator again.
func (c *Core) AcquireFPRegisters(nums []int) []PhysReg {
	c.mu.Lock()
	defer c.mu.Unlock()
	regs := make([]PhysReg, len(nums))
	for i, n := range nums {
		r := FP(n)
		regs[i] = r
		c.eternal[r] = true
		c.removeFromPool(r)
	}
	return regs
}

// gc is referenced by the original design but deliberately unimplemented;
// spilling a bound label back to the free pool has no defined policy
// (spec.md §9), so pool exhaustion is always fatal.
func (c *Core) gc() error {
	return &PipelineError{Kind: ErrNoFreeRegister, Msg: "free register pool exhausted and no garbage collector is implemented"}
}

// GetFPRegister resolves a RegRef to a physical FP register, binding a
// fresh label from the free pool on first reference when allocate is true.
func (c *Core) GetFPRegister(ref RegRef, allocate bool) (PhysReg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getFPRegisterLocked(ref, allocate)
}

func (c *Core) getFPRegisterLocked(ref RegRef, allocate bool) (PhysReg, error) {
	if ref.isPhys {
		c.removeFromPool(ref.phys)
		return ref.phys, nil
	}
	if ref.label == "" {
		return PhysReg{}, &PipelineError{Kind: ErrInvalidRegisterRef, Msg: "empty register reference"}
	}
	if phys, ok := c.bindings[ref.label]; ok {
		c.removeFromPool(phys)
		return phys, nil
	}
	if !allocate {
		return PhysReg{}, &PipelineError{Kind: ErrUnknownLabel, Msg: "label \"" + ref.label + "\" has not been allocated"}
	}
	if len(c.freePool) < 1 {
		if err := c.gc(); err != nil {
			return PhysReg{}, err
		}
	}
	n, ok := c.popFromPool()
	if !ok {
		return PhysReg{}, &PipelineError{Kind: ErrNoFreeRegister, Msg: "cannot find a free register"}
	}
	phys := FP(n)
	c.bindings[ref.label] = phys
	return phys, nil
}

// tryGetFPRegister is the non-fatal probe used by Cost's write-side stall
// contribution: an unresolved label cannot be the target of a prior write
// or in-use marker (nothing could have touched a register that doesn't
// exist yet), so it vacuously contributes no stall rather than raising
// UnknownLabel the way a read of an undefined value would.
func (c *Core) tryGetFPRegister(ref RegRef) (PhysReg, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ref.isPhys {
		return ref.phys, true
	}
	phys, ok := c.bindings[ref.label]
	return phys, ok
}

func (c *Core) resolveFPList(refs []RegRef, allocate bool) ([]PhysReg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PhysReg, 0, len(refs))
	for _, r := range refs {
		p, err := c.getFPRegisterLocked(r, allocate)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// intRegNum extracts the physical integer register index from a RegRef.
// Integer operands never carry a symbolic form in this ISA subset.
func intRegNum(ref RegRef) (int, error) {
	if !ref.isPhys || ref.phys.Kind != RegInt {
		return 0, &PipelineError{Kind: ErrInvalidRegisterRef, Msg: "expected a physical integer register"}
	}
	return ref.phys.Num, nil
}

// ------------------------------------------------------------- reads/writes

func (c *Core) readFP(phys PhysReg) (FPVal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fp.GetFP(phys.Num)
}

func (c *Core) writeFP(phys PhysReg, v FPVal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fp.SetFP(phys.Num, v)
}

func (c *Core) readInt(num int) (IntVal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ireg.GetInt(num)
}

func (c *Core) writeInt(num int, v IntVal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ireg.SetInt(num, v)
}

func (c *Core) readMem(doubleIndex int) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if doubleIndex < 0 || doubleIndex >= len(c.mem) {
		return 0, &PipelineError{Kind: ErrInvalidRegisterRef, Msg: "memory index out of range"}
	}
	return c.mem[doubleIndex], nil
}

func (c *Core) writeMem(doubleIndex int, v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if doubleIndex < 0 || doubleIndex >= len(c.mem) {
		return &PipelineError{Kind: ErrInvalidRegisterRef, Msg: "memory index out of range"}
	}
	c.mem[doubleIndex] = v
	return nil
}

// operandIntVal resolves an effective-address operand (a physical integer
// register or an immediate) to its integer value.
func (c *Core) operandIntVal(o Operand) (int, error) {
	if o.isImm {
		return o.imm, nil
	}
	n, err := intRegNum(o.reg)
	if err != nil {
		return 0, err
	}
	v, err := c.readInt(n)
	if err != nil {
		return 0, err
	}
	return v.Val, nil
}

// effectiveAddress computes the double-index for a load/store given the
// base integer register's value and an index operand (spec.md §4.3).
func effectiveAddress(c *Core, raNum int, x Operand, aligned bool) (int, error) {
	raVal, err := c.readInt(raNum)
	if err != nil {
		return 0, err
	}
	xVal, err := c.operandIntVal(x)
	if err != nil {
		return 0, err
	}
	addr := raVal.Val + xVal
	if addr%8 != 0 {
		return 0, &PipelineError{Kind: ErrMisalignedAddress, Msg: "effective address is not a multiple of sizeof(double)"}
	}
	idx := addr / 8
	if aligned && idx%2 != 0 {
		return 0, &PipelineError{Kind: ErrMisalignedAddress, Msg: "effective address is not aligned to 2*sizeof(double)"}
	}
	return idx, nil
}

// ------------------------------------------------------------ issue engine

// AdvanceCycle retires every countdown table and the write-through bucket
// by one cycle and bumps the cycle counter.
func (c *Core) AdvanceCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cycle++
	c.hazard.Retire(1)
	c.unit.Retire(1)
	c.inuseSrc.Retire(1)
	c.inuseDst.Retire(1)
	c.wt.Retire(1)
}

// stallReport names which of the five independent checks is currently
// blocking issue, for trace output.
type stallReport struct {
	reason string
	cycles int
}

func (c *Core) checkStalls(instr *Instruction, readPhys, writePhys []PhysReg) stallReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v := c.unit.Stall([]PhysReg{unitKey(instr.Unit)}); v > 0 {
		return stallReport{"unit busy: " + instr.Unit.String(), v}
	}
	if v := c.hazard.Stall(readPhys); v > 0 {
		return stallReport{"register hazard", v}
	}
	if v := c.inuseSrc.Stall(readPhys); v > 0 {
		return stallReport{"source in-use", v}
	}
	if v := c.inuseDst.Stall(writePhys); v > 0 {
		return stallReport{"destination in-use", v}
	}
	if v := c.wt.Stall(instr.WTBytes); v > 0 {
		return stallReport{"write-through buffer full", v}
	}
	return stallReport{}
}

// IssueOne stalls until instr's resource requirements are satisfied, then
// issues it: runs its effect, updates all countdown tables, and emits a
// trace event. The cycle counter does not advance on a successful issue;
// issue is zero-cost once stalls clear.
func (c *Core) IssueOne(instr *Instruction) error {
	readPhys, err := c.resolveFPList(instr.FPRead, true)
	if err != nil {
		return err
	}
	writePhys, err := c.resolveFPList(instr.FPWrite, true)
	if err != nil {
		return err
	}
	type resolvedInuse struct {
		phys PhysReg
		cost inuseCost
	}
	resolved := make([]resolvedInuse, 0, len(instr.Inuse))
	for ref, cost := range instr.Inuse {
		p, err := c.getFPRegisterLocked0(ref)
		if err != nil {
			return err
		}
		resolved = append(resolved, resolvedInuse{phys: p, cost: cost})
	}

	for {
		report := c.checkStalls(instr, readPhys, writePhys)
		if report.cycles == 0 {
			break
		}
		c.trace.Stall(c.Cycle, report.reason)
		c.AdvanceCycle()
	}

	if err := instr.Run(c); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace.Issue(c.Cycle, instr)
	c.counters[instr.Unit]++
	c.unit.Set(unitKey(instr.Unit), instr.Throughput)
	for _, w := range writePhys {
		c.hazard.Set(w, instr.Latency)
	}
	for _, ri := range resolved {
		c.inuseSrc.Set(ri.phys, ri.cost.Src)
		c.inuseDst.Set(ri.phys, ri.cost.Dst)
	}
	if instr.WTBytes > 0 {
		if err := c.wt.Issue(instr.WTBytes); err != nil {
			return err
		}
	}
	return nil
}

// getFPRegisterLocked0 takes the mutex itself and resolves with
// allocate=true; its caller in IssueOne holds no lock at that point (Inuse
// resolution happens before the stall loop, same as read/write resolution).
func (c *Core) getFPRegisterLocked0(ref RegRef) (PhysReg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getFPRegisterLocked(ref, true)
}

// Execute issues a sequence of instructions in the given order.
func (c *Core) Execute(seq []*Instruction) error {
	for _, instr := range seq {
		if err := c.IssueOne(instr); err != nil {
			return err
		}
	}
	return nil
}

// Cost ranks a candidate instruction without issuing it, using allocate=false
// register resolution for reads (an unresolved read label is a genuine user
// error) and the non-fatal probe for the write side (see tryGetFPRegister).
func (c *Core) Cost(instr *Instruction) (int, error) {
	readPhys, err := c.resolveFPListReadOnly(instr.FPRead)
	if err != nil {
		return 0, err
	}
	var writePhys []PhysReg
	for _, w := range instr.FPWrite {
		if p, ok := c.tryGetFPRegister(w); ok {
			writePhys = append(writePhys, p)
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	cost := c.unit.Stall([]PhysReg{unitKey(instr.Unit)})
	if v := c.hazard.Stall(readPhys); v > cost {
		cost = v
	}
	if v := c.inuseSrc.Stall(readPhys); v > cost {
		cost = v
	}
	if v := c.inuseDst.Stall(writePhys); v > cost {
		cost = v
	}
	if v := c.wt.Stall(instr.WTBytes); v > cost {
		cost = v
	}
	return cost, nil
}

func (c *Core) resolveFPListReadOnly(refs []RegRef) ([]PhysReg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PhysReg, 0, len(refs))
	for _, r := range refs {
		p, err := c.getFPRegisterLocked(r, false)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// CycleNow returns the current cycle count. Safe to call from a goroutine
// other than the one driving Execute/Schedule, e.g. a concurrently running
// live viewer.
func (c *Core) CycleNow() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Cycle
}

// Counter returns the number of instructions issued on the given unit.
func (c *Core) Counter(u Unit) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[u]
}

// TableSnapshot is a read-only view of the four countdown tables and the
// write-through bucket's occupancy, for diagnostics and the live pipeline
// viewer — neither mutates nor retains a reference to Core's internals.
type TableSnapshot struct {
	Hazard   []RegCountdown
	Unit     []RegCountdown
	InuseSrc []RegCountdown
	InuseDst []RegCountdown
	WTTokens int
	WTCap    int
}

// Snapshot captures the current countdown-table state.
func (c *Core) Snapshot() TableSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tokens, wtCap := c.wt.Occupancy()
	return TableSnapshot{
		Hazard:   c.hazard.Snapshot(),
		Unit:     c.unit.Snapshot(),
		InuseSrc: c.inuseSrc.Snapshot(),
		InuseDst: c.inuseDst.Snapshot(),
		WTTokens: tokens,
		WTCap:    wtCap,
	}
}

// String dumps cycle count, per-unit issue counters and free pool size for
// diagnostics and test failure messages.
func (c *Core) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("cycle=%d fp_issued=%d int_issued=%d ls_issued=%d free_fp=%d",
		c.Cycle, c.counters[UnitFP], c.counters[UnitINT], c.counters[UnitLS], len(c.freePool))
}
