// scheduler.go - Greedy list scheduler
//
// Depth-1, no backtracking: at each step, rank every instruction still
// available (its data dependencies already scheduled, and its read/write
// footprint disjoint from anything still in flight) by Core.Cost and take
// the cheapest, breaking ties by original program order. Grounded on
// original_source/simulate.py's schedule_one/schedule pair; spec.md §4.7.

package ppc2

import "sort"

func regRefSet(refs []RegRef) map[RegRef]bool {
	out := make(map[RegRef]bool, len(refs))
	for _, r := range refs {
		out[r] = true
	}
	return out
}

func disjoint(a, b map[RegRef]bool) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if b[k] {
			return false
		}
	}
	return true
}

// ScheduleOne picks the single best candidate from pending given cost
// under core, without issuing anything or modifying pending. It returns the chosen
// candidate's position in pending, or -1 with ErrNoSafeInstruction if no
// candidate is currently issuable without a data hazard violation.
func ScheduleOne(core *Core, pending []*Instruction) (int, error) {
	bestIdx := -1
	bestCost := 0
	for i, instr := range pending {
		if !streamSafe(instr, pending, i) {
			continue
		}
		cost, err := core.Cost(instr)
		if err != nil {
			return -1, err
		}
		if bestIdx == -1 || cost < bestCost {
			bestIdx = i
			bestCost = cost
		}
	}
	if bestIdx == -1 {
		return -1, &PipelineError{Kind: ErrNoSafeInstruction, Msg: "no candidate instruction is safe to schedule next"}
	}
	return bestIdx, nil
}

// streamSafe reports whether pending[i] can be pulled ahead of every
// pending[j], j<i, without crossing a true data dependency: it must not
// write anything an earlier-in-program-order pending instruction reads
// or writes, and must not read anything an earlier one writes (spec.md
// §4.7's "stream_write/stream_read disjointness" candidate check).
func streamSafe(instr *Instruction, pending []*Instruction, i int) bool {
	writes := regRefSet(instr.FPWrite)
	for k := range regRefSet(instr.IntWrite) {
		writes[k] = true
	}
	reads := regRefSet(instr.FPRead)
	for k := range regRefSet(instr.IntRead) {
		reads[k] = true
	}
	for j := 0; j < i; j++ {
		other := pending[j]
		otherWrites := regRefSet(other.FPWrite)
		for k := range regRefSet(other.IntWrite) {
			otherWrites[k] = true
		}
		otherReads := regRefSet(other.FPRead)
		for k := range regRefSet(other.IntRead) {
			otherReads[k] = true
		}
		if !disjoint(writes, otherWrites) || !disjoint(writes, otherReads) || !disjoint(reads, otherWrites) {
			return false
		}
	}
	return true
}

// Schedule greedily orders seq, issuing each selected instruction on core
// via IssueOne before ranking the next, so every Cost lookup sees the
// stalls left by the instructions already chosen. It returns a fresh
// slice in issue order; seq itself is not modified.
func Schedule(core *Core, seq []*Instruction) ([]*Instruction, error) {
	remaining := make([]*Instruction, len(seq))
	copy(remaining, seq)
	out := make([]*Instruction, 0, len(seq))
	for len(remaining) > 0 {
		idx, err := ScheduleOne(core, remaining)
		if err != nil {
			return nil, err
		}
		if err := core.IssueOne(remaining[idx]); err != nil {
			return nil, err
		}
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out, nil
}

// StableSortByCost is a diagnostic helper (used by the pipeline viewer to
// rank a frontier for display) that never mutates seq.
func StableSortByCost(core *Core, seq []*Instruction) ([]*Instruction, []int, error) {
	type scored struct {
		instr *Instruction
		cost  int
	}
	scoredList := make([]scored, len(seq))
	for i, instr := range seq {
		cost, err := core.Cost(instr)
		if err != nil {
			return nil, nil, err
		}
		scoredList[i] = scored{instr: instr, cost: cost}
	}
	sort.SliceStable(scoredList, func(i, j int) bool { return scoredList[i].cost < scoredList[j].cost })
	out := make([]*Instruction, len(scoredList))
	costs := make([]int, len(scoredList))
	for i, s := range scoredList {
		out[i] = s.instr
		costs[i] = s.cost
	}
	return out, costs, nil
}
