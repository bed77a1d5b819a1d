// stencil.go - 3x3x3 grid stencil bag generator
//
// The outer stencil-generator is explicitly out of core scope (spec.md
// §1) but is still worth having on hand as the worked example that
// drove the model's design targets (spec.md glossary: "Stencil").
// Grounded on original_source/simulate.py's stencil(): nine grid-cell
// load streams plus one 27-neighbor weighted accumulation ("jam") for
// the center cell, merged round-robin the way its sibling `tests()`
// helper merges independent preamble streams. Per-cell streams don't
// touch Core and materialize independently, so they're built
// concurrently via errgroup; the merge itself is sequential to stay
// deterministic (spec.md §5).
//
// Deviates from the original in one respect: the original's grid base
// pointers are plain Python strings threaded straight through as
// IntRegister identities, which the reference IntRegister type never
// actually supports as symbolic (ppc.py's RegisterFile indexes by
// concrete .num). This spec keeps integer operands physical-only
// (spec.md §3's Register identity), so each grid cell gets its own
// distinct physical integer base register instead.

package ppc2

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

func stencilLabel(prefix string, i, j, kp, ks int) string {
	return fmt.Sprintf("%s_%d_%d_%d%d", prefix, i, j, kp, ks)
}

// stencilStream builds the load stream for one grid cell (i,j): an
// initial paired load of slots (0,1), then four slide-and-reload steps
// that each pull in the next k-plane via a single-double update load
// followed by a fresh paired load — nine instructions in all, reaching
// the (8,7) pair stencilJam's last plane reads.
func stencilStream(i, j int, base RegRef) []*Instruction {
	a := func(kp, ks int) RegRef { return SymRef(stencilLabel("a", i, j, kp, ks)) }
	out := []*Instruction{lfpd(a(0, 1), base, 0)}
	for _, k := range []int{2, 4, 6, 8} {
		out = append(out, lfdu(a(k, k-1), base, 16))
		out = append(out, lfpd(a(k, k+1), base, 0))
	}
	return out
}

// stencilJam builds the 27-neighbor weighted accumulation for the
// center cell (i,j), three k-planes deep: each plane folds in every
// neighbor's corresponding paired load via two cross-multiply-adds and
// one straight multiply-add.
func stencilJam(i, j int) []*Instruction {
	r := func(kp, ks int) RegRef { return SymRef(stencilLabel("r", i, j, kp, ks)) }
	w01 := SymRef("w01")
	w2x := SymRef("w2x")
	var out []*Instruction
	for _, k := range []int{2, 4, 6} {
		rr := r(k, k-1)
		for ii := -1; ii <= 1; ii++ {
			for jj := -1; jj <= 1; jj++ {
				a := func(kp, ks int) RegRef { return SymRef(stencilLabel("a", i+ii, j+jj, kp, ks)) }
				out = append(out, fxcpmadd(rr, w01, a(k, k-1), rr))
				out = append(out, fxcxma(rr, w01, a(k, k+1), rr))
				out = append(out, fxcpmadd(rr, w2x, a(k+2, k+1), rr))
			}
		}
	}
	return out
}

// mergeRoundRobin interleaves streams round-robin, dropping a stream
// from further rounds once exhausted — the finite analogue of
// original_source/simulate.py's tests() `merge` helper, which pops an
// iterator on StopIteration instead of looping forever.
func mergeRoundRobin(streams [][]*Instruction) []*Instruction {
	idx := make([]int, len(streams))
	var out []*Instruction
	for {
		progressed := false
		for s := range streams {
			if idx[s] < len(streams[s]) {
				out = append(out, streams[s][idx[s]])
				idx[s]++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

// BuildStencilBag assembles the unordered instruction bag for the
// kernel: the two weight seeds, the nine per-cell load streams merged
// round-robin, and the center cell's jam — suitable as input to
// Schedule.
func BuildStencilBag(ctx context.Context) ([]*Instruction, error) {
	type cell struct{ i, j int }
	cells := make([]cell, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cells = append(cells, cell{i, j})
		}
	}

	streams := make([][]*Instruction, len(cells))
	g, _ := errgroup.WithContext(ctx)
	for idx, c := range cells {
		idx, c := idx, c
		g.Go(func() error {
			base := PhysRef(Int(c.i*3 + c.j))
			streams[idx] = stencilStream(c.i, c.j, base)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := []*Instruction{
		fpset2(SymRef("w01"), 1.0/9, 2.0/9),
		fpset2(SymRef("w2x"), 1.0/9, 9),
	}
	bag = append(bag, mergeRoundRobin(streams)...)
	bag = append(bag, stencilJam(1, 1)...)
	return bag, nil
}
