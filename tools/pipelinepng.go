// pipelinepng.go - Render a schedule's per-unit occupancy as a Gantt PNG
//
// Usage: go run pipelinepng.go <out.png>
//
// Standalone like the teacher's font2rgba.go: a one-shot dev tool, not
// part of the simulator binary. Schedules and executes the stencil
// sweep's default instruction bag against a fresh Core, recording each
// Issue event's cycle and functional unit through a TraceSink, then
// renders the resulting FP/INT/LS busy table as a bitmap.

package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

// ganttFrame is one sampled cycle's per-unit busy flag.
type ganttFrame struct {
	fp, intu, ls bool
}

// occupancyTrace is a TraceSink that marks, for every cycle an
// instruction occupies its functional unit, the corresponding frame busy.
type occupancyTrace struct {
	frames []ganttFrame
}

func (t *occupancyTrace) ensure(cycle int) {
	for len(t.frames) <= cycle {
		t.frames = append(t.frames, ganttFrame{})
	}
}

func (t *occupancyTrace) Issue(cycle int, instr *ppc2.Instruction) {
	for c := cycle; c < cycle+instr.Throughput; c++ {
		t.ensure(c)
		switch instr.Unit {
		case ppc2.UnitFP:
			t.frames[c].fp = true
		case ppc2.UnitINT:
			t.frames[c].intu = true
		case ppc2.UnitLS:
			t.frames[c].ls = true
		}
	}
}

func (t *occupancyTrace) Stall(cycle int, reason string) {}

// recordedFrames schedules and executes the stencil sweep's default bag
// against a fresh Core and returns the resulting per-cycle occupancy.
func recordedFrames() ([]ganttFrame, error) {
	core := ppc2.NewCore(ppc2.DefaultFPRegisters*3, ppc2.DefaultIntRegisters, ppc2.DefaultMemoryDoubles)
	trace := &occupancyTrace{}
	core.SetTrace(trace)

	bag, err := ppc2.BuildStencilBag(context.Background())
	if err != nil {
		return nil, fmt.Errorf("build bag: %w", err)
	}
	scheduled, err := ppc2.Schedule(core, bag)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	if err := core.Execute(scheduled); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	if len(trace.frames) == 0 {
		trace.ensure(0)
	}
	return trace.frames, nil
}

// writeGanttPNG renders frames as a 3-row bitmap (FP, INT, LS), scaled
// up by colWidth/rowHeight, and writes PNG to path.
func writeGanttPNG(path string, frames []ganttFrame, colWidth, rowHeight int) error {
	idle := color.RGBA{40, 40, 40, 255}
	busy := color.RGBA{80, 200, 120, 255}
	rowColor := func(on bool) color.Color {
		if on {
			return busy
		}
		return idle
	}

	src := image.NewRGBA(image.Rect(0, 0, len(frames), 3))
	for x, f := range frames {
		src.Set(x, 0, rowColor(f.fp))
		src.Set(x, 1, rowColor(f.intu))
		src.Set(x, 2, rowColor(f.ls))
	}

	w, h := len(frames)*colWidth, 3*rowHeight
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, dst)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pipelinepng <out.png>")
		os.Exit(1)
	}
	frames, err := recordedFrames()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pipelinepng:", err)
		os.Exit(1)
	}
	if err := writeGanttPNG(os.Args[1], frames, 16, 24); err != nil {
		fmt.Fprintln(os.Stderr, "pipelinepng:", err)
		os.Exit(1)
	}
}
