//go:build !headless

// pipelineview.go - Live pipeline viewer (Ebiten)
//
// Modeled on the teacher's MonitorOverlay (debug_overlay.go) at reduced
// scope: a scrolling trace tail, per-unit issue counters and the live
// hazard/unit/in-use/write-through countdown tables, drawn with
// ebitenutil's built-in debug text rather than a custom glyph atlas.
//
// Issue/Stall arrive from whatever goroutine is driving the core (see
// main.go, which runs Schedule/Execute concurrently with Run() so the
// window stays live while the scheduler or executor work), so the tail
// is guarded by its own mutex; the table state Draw reads every frame
// comes straight from Core.Snapshot(), which takes its own lock.

package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

// PipelineView is both a TraceSink (feeding the scrolling tail) and an
// ebiten.Game (rendering it), so it can be handed to Core.SetTrace and
// to ebiten.RunGame without any adapter in between.
type PipelineView struct {
	core    *ppc2.Core
	mu      sync.Mutex
	lines   []string
	maxLine int
}

func NewPipelineView(core *ppc2.Core, maxLines int) *PipelineView {
	if maxLines <= 0 {
		maxLines = 20
	}
	return &PipelineView{core: core, maxLine: maxLines}
}

func (v *PipelineView) Issue(cycle int, instr *ppc2.Instruction) {
	v.push(fmt.Sprintf("[%2d] %s", cycle, instr.String()))
}

func (v *PipelineView) Stall(cycle int, reason string) {
	v.push(fmt.Sprintf("[%2d] -- %s", cycle, reason))
}

func (v *PipelineView) push(line string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines = append(v.lines, line)
	if len(v.lines) > v.maxLine {
		v.lines = v.lines[len(v.lines)-v.maxLine:]
	}
}

func (v *PipelineView) Update() error { return nil }

// formatCountdowns renders a table snapshot as "label: KEY=n, KEY=n".
func formatCountdowns(label string, entries []ppc2.RegCountdown) string {
	if len(entries) == 0 {
		return label + ": idle"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		if u, ok := e.Key.AsUnit(); ok {
			parts[i] = fmt.Sprintf("%s=%d", u, e.Remaining)
		} else {
			parts[i] = fmt.Sprintf("%s=%d", e.Key, e.Remaining)
		}
	}
	return label + ": " + strings.Join(parts, ", ")
}

func (v *PipelineView) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	tail := strings.Join(v.lines, "\n")
	v.mu.Unlock()

	snap := v.core.Snapshot()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"cycle %d   FP=%d INT=%d LS=%d\n%s\n%s\n%s\n%s\nwrite-through: %d/%d\n%s",
		v.core.CycleNow(),
		v.core.Counter(ppc2.UnitFP), v.core.Counter(ppc2.UnitINT), v.core.Counter(ppc2.UnitLS),
		formatCountdowns("hazard", snap.Hazard),
		formatCountdowns("unit", snap.Unit),
		formatCountdowns("inuse(src)", snap.InuseSrc),
		formatCountdowns("inuse(dst)", snap.InuseDst),
		snap.WTTokens, snap.WTCap,
		tail))
}

func (v *PipelineView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 640, 480
}

// Run opens the viewer window and blocks until it's closed.
func (v *PipelineView) Run() error {
	ebiten.SetWindowSize(640, 480)
	ebiten.SetWindowTitle("pipeline trace")
	return ebiten.RunGame(v)
}
