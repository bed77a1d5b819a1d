//go:build headless

// pipelineview_headless.go - Stub viewer for headless builds (testing)

package main

import "github.com/intuitionamiga/ppc2sim/internal/ppc2"

// PipelineView is a no-op in headless mode.
type PipelineView struct {
	core *ppc2.Core
}

func NewPipelineView(core *ppc2.Core, maxLines int) *PipelineView {
	return &PipelineView{core: core}
}

func (v *PipelineView) Issue(cycle int, _ *ppc2.Instruction) {}
func (v *PipelineView) Stall(cycle int, reason string)       {}
func (v *PipelineView) Run() error                           { return nil }
