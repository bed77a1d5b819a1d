//go:build headless

package main

import "github.com/intuitionamiga/ppc2sim/internal/ppc2"

// SonicTrace is a no-op in headless mode.
type SonicTrace struct{}

func NewSonicTrace() (*SonicTrace, error)                { return &SonicTrace{}, nil }
func (s *SonicTrace) Issue(cycle int, _ *ppc2.Instruction) {}
func (s *SonicTrace) Stall(cycle int, reason string)       {}
func (s *SonicTrace) Close()                               {}
