// trace.go - Text trace sink
//
// Matches spec.md §6's trace format exactly: one line per event,
// "[%2d] <payload>" where payload is either the issued instruction's
// canonical representation or a diagnostic string prefixed with "-- ".

package ppc2

import "fmt"

// TraceSink receives issue/stall events from the core. Swappable the way
// the teacher's CPU runners swap a debug sink in and out (debug_monitor.go).
type TraceSink interface {
	Issue(cycle int, instr *Instruction)
	Stall(cycle int, reason string)
}

// NullTraceSink discards every event; the default for a fresh Core.
type NullTraceSink struct{}

func (NullTraceSink) Issue(cycle int, instr *Instruction) {}
func (NullTraceSink) Stall(cycle int, reason string)      {}

// PrintTraceSink formats each event as one line and hands it to Write;
// kept separate from StdoutTraceSink so tests can capture output without
// touching os.Stdout.
type PrintTraceSink struct {
	Write func(line string)
}

func (s PrintTraceSink) Issue(cycle int, instr *Instruction) {
	if s.Write == nil {
		return
	}
	s.Write(fmt.Sprintf("[%2d] %s", cycle, instr.String()))
}

func (s PrintTraceSink) Stall(cycle int, reason string) {
	if s.Write == nil {
		return
	}
	s.Write(fmt.Sprintf("[%2d] -- %s", cycle, reason))
}

// NewStdoutTraceSink returns a PrintTraceSink that writes to os.Stdout via
// fmt.Println, the same line-at-a-time convention the teacher's
// terminal_output.go uses for console logging.
func NewStdoutTraceSink() PrintTraceSink {
	return PrintTraceSink{Write: func(line string) { fmt.Println(line) }}
}

// FanoutTraceSink forwards every event to each of its sinks in order, so
// the CLI can combine a visual/textual trace with the audible one.
type FanoutTraceSink struct {
	Sinks []TraceSink
}

func (f FanoutTraceSink) Issue(cycle int, instr *Instruction) {
	for _, s := range f.Sinks {
		s.Issue(cycle, instr)
	}
}

func (f FanoutTraceSink) Stall(cycle int, reason string) {
	for _, s := range f.Sinks {
		s.Stall(cycle, reason)
	}
}
