// stepper.go - Interactive raw-mode single-step trace viewer
//
// Advances a scheduled sequence one instruction per keypress, reading
// unbuffered input so a single key (not a line) drives each step.

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/intuitionamiga/ppc2sim/internal/ppc2"
)

// RunStepper issues seq against core one instruction at a time, pausing
// for a keypress before each issue. Pressing 'q' stops early.
func RunStepper(core *ppc2.Core, seq []*ppc2.Instruction) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for i, instr := range seq {
		fmt.Printf("\r\nnext: %s -- press any key ('q' to quit)\r\n", instr.String())
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}
		if buf[0] == 'q' {
			break
		}
		if err := core.IssueOne(instr); err != nil {
			return err
		}
		fmt.Printf("\r\nissued %d/%d, cycle=%d\r\n", i+1, len(seq), core.Cycle)
	}
	return nil
}
