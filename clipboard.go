// clipboard.go - System clipboard glue for emitted assembly
//
// Lets the CLI copy AsmEmitter's output straight to the clipboard for
// pasting into a host C source file, instead of always redirecting to a
// file.

package main

import "golang.design/x/clipboard"

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
