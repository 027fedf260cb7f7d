// Package console prints the user-facing lines of the report command.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConfirmationFormat is the success line printed after a report is written.
const ConfirmationFormat = "Estrutura de pastas e arquivos salva em '%s'\n"

var highlight = color.New(color.FgGreen, color.Bold)

// Confirm writes the success line for outputPath to w. The file name is
// highlighted only when w is a terminal.
func Confirm(w io.Writer, outputPath string) error {
	name := outputPath
	if IsTerminal(w) {
		name = highlight.Sprint(outputPath)
	}
	_, err := fmt.Fprintf(w, ConfirmationFormat, name)
	return err
}

// Fail writes an error line to w, in red on a terminal.
func Fail(w io.Writer, err error) {
	text := fmt.Sprintf("Error: %v", err)
	if IsTerminal(w) {
		text = color.RedString("%s", text)
	}
	fmt.Fprintln(w, text)
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
