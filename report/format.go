package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/lexandro/folderreport/walk"
)

const (
	dirPrefix    = "Pasta: "
	subdirPrefix = "  Subpasta: "
	filePrefix   = "  Arquivo: "
)

// Separator closes every directory block.
var Separator = strings.Repeat("-", 40)

// Writer formats Directory Records into report blocks.
// It buffers output; call Flush before the underlying writer is released.
type Writer struct {
	buf         *bufio.Writer
	directories int
	subdirs     int
	files       int
}

// NewWriter creates a report writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// WriteRecord appends one directory block.
func (rw *Writer) WriteRecord(record walk.Record) error {
	if err := rw.line(dirPrefix, record.Path); err != nil {
		return err
	}
	for _, name := range record.Subdirs {
		if err := rw.line(subdirPrefix, name); err != nil {
			return err
		}
	}
	for _, name := range record.Files {
		if err := rw.line(filePrefix, name); err != nil {
			return err
		}
	}
	if err := rw.line("", Separator); err != nil {
		return err
	}

	rw.directories++
	rw.subdirs += len(record.Subdirs)
	rw.files += len(record.Files)
	return nil
}

func (rw *Writer) line(prefix, text string) error {
	if _, err := rw.buf.WriteString(prefix); err != nil {
		return err
	}
	if _, err := rw.buf.WriteString(text); err != nil {
		return err
	}
	return rw.buf.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (rw *Writer) Flush() error {
	return rw.buf.Flush()
}

// Directories returns the number of blocks written.
func (rw *Writer) Directories() int { return rw.directories }

// Subdirs returns the total number of subdirectory lines written.
func (rw *Writer) Subdirs() int { return rw.subdirs }

// Files returns the total number of file lines written.
func (rw *Writer) Files() int { return rw.files }
