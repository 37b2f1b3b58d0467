package tad

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Writer appends native-format records to a stream.
//
// Each WriteArray call either writes a complete record or leaves the stream
// corrupt; after a failed write the Writer refuses further records.
type Writer struct {
	bw     *bufio.Writer
	closer io.Closer
	broken error
	closed bool
}

// Create creates or truncates the named file for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, sysErr("create", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Append opens the named file for writing after its existing records,
// creating it if necessary.
func Append(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, sysErr("open for append", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// OpenWriter calls Append or Create depending on appendMode.
func OpenWriter(path string, appendMode bool) (*Writer, error) {
	if appendMode {
		return Append(path)
	}
	return Create(path)
}

// NewWriter returns a Writer on w. Closing the Writer does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteArray writes a as one record and flushes it to the underlying writer.
func (w *Writer) WriteArray(a *Array) error {
	if w.closed {
		return ErrClosed
	}
	if w.broken != nil {
		return fmt.Errorf("%w: stream is corrupt after earlier failure: %w", ErrSystem, w.broken)
	}
	if len(a.data) != a.dataSize {
		return fmt.Errorf("%w: data holds %d bytes, shape needs %d", ErrShapeMismatch, len(a.data), a.dataSize)
	}
	if _, err := a.WriteTo(w.bw); err != nil {
		w.broken = err
		return err
	}
	if err := w.bw.Flush(); err != nil {
		w.broken = err
		return sysErr("flush", err)
	}
	return nil
}

// Close flushes pending output and closes the underlying file if the
// Writer opened it. It is safe to call Close more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var flushErr error
	if w.broken == nil {
		flushErr = w.bw.Flush()
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && flushErr == nil {
			return sysErr("close", err)
		}
	}
	if flushErr != nil {
		return sysErr("flush", flushErr)
	}
	return nil
}
