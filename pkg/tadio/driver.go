package tadio

import (
	"fmt"
	"os"

	"github.com/samcharles93/tad/pkg/tad"
)

// Importer reads arrays from a file in any registered format. The backend
// is opened on first use.
type Importer struct {
	fileName  string
	hints     tad.TagList
	format    Format
	formatErr error
	opened    bool
}

// NewImporter prepares to read fileName with a backend chosen by reg.
// The FORMAT hint overrides the file extension.
func (reg *Registry) NewImporter(fileName string, hints tad.TagList) *Importer {
	f, err := reg.FormatFor(fileName, hints)
	return &Importer{fileName: fileName, hints: hints.Clone(), format: f, formatErr: err}
}

// NewImporter prepares to read fileName with the built-in backends.
func NewImporter(fileName string, hints tad.TagList) *Importer {
	return DefaultRegistry().NewImporter(fileName, hints)
}

// FileName returns the name the importer reads from.
func (im *Importer) FileName() string { return im.fileName }

// CheckAccess reports whether a backend exists for the file and the file
// can be opened, without opening the backend.
func (im *Importer) CheckAccess() error {
	if im.formatErr != nil {
		return im.formatErr
	}
	if im.fileName == StdioName {
		return nil
	}
	f, err := os.Open(im.fileName)
	if err != nil {
		return fmt.Errorf("%w: %w", tad.ErrSystem, err)
	}
	return f.Close()
}

func (im *Importer) ensureOpen() error {
	if im.formatErr != nil {
		return im.formatErr
	}
	if im.opened {
		return nil
	}
	if err := im.format.OpenForReading(im.fileName, im.hints); err != nil {
		// Release whatever the backend acquired before failing.
		_ = im.format.Close()
		return err
	}
	im.opened = true
	return nil
}

// ArrayCount returns the number of arrays in the file.
func (im *Importer) ArrayCount() (tad.Count, error) {
	if err := im.ensureOpen(); err != nil {
		return tad.Count{State: tad.CountUnsupported}, err
	}
	return im.format.ArrayCount(), nil
}

// CountErr returns the reason the backend could not count its arrays, if
// it keeps one. It is nil before the backend is opened.
func (im *Importer) CountErr() error {
	if !im.opened {
		return nil
	}
	if ce, ok := im.format.(CountErrorer); ok {
		return ce.CountErr()
	}
	return nil
}

// ReadArray reads the next array if index < 0, else the given one.
func (im *Importer) ReadArray(index int) (*tad.Array, error) {
	if err := im.ensureOpen(); err != nil {
		return nil, err
	}
	return im.format.ReadArray(index)
}

// HasMore reports whether a sequential read would find another array.
func (im *Importer) HasMore() (bool, error) {
	if err := im.ensureOpen(); err != nil {
		return false, err
	}
	return im.format.HasMore()
}

// Close closes the backend if it was opened. It is safe to call Close more
// than once.
func (im *Importer) Close() error {
	if !im.opened {
		return nil
	}
	im.opened = false
	return im.format.Close()
}

// Exporter writes arrays to a file in any registered format. The backend is
// opened by the first WriteArray call.
type Exporter struct {
	fileName   string
	appendMode bool
	hints      tad.TagList
	format     Format
	formatErr  error
	opened     bool
}

// NewExporter prepares to write fileName with a backend chosen by reg.
func (reg *Registry) NewExporter(fileName string, appendMode bool, hints tad.TagList) *Exporter {
	f, err := reg.FormatFor(fileName, hints)
	return &Exporter{fileName: fileName, appendMode: appendMode, hints: hints.Clone(), format: f, formatErr: err}
}

// NewExporter prepares to write fileName with the built-in backends.
func NewExporter(fileName string, appendMode bool, hints tad.TagList) *Exporter {
	return DefaultRegistry().NewExporter(fileName, appendMode, hints)
}

// FileName returns the name the exporter writes to.
func (ex *Exporter) FileName() string { return ex.fileName }

// WriteArray writes a, opening the backend first if needed.
func (ex *Exporter) WriteArray(a *tad.Array) error {
	if ex.formatErr != nil {
		return ex.formatErr
	}
	if !ex.opened {
		if err := ex.format.OpenForWriting(ex.fileName, ex.appendMode, ex.hints); err != nil {
			_ = ex.format.Close()
			return err
		}
		ex.opened = true
	}
	return ex.format.WriteArray(a)
}

// Close flushes and closes the backend if it was opened.
func (ex *Exporter) Close() error {
	if !ex.opened {
		return nil
	}
	ex.opened = false
	return ex.format.Close()
}
