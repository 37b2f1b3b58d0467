// Package tadio defines the contract every TAD file format backend
// implements, a registry that selects backends by name or file extension,
// and the lazy Importer and Exporter drivers built on top of it.
package tadio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samcharles93/tad/pkg/tad"
)

// Hint keys understood by the registry and the built-in backends.
const (
	HintFormat     = "FORMAT"
	HintDimensions = "DIMENSIONS"
	HintComponents = "COMPONENTS"
	HintType       = "TYPE"
)

// StdioName selects standard input or output instead of a file.
const StdioName = "-"

var (
	ErrNotOpen     = fmt.Errorf("%w: format is not open", tad.ErrSystem)
	ErrAlreadyOpen = fmt.Errorf("%w: format is already open", tad.ErrSystem)
)

// Format is the capability set of one file format backend.
//
// A Format is opened once, for reading or for writing, and then closed.
// Every error it returns wraps one of the tad error kinds. Backends wrapping
// libraries with their own failure signalling translate it before returning.
type Format interface {
	// OpenForReading opens name. hints carry format specific options.
	OpenForReading(name string, hints tad.TagList) error
	// OpenForWriting opens name, truncating it unless appendMode is set.
	// Backends that cannot append return tad.ErrAppendingNotSupported.
	OpenForWriting(name string, appendMode bool, hints tad.TagList) error
	// Close releases the underlying resource. It is idempotent.
	Close() error
	// ArrayCount returns the number of arrays, scanning if needed.
	ArrayCount() tad.Count
	// ReadArray reads the next array if index < 0, else the given one.
	ReadArray(index int) (*tad.Array, error)
	// HasMore reports whether a sequential read would find another array.
	HasMore() (bool, error)
	// WriteArray appends a in this format's encoding.
	WriteArray(a *tad.Array) error
}

// CountErrorer is implemented by backends that can tell why ArrayCount
// returned an unsupported count.
type CountErrorer interface {
	CountErr() error
}

// Factory returns a new, unopened Format.
type Factory func() Format

// Registry maps format names and file extensions to backends.
// It is not safe for concurrent registration; register at startup.
type Registry struct {
	factories  map[string]Factory
	extensions map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:  make(map[string]Factory),
		extensions: make(map[string]string),
	}
}

// DefaultRegistry returns a registry holding the built-in backends.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("tad", NewNative, "tad")
	r.Register("raw", NewRaw, "raw", "bin")
	return r
}

// Register adds a backend under name and the given file extensions.
// Registering an existing name replaces it.
func (r *Registry) Register(name string, f Factory, extensions ...string) {
	name = strings.ToLower(name)
	r.factories[name] = f
	r.extensions[name] = name
	for _, ext := range extensions {
		r.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = name
	}
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns an unopened backend for the named format or extension.
func (r *Registry) New(format string) (Format, error) {
	name, ok := r.extensions[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", tad.ErrFormatUnsupported, format)
	}
	return r.factories[name](), nil
}

// FormatName decides which format handles fileName. The FORMAT hint wins,
// then the standard stream name selects the native format, then the file
// extension decides.
func FormatName(fileName string, hints *tad.TagList) string {
	if v, ok := hints.Get(HintFormat); ok {
		return strings.ToLower(v)
	}
	if fileName == StdioName {
		return "tad"
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// FormatFor returns an unopened backend for fileName.
func (r *Registry) FormatFor(fileName string, hints tad.TagList) (Format, error) {
	return r.New(FormatName(fileName, &hints))
}
