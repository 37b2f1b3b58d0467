package tadio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samcharles93/tad/pkg/tad"
)

// Raw is the backend for headerless data: arrays of one fixed shape stored
// back to back. Reading needs the DIMENSIONS (for example "800x600") and
// TYPE hints; COMPONENTS defaults to 1. Tags are not stored.
type Raw struct {
	f        *os.File
	owned    bool
	br       *bufio.Reader
	bw       *bufio.Writer
	seekable bool

	dims       []int
	components int
	typ        tad.Type
	dataSize   int
}

// NewRaw returns an unopened raw backend.
func NewRaw() Format { return &Raw{} }

// ParseShapeHints extracts the array shape described by the DIMENSIONS,
// COMPONENTS and TYPE hints.
func ParseShapeHints(hints *tad.TagList) (dims []int, components int, typ tad.Type, err error) {
	dimStr, ok := hints.Get(HintDimensions)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: %s", tad.ErrMissingHints, HintDimensions)
	}
	typStr, ok := hints.Get(HintType)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: %s", tad.ErrMissingHints, HintType)
	}
	for _, f := range strings.FieldsFunc(dimStr, func(r rune) bool { return r == 'x' || r == ',' }) {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return nil, 0, 0, fmt.Errorf("%w: bad %s hint %q", tad.ErrInvalidData, HintDimensions, dimStr)
		}
		dims = append(dims, n)
	}
	components = 1
	if _, ok := hints.Get(HintComponents); ok {
		c, ok := hints.Int64(HintComponents)
		if !ok || c < 0 || c > int64(^uint32(0)) {
			return nil, 0, 0, fmt.Errorf("%w: bad %s hint", tad.ErrInvalidData, HintComponents)
		}
		components = int(c)
	}
	typ, err = tad.ParseType(strings.ToLower(typStr))
	if err != nil {
		return nil, 0, 0, err
	}
	return dims, components, typ, nil
}

func (r *Raw) OpenForReading(name string, hints tad.TagList) error {
	if r.f != nil {
		return ErrAlreadyOpen
	}
	dims, components, typ, err := ParseShapeHints(&hints)
	if err != nil {
		return err
	}
	size, err := tad.DataSizeOf(dims, components, typ)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("%w: raw arrays of zero size", tad.ErrUnsupportedFeature)
	}

	f := os.Stdin
	if name != StdioName {
		if f, err = os.Open(name); err != nil {
			return fmt.Errorf("%w: open: %w", tad.ErrSystem, err)
		}
		r.owned = true
	}
	r.f = f
	r.br = bufio.NewReader(f)
	r.seekable = tad.SeekableFile(f)
	r.dims, r.components, r.typ, r.dataSize = dims, components, typ, size
	return nil
}

func (r *Raw) OpenForWriting(name string, appendMode bool, _ tad.TagList) error {
	if r.f != nil {
		return ErrAlreadyOpen
	}
	if name == StdioName {
		if appendMode {
			return fmt.Errorf("%w: standard output", tad.ErrAppendingNotSupported)
		}
		r.f = os.Stdout
	} else {
		flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if appendMode {
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := os.OpenFile(name, flag, 0o644)
		if err != nil {
			return fmt.Errorf("%w: open: %w", tad.ErrSystem, err)
		}
		r.f = f
		r.owned = true
	}
	r.bw = bufio.NewWriter(r.f)
	return nil
}

func (r *Raw) Close() error {
	if r.f == nil {
		return nil
	}
	var err error
	if r.bw != nil {
		if ferr := r.bw.Flush(); ferr != nil {
			err = fmt.Errorf("%w: flush: %w", tad.ErrSystem, ferr)
		}
	}
	if r.owned {
		if cerr := r.f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", tad.ErrSystem, cerr)
		}
	}
	r.f, r.br, r.bw = nil, nil, nil
	return err
}

func (r *Raw) ArrayCount() tad.Count {
	c, _ := r.count()
	return c
}

// CountErr explains an unsupported count on a seekable file, such as a
// trailing partial array.
func (r *Raw) CountErr() error {
	_, err := r.count()
	return err
}

func (r *Raw) count() (tad.Count, error) {
	unsupported := tad.Count{State: tad.CountUnsupported}
	if r.br == nil || !r.seekable {
		return unsupported, nil
	}
	st, err := r.f.Stat()
	if err != nil {
		return unsupported, fmt.Errorf("%w: stat: %w", tad.ErrSystem, err)
	}
	size := int64(r.dataSize)
	if tail := st.Size() % size; tail != 0 {
		return unsupported, fmt.Errorf("%w: %d trailing bytes after %d arrays of %d bytes",
			tad.ErrTruncated, tail, st.Size()/size, size)
	}
	return tad.KnownCount(int(st.Size() / size)), nil
}

func (r *Raw) ReadArray(index int) (*tad.Array, error) {
	if r.br == nil {
		return nil, ErrNotOpen
	}
	if index >= 0 {
		count, err := r.count()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", tad.ErrSeekingNotSupported, err)
		}
		if !count.Known() {
			return nil, fmt.Errorf("%w: medium is not seekable", tad.ErrSeekingNotSupported)
		}
		if index >= count.N {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", tad.ErrIndexOutOfRange, index, count.N)
		}
		if _, err := r.f.Seek(int64(index)*int64(r.dataSize), io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: seek: %w", tad.ErrSystem, err)
		}
		r.br.Reset(r.f)
	}

	a, err := tad.NewArray(r.dims, r.components, r.typ)
	if err != nil {
		return nil, err
	}
	n, err := io.ReadFull(r.br, a.Data())
	switch {
	case err == nil:
		return a, nil
	case n == 0 && errors.Is(err, io.EOF):
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("%w: read raw data: %w", tad.ErrSystem, err)
	}
}

func (r *Raw) HasMore() (bool, error) {
	if r.br == nil {
		return false, ErrNotOpen
	}
	_, err := r.br.Peek(1)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, fmt.Errorf("%w: peek: %w", tad.ErrSystem, err)
	}
}

func (r *Raw) WriteArray(a *tad.Array) error {
	if r.bw == nil {
		return ErrNotOpen
	}
	if _, err := r.bw.Write(a.Data()); err != nil {
		return fmt.Errorf("%w: write raw data: %w", tad.ErrSystem, err)
	}
	if err := r.bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", tad.ErrSystem, err)
	}
	return nil
}
