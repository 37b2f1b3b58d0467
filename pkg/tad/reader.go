package tad

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// maxArrayCount bounds the number of records a scan will index.
const maxArrayCount = math.MaxInt32

// Buffers larger than this are grown while reading when the remaining
// length of the medium is unknown.
const eagerDataLimit = 64 << 20

// Reader reads native-format records from a stream.
//
// Records can be read sequentially on any stream. Indexed access requires a
// seekable medium; the first indexed read or ArrayCount call scans the whole
// stream once to build an offset table. A Reader is not safe for concurrent
// use; open one Reader per goroutine instead.
type Reader struct {
	src    io.Reader
	seeker io.Seeker // nil when the medium cannot seek
	closer io.Closer
	br     *bufio.Reader

	base int64 // offset of the first record
	size int64 // medium size, -1 until needed

	count   Count
	offsets []int64
	scanErr error

	closed bool
}

// Open opens the named file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sysErr("open", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// NewReader returns a Reader on r. Records start at the current position of
// r. Indexed access is available when r is a seekable file or otherwise
// implements io.Seeker. Closing the Reader does not close r.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{
		src:  r,
		br:   bufio.NewReader(r),
		size: -1,
	}
	var s io.Seeker
	switch v := r.(type) {
	case *os.File:
		if SeekableFile(v) {
			s = v
		}
	case io.Seeker:
		s = v
	}
	if s != nil {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			rd.seeker = s
			rd.base = pos
		}
	}
	return rd
}

// Seekable reports whether the stream supports indexed access.
func (r *Reader) Seekable() bool { return r.seeker != nil }

// Close releases the underlying file if the Reader opened it. It is safe
// to call Close more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.offsets = nil
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			return sysErr("close", err)
		}
	}
	return nil
}

// HasMore reports whether at least one more byte is available at the
// current position. It does not consume input.
func (r *Reader) HasMore() (bool, error) {
	if r.closed {
		return false, ErrClosed
	}
	_, err := r.br.Peek(1)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, sysErr("peek", err)
	}
}

// ArrayCount returns the number of records in the stream. The first call
// on a seekable stream scans it; the result is cached for the lifetime of
// the Reader. The read position is left where it was.
func (r *Reader) ArrayCount() Count {
	if r.closed || r.count.State != CountUncomputed {
		return r.count
	}
	if r.seeker == nil {
		r.count = Count{State: CountUnsupported}
		return r.count
	}
	offsets, err := r.scan()
	if err != nil {
		r.count = Count{State: CountUnsupported}
		r.scanErr = err
		return r.count
	}
	r.offsets = offsets
	r.count = KnownCount(len(offsets))
	return r.count
}

// CountErr returns the error that stopped the count scan, or nil if the
// scan succeeded, has not run, or the medium cannot seek.
func (r *Reader) CountErr() error { return r.scanErr }

// scan walks every record header from the start of the stream and returns
// the offset of each record. Data regions are skipped by seeking.
func (r *Reader) scan() (offsets []int64, err error) {
	saved, err := r.offset()
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best effort when the scan already failed.
		if rerr := r.seekTo(saved); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := r.seekTo(r.base); err != nil {
		return nil, err
	}
	size, err := r.mediumSize(true)
	if err != nil {
		return nil, err
	}

	for {
		more, err := r.HasMore()
		if err != nil {
			return nil, err
		}
		if !more {
			return offsets, nil
		}
		if len(offsets) == maxArrayCount {
			return nil, fmt.Errorf("%w: more than %d arrays in stream", ErrUnsupportedFeature, maxArrayCount)
		}
		off, err := r.offset()
		if err != nil {
			return nil, err
		}
		a, err := readRecordHeader(r.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: record %d", ErrTruncated, len(offsets))
			}
			return nil, fmt.Errorf("array %d: %w", len(offsets), err)
		}
		start, err := r.offset()
		if err != nil {
			return nil, err
		}
		if int64(a.dataSize) > size-start {
			return nil, fmt.Errorf("array %d: %w: data needs %d bytes, %d available",
				len(offsets), ErrTruncated, a.dataSize, size-start)
		}
		if err := r.seekTo(start + int64(a.dataSize)); err != nil {
			return nil, err
		}
		offsets = append(offsets, off)
	}
}

// ReadArray reads one record. A negative index reads the next record at the
// current position and returns io.EOF when the stream is exhausted at a
// record boundary. A non-negative index reads that record directly; this
// requires a known array count.
func (r *Reader) ReadArray(index int) (*Array, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if index < 0 {
		return r.readNext()
	}

	count := r.ArrayCount()
	if !count.Known() {
		if r.scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSeekingNotSupported, r.scanErr)
		}
		return nil, fmt.Errorf("%w: medium is not seekable", ErrSeekingNotSupported)
	}
	if index >= count.N {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, count.N)
	}
	if err := r.seekTo(r.offsets[index]); err != nil {
		return nil, err
	}
	a, err := r.readNext()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: array %d vanished", ErrTruncated, index)
	}
	return a, err
}

func (r *Reader) readNext() (*Array, error) {
	a, err := readRecordHeader(r.br)
	if err != nil {
		return nil, err
	}
	if err := r.readData(a); err != nil {
		return nil, err
	}
	return a, nil
}

// readData fills the data buffer of a freshly parsed header.
func (r *Reader) readData(a *Array) error {
	n := a.dataSize
	if n == 0 {
		a.data = []byte{}
		return nil
	}

	remaining := int64(-1)
	if r.seeker != nil {
		rem, err := r.remaining()
		if err == nil && rem < int64(n) {
			// The file may have grown since the size was taken.
			if _, err = r.mediumSize(true); err == nil {
				rem, err = r.remaining()
			}
			if err == nil && rem < int64(n) {
				return sysErr("read data", io.ErrUnexpectedEOF)
			}
		}
		if err == nil {
			remaining = rem
		}
	}

	if remaining >= 0 || n <= eagerDataLimit {
		a.data = make([]byte, n)
		if _, err := io.ReadFull(r.br, a.data); err != nil {
			a.data = nil
			return sysErr("read data", shortReadCause(err))
		}
		return nil
	}

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r.br, int64(n)); err != nil {
		return sysErr("read data", shortReadCause(err))
	}
	a.data = buf.Bytes()
	return nil
}

func shortReadCause(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// offset returns the logical read position, accounting for buffered bytes.
func (r *Reader) offset() (int64, error) {
	pos, err := r.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, sysErr("seek", err)
	}
	return pos - int64(r.br.Buffered()), nil
}

func (r *Reader) seekTo(off int64) error {
	if _, err := r.seeker.Seek(off, io.SeekStart); err != nil {
		return sysErr("seek", err)
	}
	r.br.Reset(r.src)
	return nil
}

// mediumSize returns the size of the medium, measuring it again if refresh
// is set or it was never measured.
func (r *Reader) mediumSize(refresh bool) (int64, error) {
	if r.size >= 0 && !refresh {
		return r.size, nil
	}
	pos, err := r.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, sysErr("seek", err)
	}
	end, err := r.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, sysErr("seek", err)
	}
	if _, err := r.seeker.Seek(pos, io.SeekStart); err != nil {
		return 0, sysErr("seek", err)
	}
	r.size = end
	return end, nil
}

func (r *Reader) remaining() (int64, error) {
	size, err := r.mediumSize(false)
	if err != nil {
		return 0, err
	}
	off, err := r.offset()
	if err != nil {
		return 0, err
	}
	return size - off, nil
}
