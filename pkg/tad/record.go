package tad

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Record layout. Multi-byte integers are uint64 in host byte order, so files
// are only portable between hosts of the same endianness.
//
//	0   3    magic "TAD"
//	3   1    reserved, 0
//	4   1    component type code
//	5   8    component count
//	13  8    dimension count
//	21  8*d  dimension sizes
//	         global tag block, component tag blocks, dimension tag blocks
//	         raw data
const (
	Magic = "TAD"

	preambleSize = 5 + 2*8
)

var hostOrder = binary.NativeEndian

// WriteTo writes a as one native-format record. It implements io.WriterTo.
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	head := a.appendRecordHeader(make([]byte, 0, a.recordHeaderSizeHint()))
	n, err := w.Write(head)
	written := int64(n)
	if err != nil {
		return written, sysErr("write header", err)
	}
	if n != len(head) {
		return written, sysErr("write header", io.ErrShortWrite)
	}
	if len(a.data) == 0 {
		return written, nil
	}
	n, err = w.Write(a.data)
	written += int64(n)
	if err != nil {
		return written, sysErr("write data", err)
	}
	if n != len(a.data) {
		return written, sysErr("write data", io.ErrShortWrite)
	}
	return written, nil
}

func (a *Array) recordHeaderSizeHint() int {
	return preambleSize + 8*len(a.dims) + 8*(1+len(a.components)+len(a.dimensions))
}

// appendRecordHeader appends the preamble and all tag blocks of a.
func (a *Array) appendRecordHeader(buf []byte) []byte {
	buf = append(buf, Magic...)
	buf = append(buf, 0, byte(a.componentType))
	buf = hostOrder.AppendUint64(buf, uint64(a.componentCount))
	buf = hostOrder.AppendUint64(buf, uint64(len(a.dims)))
	for _, n := range a.dims {
		buf = hostOrder.AppendUint64(buf, uint64(n))
	}
	buf = appendTagBlock(buf, &a.global)
	for i := range a.components {
		buf = appendTagBlock(buf, &a.components[i])
	}
	for i := range a.dimensions {
		buf = appendTagBlock(buf, &a.dimensions[i])
	}
	return buf
}

// readRecordHeader parses a record up to, but not including, its data. The
// returned array has no data buffer yet. A stream that is exhausted before
// the first byte yields io.EOF; one that ends inside the header yields
// ErrTruncated.
func readRecordHeader(r io.Reader) (*Array, error) {
	var pre [preambleSize]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, shortRead("record preamble", err)
	}
	if string(pre[0:3]) != Magic {
		return nil, fmt.Errorf("%w: % x", ErrInvalidMagic, pre[0:3])
	}
	if pre[3] != 0 {
		return nil, fmt.Errorf("%w: reserved byte is %d", ErrInvalidData, pre[3])
	}
	t := Type(pre[4])
	if !t.Valid() {
		return nil, fmt.Errorf("%w: code %d", ErrInvalidType, pre[4])
	}
	componentCount, err := intFromU64(hostOrder.Uint64(pre[5:13]), "component count")
	if err != nil {
		return nil, err
	}
	dimensionCount, err := intFromU64(hostOrder.Uint64(pre[13:21]), "dimension count")
	if err != nil {
		return nil, err
	}

	// Grow with the input instead of trusting the declared count.
	var dims []int
	var word [8]byte
	for d := 0; d < dimensionCount; d++ {
		if _, err := io.ReadFull(r, word[:]); err != nil {
			return nil, shortRead("dimension size", err)
		}
		n, err := intFromU64(hostOrder.Uint64(word[:]), "dimension size")
		if err != nil {
			return nil, err
		}
		dims = append(dims, n)
	}

	sz, err := computeSizes(dims, componentCount, t)
	if err != nil {
		return nil, err
	}

	a := &Array{
		dims:           dims,
		componentCount: componentCount,
		componentType:  t,
		elementSize:    sz.element,
		elementCount:   sz.elements,
		dataSize:       sz.data,
	}
	if a.global, err = readTagBlock(r); err != nil {
		return nil, fmt.Errorf("global tags: %w", err)
	}
	for c := 0; c < componentCount; c++ {
		tl, err := readTagBlock(r)
		if err != nil {
			return nil, fmt.Errorf("component %d tags: %w", c, err)
		}
		a.components = append(a.components, tl)
	}
	for d := 0; d < dimensionCount; d++ {
		tl, err := readTagBlock(r)
		if err != nil {
			return nil, fmt.Errorf("dimension %d tags: %w", d, err)
		}
		a.dimensions = append(a.dimensions, tl)
	}
	if a.components == nil {
		a.components = []TagList{}
	}
	if a.dimensions == nil {
		a.dimensions = []TagList{}
	}
	return a, nil
}

// intFromU64 converts an on-disk size to int, rejecting values the host
// cannot represent.
func intFromU64(v uint64, what string) (int, error) {
	if v > uint64(maxInt) {
		return 0, fmt.Errorf("%w: %s %d", ErrSizeOverflow, what, v)
	}
	return int(v), nil
}
