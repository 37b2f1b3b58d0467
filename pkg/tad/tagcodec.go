package tad

import (
	"bytes"
	"fmt"
	"io"
)

// appendTagBlock appends the encoding of tl: an 8-byte payload length
// followed by NUL-terminated key and value strings in insertion order.
func appendTagBlock(buf []byte, tl *TagList) []byte {
	start := len(buf)
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 0)
	for _, t := range tl.tags {
		buf = append(buf, t.Key...)
		buf = append(buf, 0)
		buf = append(buf, t.Value...)
		buf = append(buf, 0)
	}
	hostOrder.PutUint64(buf[start:], uint64(len(buf)-start-8))
	return buf
}

// readTagBlock reads one tag block from r. The payload is accumulated as it
// arrives so a corrupt length cannot force a large allocation up front.
func readTagBlock(r io.Reader) (TagList, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return TagList{}, shortRead("tag list length", err)
	}
	n := hostOrder.Uint64(lenBuf[:])
	if n > uint64(maxInt) {
		return TagList{}, fmt.Errorf("%w: tag list length %d", ErrSizeOverflow, n)
	}
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, r, int64(n)); err != nil {
		return TagList{}, shortRead("tag list payload", err)
	}
	return decodeTagPayload(payload.Bytes())
}

// decodeTagPayload parses a tag block payload without its length prefix.
func decodeTagPayload(data []byte) (TagList, error) {
	var tl TagList
	for i := 0; i < len(data); {
		key, next, err := cutTagString(data, i)
		if err != nil {
			return TagList{}, err
		}
		if key == "" {
			return TagList{}, fmt.Errorf("%w: empty key at byte %d", ErrInvalidTag, i)
		}
		if next >= len(data) {
			return TagList{}, fmt.Errorf("%w: key %q has no value", ErrInvalidTag, key)
		}
		value, after, err := cutTagString(data, next)
		if err != nil {
			return TagList{}, err
		}
		tl.set(key, value)
		i = after
	}
	return tl, nil
}

// cutTagString returns the NUL-terminated string starting at data[i] and
// the index just past its terminator.
func cutTagString(data []byte, i int) (string, int, error) {
	for j := i; j < len(data); j++ {
		c := data[j]
		if c == 0 {
			return string(data[i:j]), j + 1, nil
		}
		if c < 32 || c == 127 {
			return "", 0, fmt.Errorf("%w: control character 0x%02x at byte %d", ErrInvalidTag, c, j)
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated string at byte %d", ErrInvalidTag, i)
}
