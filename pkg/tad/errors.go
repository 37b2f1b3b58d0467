package tad

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every error returned by this package and by format backends
// wraps exactly one of these.
var (
	ErrSystem              = errors.New("system error")
	ErrInvalidData         = errors.New("invalid data")
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrSeekingNotSupported = errors.New("seeking not supported")
)

var (
	ErrInvalidMagic          = fmt.Errorf("%w: bad TAD magic", ErrInvalidData)
	ErrInvalidType           = fmt.Errorf("%w: invalid component type", ErrInvalidData)
	ErrSizeOverflow          = fmt.Errorf("%w: size overflow", ErrInvalidData)
	ErrInvalidTag            = fmt.Errorf("%w: invalid tag", ErrInvalidData)
	ErrTruncated             = fmt.Errorf("%w: truncated record", ErrInvalidData)
	ErrIndexOutOfRange       = fmt.Errorf("%w: array index out of range", ErrInvalidData)
	ErrShapeMismatch         = fmt.Errorf("%w: shape mismatch", ErrInvalidData)
	ErrAppendingNotSupported = fmt.Errorf("%w: appending", ErrUnsupportedFeature)
	ErrFormatUnsupported     = fmt.Errorf("%w: file format", ErrUnsupportedFeature)
	ErrMissingHints          = fmt.Errorf("%w: required hints are missing", ErrUnsupportedFeature)
	ErrClosed                = fmt.Errorf("%w: stream closed", ErrSystem)
)

// ErrorKind classifies an error into the TAD error taxonomy.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindSystem
	KindInvalidData
	KindUnsupportedFeature
	KindSeekingNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "success"
	case KindSystem:
		return "system error"
	case KindInvalidData:
		return "invalid data"
	case KindUnsupportedFeature:
		return "unsupported feature"
	case KindSeekingNotSupported:
		return "seeking not supported"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// KindOf reports which kind err belongs to. Errors that do not wrap one of
// the package sentinels are treated as system errors.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSeekingNotSupported):
		return KindSeekingNotSupported
	case errors.Is(err, ErrInvalidData):
		return KindInvalidData
	case errors.Is(err, ErrUnsupportedFeature):
		return KindUnsupportedFeature
	default:
		return KindSystem
	}
}

// sysErr wraps an I/O failure so that both ErrSystem and the cause match.
func sysErr(op string, err error) error {
	if errors.Is(err, ErrSystem) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrSystem, op, err)
}

// shortRead converts an EOF in the middle of a structure into ErrTruncated,
// leaving other failures as system errors.
func shortRead(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncated, op)
	}
	return sysErr(op, err)
}
