package tad

import "strconv"

// CountState is the state of a stream's record count.
type CountState uint8

const (
	// CountUncomputed means nobody has asked for the count yet.
	CountUncomputed CountState = iota
	// CountUnsupported means the count cannot be determined, either because
	// the medium cannot seek or because the scan failed.
	CountUnsupported
	// CountKnown means N holds the number of records.
	CountKnown
)

// Count is the number of records in a stream, if known.
type Count struct {
	State CountState
	N     int
}

// KnownCount returns a known count of n records.
func KnownCount(n int) Count {
	return Count{State: CountKnown, N: n}
}

// Known reports whether c holds an actual count.
func (c Count) Known() bool { return c.State == CountKnown }

func (c Count) String() string {
	switch c.State {
	case CountKnown:
		return strconv.Itoa(c.N)
	case CountUnsupported:
		return "unknown"
	default:
		return "uncomputed"
	}
}
