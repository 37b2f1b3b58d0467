package tadio

import (
	"fmt"
	"os"

	"github.com/samcharles93/tad/pkg/tad"
)

// Native is the backend for the native TAD stream format.
type Native struct {
	r *tad.Reader
	w *tad.Writer
}

// NewNative returns an unopened native backend.
func NewNative() Format { return &Native{} }

func (n *Native) OpenForReading(name string, _ tad.TagList) error {
	if n.r != nil || n.w != nil {
		return ErrAlreadyOpen
	}
	if name == StdioName {
		n.r = tad.NewReader(os.Stdin)
		return nil
	}
	r, err := tad.Open(name)
	if err != nil {
		return err
	}
	n.r = r
	return nil
}

func (n *Native) OpenForWriting(name string, appendMode bool, _ tad.TagList) error {
	if n.r != nil || n.w != nil {
		return ErrAlreadyOpen
	}
	if name == StdioName {
		if appendMode {
			return fmt.Errorf("%w: standard output", tad.ErrAppendingNotSupported)
		}
		n.w = tad.NewWriter(os.Stdout)
		return nil
	}
	w, err := tad.OpenWriter(name, appendMode)
	if err != nil {
		return err
	}
	n.w = w
	return nil
}

func (n *Native) Close() error {
	var err error
	if n.r != nil {
		err = n.r.Close()
	}
	if n.w != nil {
		if werr := n.w.Close(); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func (n *Native) ArrayCount() tad.Count {
	if n.r == nil {
		return tad.Count{State: tad.CountUnsupported}
	}
	return n.r.ArrayCount()
}

func (n *Native) CountErr() error {
	if n.r == nil {
		return nil
	}
	return n.r.CountErr()
}

func (n *Native) ReadArray(index int) (*tad.Array, error) {
	if n.r == nil {
		return nil, ErrNotOpen
	}
	return n.r.ReadArray(index)
}

func (n *Native) HasMore() (bool, error) {
	if n.r == nil {
		return false, ErrNotOpen
	}
	return n.r.HasMore()
}

func (n *Native) WriteArray(a *tad.Array) error {
	if n.w == nil {
		return ErrNotOpen
	}
	return n.w.WriteArray(a)
}
