package inspect

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/samcharles93/tad/pkg/tad"
)

// Component tags that describe the value range and become stale when the
// values change.
var valueRelatedTags = []string{"MINVAL", "MAXVAL"}

// AbsDiff returns |a-b| per component. The result has the shape, type and
// metadata of a, without value range tags. Complex components yield their
// magnitude.
func AbsDiff(a, b *tad.Array) (*tad.Array, error) {
	if !a.IsCompatible(b) {
		return nil, fmt.Errorf("%w: incompatible arrays (%s x %d, %d elements vs %s x %d, %d elements)",
			tad.ErrShapeMismatch,
			a.ComponentType(), a.ComponentCount(), a.ElementCount(),
			b.ComponentType(), b.ComponentCount(), b.ElementCount())
	}
	out := a.Clone()
	complexType := a.ComponentType().IsComplex()
	for e := 0; e < a.ElementCount(); e++ {
		for c := 0; c < a.ComponentCount(); c++ {
			if complexType {
				out.SetFloat64At(e, c, cmplx.Abs(a.Complex128At(e, c)-b.Complex128At(e, c)))
				continue
			}
			out.SetFloat64At(e, c, math.Abs(a.Float64At(e, c)-b.Float64At(e, c)))
		}
	}
	RemoveValueRelatedTags(out)
	return out, nil
}

// RemoveValueRelatedTags drops the MINVAL and MAXVAL component tags.
func RemoveValueRelatedTags(a *tad.Array) {
	for c := 0; c < a.ComponentCount(); c++ {
		for _, key := range valueRelatedTags {
			a.ComponentTags(c).Unset(key)
		}
	}
}
