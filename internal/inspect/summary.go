// Package inspect describes TAD arrays for people and programs: shape and
// metadata summaries, per-component statistics, data digests and
// element-wise comparison.
package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/tad/pkg/tad"
)

// Tag is one metadata entry in a Summary.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Summary describes one array without its data.
type Summary struct {
	Index          int              `json:"index"`
	Dimensions     []int            `json:"dimensions"`
	ComponentCount int              `json:"component_count"`
	ComponentType  string           `json:"component_type"`
	ElementCount   int              `json:"element_count"`
	DataSize       int              `json:"data_size"`
	GlobalTags     []Tag            `json:"global_tags"`
	ComponentTags  [][]Tag          `json:"component_tags"`
	DimensionTags  [][]Tag          `json:"dimension_tags"`
	Statistics     []ComponentStats `json:"statistics,omitempty"`
	Checksum       string           `json:"checksum,omitempty"`
}

// Options selects the optional, data dependent parts of a Summary.
type Options struct {
	Statistics bool
	Checksum   bool
}

// Summarize describes array number index.
func Summarize(index int, a *tad.Array, opts Options) Summary {
	s := Summary{
		Index:          index,
		Dimensions:     a.Dimensions(),
		ComponentCount: a.ComponentCount(),
		ComponentType:  a.ComponentType().String(),
		ElementCount:   a.ElementCount(),
		DataSize:       a.DataSize(),
		GlobalTags:     tags(a.GlobalTags()),
		ComponentTags:  make([][]Tag, a.ComponentCount()),
		DimensionTags:  make([][]Tag, a.DimensionCount()),
	}
	for c := range s.ComponentTags {
		s.ComponentTags[c] = tags(a.ComponentTags(c))
	}
	for d := range s.DimensionTags {
		s.DimensionTags[d] = tags(a.DimensionTags(d))
	}
	if opts.Statistics {
		s.Statistics = Statistics(a)
	}
	if opts.Checksum {
		s.Checksum = Checksum(a)
	}
	return s
}

func tags(tl *tad.TagList) []Tag {
	out := make([]Tag, 0, tl.Len())
	for _, t := range tl.Tags() {
		out = append(out, Tag{Key: t.Key, Value: t.Value})
	}
	return out
}

// ShapeString formats dimensions as "800x600", or "0" without dimensions.
func ShapeString(dims []int) string {
	if len(dims) == 0 {
		return "0"
	}
	parts := make([]string, len(dims))
	for i, n := range dims {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "x")
}

// HumanSize formats a byte count with binary units.
func HumanSize(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit*unit:
		return fmt.Sprintf("%.2f TiB", float64(n)/(unit*unit*unit*unit))
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.2f GiB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.2f MiB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.2f KiB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
