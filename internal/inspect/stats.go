package inspect

import (
	"math"

	json "github.com/goccy/go-json"
	"github.com/samcharles93/tad/pkg/tad"
)

// ComponentStats holds sample statistics over the finite values of one
// component. Fields are NaN when there are no finite values.
type ComponentStats struct {
	Finite    int     `json:"finite"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	Variance  float64 `json:"variance"`
	Deviation float64 `json:"deviation"`
}

// Statistics computes per-component statistics. Complex values contribute
// their real part.
func Statistics(a *tad.Array) []ComponentStats {
	out := make([]ComponentStats, a.ComponentCount())
	for c := range out {
		out[c] = componentStats(a, c)
	}
	return out
}

func componentStats(a *tad.Array, c int) ComponentStats {
	nan := math.NaN()
	st := ComponentStats{Min: nan, Max: nan, Mean: nan, Variance: nan, Deviation: nan}
	lo, hi := math.Inf(1), math.Inf(-1)
	var sum, sumSq float64
	// only floating point components can hold NaN or infinities
	t := a.ComponentType()
	checkFinite := t.IsFloat() || t.IsComplex()
	for e := 0; e < a.ElementCount(); e++ {
		v := a.Float64At(e, c)
		if checkFinite && (math.IsNaN(v) || math.IsInf(v, 0)) {
			continue
		}
		st.Finite++
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
		sumSq += v * v
	}
	if st.Finite == 0 {
		return st
	}
	n := float64(st.Finite)
	st.Min, st.Max = lo, hi
	st.Mean = sum / n
	st.Variance, st.Deviation = 0, 0
	if st.Finite > 1 {
		st.Variance = max((sumSq-sum/n*sum)/(n-1), 0)
		st.Deviation = math.Sqrt(st.Variance)
	}
	return st
}

// MarshalJSON encodes NaN fields as null.
func (s ComponentStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Finite    int      `json:"finite"`
		Min       *float64 `json:"min"`
		Max       *float64 `json:"max"`
		Mean      *float64 `json:"mean"`
		Variance  *float64 `json:"variance"`
		Deviation *float64 `json:"deviation"`
	}{
		Finite:    s.Finite,
		Min:       finite(s.Min),
		Max:       finite(s.Max),
		Mean:      finite(s.Mean),
		Variance:  finite(s.Variance),
		Deviation: finite(s.Deviation),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
