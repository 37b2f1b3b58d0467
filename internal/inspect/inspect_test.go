package inspect

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/samcharles93/tad/pkg/tad"
)

func TestStatistics(t *testing.T) {
	t.Parallel()

	a, err := tad.FromSlice([]int{4}, 2, []float32{
		1, float32(math.NaN()),
		2, float32(math.Inf(1)),
		3, 5,
		6, float32(math.NaN()),
	})
	if err != nil {
		t.Fatalf("from slice: %v", err)
	}
	st := Statistics(a)
	if len(st) != 2 {
		t.Fatalf("got %d components", len(st))
	}
	c0 := st[0]
	if c0.Finite != 4 || c0.Min != 1 || c0.Max != 6 || c0.Mean != 3 {
		t.Fatalf("component 0: %+v", c0)
	}
	// sample variance of 1,2,3,6
	if math.Abs(c0.Variance-14.0/3) > 1e-12 || math.Abs(c0.Deviation-math.Sqrt(14.0/3)) > 1e-12 {
		t.Fatalf("component 0 variance: %+v", c0)
	}
	c1 := st[1]
	if c1.Finite != 1 || c1.Min != 5 || c1.Variance != 0 || c1.Deviation != 0 {
		t.Fatalf("component 1: %+v", c1)
	}

	empty, err := tad.NewArray([]int{0}, 1, tad.TypeUint8)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	if st := Statistics(empty); st[0].Finite != 0 || !math.IsNaN(st[0].Mean) {
		t.Fatalf("empty statistics: %+v", st[0])
	}
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal stats: %v", err)
	}
	if !strings.Contains(string(b), `"mean":null`) {
		t.Fatalf("NaN not encoded as null: %s", b)
	}
}

func TestAbsDiff(t *testing.T) {
	t.Parallel()

	a, err := tad.FromSlice([]int{2, 2}, 1, []uint8{10, 0, 255, 7})
	if err != nil {
		t.Fatalf("from slice: %v", err)
	}
	if err := a.ComponentTags(0).Set("MINVAL", "0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.ComponentTags(0).Set("INTERPRETATION", "GRAY"); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := tad.FromSlice([]int{4}, 1, []uint8{3, 9, 0, 7})
	if err != nil {
		t.Fatalf("from slice: %v", err)
	}

	d, err := AbsDiff(a, b)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !bytes.Equal(d.Data(), []byte{7, 9, 255, 0}) {
		t.Fatalf("diff data: %v", d.Data())
	}
	if d.ComponentTags(0).Contains("MINVAL") {
		t.Fatalf("MINVAL kept")
	}
	if v, _ := d.ComponentTags(0).Get("INTERPRETATION"); v != "GRAY" {
		t.Fatalf("other tags dropped")
	}
	if d.DimensionCount() != 2 {
		t.Fatalf("result should have the shape of the first input")
	}

	c, err := tad.NewArray([]int{4}, 2, tad.TypeUint8)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	if _, err := AbsDiff(a, c); !errors.Is(err, tad.ErrShapeMismatch) {
		t.Fatalf("expected incompatible arrays, got %v", err)
	}
}

func TestSummaryText(t *testing.T) {
	t.Parallel()

	a, err := tad.NewArray([]int{800, 600}, 3, tad.TypeUint8)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	if err := a.GlobalTags().Set("DATE", "2024-01-01"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.ComponentTags(2).Set("INTERPRETATION", "BLUE"); err != nil {
		t.Fatalf("set: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, Summarize(3, a, Options{Checksum: true})); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"array 3: 3 x uint8, size 800x600 (1.37 MiB)\n",
		"  global:\n    DATE=2024-01-01\n",
		"  component 2:\n    INTERPRETATION=BLUE\n",
		"  blake3: ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "component 0:") {
		t.Fatalf("empty tag lists should not be printed:\n%s", out)
	}
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	a, err := tad.NewArray(nil, 0, tad.TypeFloat64)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []Summary{Summarize(0, a, Options{Statistics: true})}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var got []Summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ComponentType != "float64" || got[0].DataSize != 0 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestChecksumIgnoresTags(t *testing.T) {
	t.Parallel()

	a, err := tad.FromSlice([]int{3}, 1, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("from slice: %v", err)
	}
	b := a.Clone()
	if err := b.GlobalTags().Set("NOTE", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if Checksum(a) != Checksum(b) {
		t.Fatalf("tags changed the checksum")
	}
	b.SetFloat64At(0, 0, 4)
	if Checksum(a) == Checksum(b) {
		t.Fatalf("data change kept the checksum")
	}
	if len(Checksum(a)) != 64 {
		t.Fatalf("checksum length %d", len(Checksum(a)))
	}
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:       "0 bytes",
		1023:    "1023 bytes",
		1024:    "1.00 KiB",
		1536:    "1.50 KiB",
		3 << 20: "3.00 MiB",
		5 << 30: "5.00 GiB",
		1 << 40: "1.00 TiB",
	}
	for n, want := range tests {
		if got := HumanSize(n); got != want {
			t.Fatalf("HumanSize(%d) = %q, want %q", n, got, want)
		}
	}
}
