package inspect

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// WriteText prints s in the line oriented format of `tad info`.
func WriteText(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("array %d: %d x %s, size %s (%s)\n", s.Index, s.ComponentCount, s.ComponentType,
		ShapeString(s.Dimensions), HumanSize(int64(s.DataSize)))
	if len(s.GlobalTags) > 0 {
		ew.printf("  global:\n")
		ew.tags(s.GlobalTags)
	}
	for d, tl := range s.DimensionTags {
		if len(tl) > 0 {
			ew.printf("  dimension %d:\n", d)
			ew.tags(tl)
		}
	}
	for c, tl := range s.ComponentTags {
		if len(tl) > 0 {
			ew.printf("  component %d:\n", c)
			ew.tags(tl)
		}
	}
	for c, st := range s.Statistics {
		ew.printf("  component %d: min=%g max=%g mean=%g var=%g dev=%g\n",
			c, st.Min, st.Max, st.Mean, st.Variance, st.Deviation)
	}
	if s.Checksum != "" {
		ew.printf("  blake3: %s\n", s.Checksum)
	}
	return ew.err
}

// WriteJSON writes summaries as one indented JSON document.
func WriteJSON(w io.Writer, summaries []Summary) error {
	if summaries == nil {
		summaries = []Summary{}
	}
	b, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) tags(tl []Tag) {
	for _, t := range tl {
		ew.printf("    %s=%s\n", t.Key, t.Value)
	}
}
