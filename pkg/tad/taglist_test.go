package tad

import (
	"errors"
	"reflect"
	"testing"
)

func TestTagListOrderAndOverwrite(t *testing.T) {
	t.Parallel()

	tl, err := NewTagList("B", "1", "A", "2", "C", "3")
	if err != nil {
		t.Fatalf("new tag list: %v", err)
	}
	if err := tl.Set("A", "20"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, want := tl.Keys(), []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys: got %v want %v", got, want)
	}
	if v, ok := tl.Get("A"); !ok || v != "20" {
		t.Fatalf("Get(A) = %q, %v", v, ok)
	}

	tl.Unset("B")
	if got, want := tl.Keys(), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys after unset: got %v want %v", got, want)
	}
	if v, _ := tl.Get("C"); v != "3" {
		t.Fatalf("index not rebuilt after unset: C = %q", v)
	}
	if tl.Value("missing", "def") != "def" {
		t.Fatalf("Value default not used")
	}

	tl.Clear()
	if tl.Len() != 0 || tl.Contains("A") {
		t.Fatalf("clear left tags behind")
	}
}

func TestTagListRejects(t *testing.T) {
	t.Parallel()

	var tl TagList
	if err := tl.Set("", "v"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("empty key accepted: %v", err)
	}
	if err := tl.Set("K", "line\nbreak"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("newline accepted: %v", err)
	}
	if _, err := NewTagList("odd"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("odd pair list accepted: %v", err)
	}
	if err := tl.Set("K", ""); err != nil {
		t.Fatalf("empty value rejected: %v", err)
	}
}

func TestTagListTypedGetters(t *testing.T) {
	t.Parallel()

	tl, err := NewTagList("I", "-12", "H", "0x10", "F", "2.5", "B", "true", "S", "text")
	if err != nil {
		t.Fatalf("new tag list: %v", err)
	}
	if v, ok := tl.Int64("I"); !ok || v != -12 {
		t.Fatalf("Int64 = %d, %v", v, ok)
	}
	if v, ok := tl.Uint64("H"); !ok || v != 16 {
		t.Fatalf("Uint64 = %d, %v", v, ok)
	}
	if v, ok := tl.Float64("F"); !ok || v != 2.5 {
		t.Fatalf("Float64 = %v, %v", v, ok)
	}
	if v, ok := tl.Bool("B"); !ok || !v {
		t.Fatalf("Bool = %v, %v", v, ok)
	}
	if _, ok := tl.Int64("S"); ok {
		t.Fatalf("Int64 parsed text")
	}
	if _, ok := tl.Float64("missing"); ok {
		t.Fatalf("Float64 of missing key")
	}
}

func TestTagListEqualAndClone(t *testing.T) {
	t.Parallel()

	a, _ := NewTagList("X", "1", "Y", "2")
	b, _ := NewTagList("Y", "2", "X", "1")
	if a.Equal(&b) {
		t.Fatalf("lists with different order compare equal")
	}
	c := a.Clone()
	if !a.Equal(&c) {
		t.Fatalf("clone differs")
	}
	if err := c.Set("X", "changed"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := a.Get("X"); v != "1" {
		t.Fatalf("clone shares storage")
	}

	var zero TagList
	if zero.Len() != 0 || zero.Contains("X") {
		t.Fatalf("zero value not empty")
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrTruncated, KindInvalidData},
		{ErrAppendingNotSupported, KindUnsupportedFeature},
		{ErrSeekingNotSupported, KindSeekingNotSupported},
		{ErrClosed, KindSystem},
		{errors.New("other"), KindSystem},
		{sysErr("read", errors.New("io")), KindSystem},
	}
	for _, tc := range tests {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
