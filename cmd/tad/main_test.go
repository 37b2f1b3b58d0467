package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/tad/internal/logger"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/samcharles93/tad/pkg/tadio"
)

func TestHintList(t *testing.T) {
	hints, err := hintList("raw", []string{"dimensions=4x2", " type=uint8"})
	if err != nil {
		t.Fatalf("hintList: %v", err)
	}
	if v, _ := hints.Get(tadio.HintDimensions); v != "4x2" {
		t.Fatalf("DIMENSIONS = %q", v)
	}
	if v, _ := hints.Get(tadio.HintType); v != "uint8" {
		t.Fatalf("TYPE = %q", v)
	}
	if v, _ := hints.Get(tadio.HintFormat); v != "raw" {
		t.Fatalf("FORMAT = %q", v)
	}
	if _, err := hintList("", []string{"novalue"}); err == nil {
		t.Fatalf("expected error for hint without '='")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("log_level: debug\ninput_format: raw\nstatistics: true\nserver_address: 0.0.0.0:9000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAD_CONFIG", path)

	cfg := LoadConfig()
	if cfg.LogLevel != "debug" || cfg.InputFormat != "raw" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Statistics == nil || !*cfg.Statistics {
		t.Fatalf("statistics not loaded")
	}

	t.Setenv("TAD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg := LoadConfig(); cfg != (Config{}) {
		t.Fatalf("missing file should give zero config: %+v", cfg)
	}
}

func writeArrays(t *testing.T, path string, values ...[]uint8) {
	t.Helper()
	w, err := tad.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, v := range values {
		a, err := tad.FromSlice([]int{len(v)}, 1, v)
		if err != nil {
			t.Fatalf("from slice: %v", err)
		}
		if err := w.WriteArray(a); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDiffStreams(t *testing.T) {
	dir := t.TempDir()
	ctx := logger.WithContext(context.Background(), logger.Discard())
	pathA := filepath.Join(dir, "a.tad")
	pathB := filepath.Join(dir, "b.tad")
	pathOut := filepath.Join(dir, "out.tad")
	writeArrays(t, pathA, []uint8{1, 5, 9}, []uint8{0, 0})
	writeArrays(t, pathB, []uint8{4, 5, 2}, []uint8{1, 3})

	a, err := openInput(ctx, pathA)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.close()
	b, err := openInput(ctx, pathB)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.close()
	out, err := openOutput(ctx, pathOut, false)
	if err != nil {
		t.Fatalf("open out: %v", err)
	}
	if err := out.finish(diffStreams(a, b, out)); err != nil {
		t.Fatalf("diff: %v", err)
	}

	r, err := tad.Open(pathOut)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer func() { _ = r.Close() }()
	want := [][]byte{{3, 0, 7}, {1, 3}}
	for i, w := range want {
		got, err := r.ReadArray(i)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !bytes.Equal(got.Data(), w) {
			t.Fatalf("array %d: got %v want %v", i, got.Data(), w)
		}
	}
}

func TestDiffStreamsShortSecondInput(t *testing.T) {
	dir := t.TempDir()
	ctx := logger.WithContext(context.Background(), logger.Discard())
	pathA := filepath.Join(dir, "a.tad")
	pathB := filepath.Join(dir, "b.tad")
	writeArrays(t, pathA, []uint8{1}, []uint8{2})
	writeArrays(t, pathB, []uint8{1})

	a, err := openInput(ctx, pathA)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.close()
	b, err := openInput(ctx, pathB)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.close()
	out, err := openOutput(ctx, filepath.Join(dir, "out.tad"), false)
	if err != nil {
		t.Fatalf("open out: %v", err)
	}
	err = out.finish(diffStreams(a, b, out))
	if !errors.Is(err, tad.ErrTruncated) {
		t.Fatalf("expected truncated second input, got %v", err)
	}
}
