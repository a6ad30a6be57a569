// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/tomtom215/liftlog/internal/config"
)

func newTestCompressor() *Compressor {
	return New(config.ImagingConfig{MaxWidth: 500, MaxHeight: 500, Quality: 50})
}

// pngBase64 renders a w×h gradient PNG and returns it base64 encoded.
func pngBase64(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCompressNil(t *testing.T) {
	t.Parallel()

	out, outcome := newTestCompressor().Compress(nil)
	if out != nil {
		t.Errorf("expected nil output, got %q", *out)
	}
	if outcome != OutcomeSkipped {
		t.Errorf("expected OutcomeSkipped, got %s", outcome)
	}
}

func TestCompressLandscape(t *testing.T) {
	t.Parallel()

	src := pngBase64(t, 2000, 1000)
	out, outcome := newTestCompressor().Compress(&src)
	if outcome != OutcomeCompressed {
		t.Fatalf("expected OutcomeCompressed, got %s", outcome)
	}

	w, h, err := Dimensions(*out)
	if err != nil {
		t.Fatalf("Dimensions error: %v", err)
	}
	if w > 500 || h > 250 {
		t.Errorf("expected at most 500x250, got %dx%d", w, h)
	}
	if w != 500 || h != 250 {
		t.Errorf("expected aspect preserved at 500x250, got %dx%d", w, h)
	}

	raw, _ := base64.StdEncoding.DecodeString(*out)
	if _, format, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil || format != "jpeg" {
		t.Errorf("expected jpeg output, got %q (%v)", format, err)
	}
}

func TestCompressKeepsDataURLForm(t *testing.T) {
	t.Parallel()

	src := "data:image/png;base64," + pngBase64(t, 300, 900)
	out, outcome := newTestCompressor().Compress(&src)
	if outcome != OutcomeCompressed {
		t.Fatalf("expected OutcomeCompressed, got %s", outcome)
	}
	if !strings.HasPrefix(*out, "data:image/jpeg;base64,") {
		t.Errorf("expected jpeg data URL, got prefix %q", (*out)[:30])
	}

	w, h, err := Dimensions(*out)
	if err != nil {
		t.Fatalf("Dimensions error: %v", err)
	}
	if w != 167 || h != 500 {
		t.Errorf("expected 167x500, got %dx%d", w, h)
	}
}

func TestCompressSmallImageNotUpscaled(t *testing.T) {
	t.Parallel()

	src := pngBase64(t, 40, 20)
	out, outcome := newTestCompressor().Compress(&src)
	if outcome != OutcomeCompressed {
		t.Fatalf("expected OutcomeCompressed, got %s", outcome)
	}
	w, h, err := Dimensions(*out)
	if err != nil || w != 40 || h != 20 {
		t.Errorf("expected 40x20, got %dx%d (%v)", w, h, err)
	}
}

func TestCompressFallback(t *testing.T) {
	t.Parallel()

	tests := []string{
		"not base64 at all!!",
		base64.StdEncoding.EncodeToString([]byte("plain text, not an image")),
		"data:image/png;base64,",
	}
	c := newTestCompressor()
	for _, src := range tests {
		s := src
		out, outcome := c.Compress(&s)
		if outcome != OutcomeFallback {
			t.Errorf("%q: expected OutcomeFallback, got %s", src, outcome)
		}
		if out != &s {
			t.Errorf("%q: expected original pointer back", src)
		}
	}
}

func TestCompressString(t *testing.T) {
	t.Parallel()

	src := pngBase64(t, 1200, 1200)
	out, outcome := newTestCompressor().CompressString(src)
	if outcome != OutcomeCompressed {
		t.Fatalf("expected OutcomeCompressed, got %s", outcome)
	}
	if w, h, _ := Dimensions(out); w != 500 || h != 500 {
		t.Errorf("expected 500x500, got %dx%d", w, h)
	}
}

func TestFitWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{2000, 1000, 500, 500, 500, 250},
		{1000, 2000, 500, 500, 250, 500},
		{500, 500, 500, 500, 500, 500},
		{800, 800, 500, 500, 500, 500},
		{100, 50, 500, 500, 100, 50},
		{3000, 1, 500, 500, 500, 1},
		{1000, 900, 500, 300, 333, 300},
		{0, 10, 500, 500, 1, 1},
	}
	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitWithin(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	if OutcomeFallback.String() != "fallback" || Outcome(9).String() != "outcome(9)" {
		t.Error("unexpected Outcome strings")
	}
}
