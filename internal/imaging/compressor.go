// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package imaging downsamples base64 images before they are written into a
// backup snapshot.
//
// Images are decoded (JPEG, PNG, GIF or WebP), scaled to fit inside the
// configured box while keeping their aspect ratio, and re-encoded as JPEG at
// reduced quality. Compression fails open: when an image cannot be decoded or
// encoded the original string is returned together with OutcomeFallback, so
// callers can count the miss without aborting the snapshot.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // decoder registration
	"image/jpeg"
	_ "image/png" // decoder registration
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder registration

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/logging"
)

// Outcome reports what Compress did with one image.
type Outcome int

const (
	// OutcomeSkipped means the input was nil.
	OutcomeSkipped Outcome = iota
	// OutcomeCompressed means the image was re-encoded.
	OutcomeCompressed
	// OutcomeFallback means compression failed and the original was kept.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCompressed:
		return "compressed"
	case OutcomeFallback:
		return "fallback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

const dataURLMarker = ";base64,"

var errNotBase64Image = errors.New("not a base64 image")

// Compressor re-encodes images to a bounded size and quality.
type Compressor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// New creates a Compressor from cfg.
func New(cfg config.ImagingConfig) *Compressor {
	return &Compressor{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		quality:   cfg.Quality,
	}
}

// Compress returns a compressed copy of src. A nil src returns nil.
func (c *Compressor) Compress(src *string) (*string, Outcome) {
	if src == nil {
		return nil, OutcomeSkipped
	}

	out, err := c.compress(*src)
	if err != nil {
		logging.Warn().
			Err(err).
			Int("input_bytes", len(*src)).
			Msg("Image compression failed, keeping original")
		return src, OutcomeFallback
	}
	return &out, OutcomeCompressed
}

// CompressString is Compress for non-nullable values such as report photos.
func (c *Compressor) CompressString(src string) (string, Outcome) {
	out, outcome := c.Compress(&src)
	return *out, outcome
}

func (c *Compressor) compress(src string) (string, error) {
	header, payload := splitDataURL(src)

	raw, err := decodeBase64(payload)
	if err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), c.maxWidth, c.maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha channel; flatten onto white.
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	logging.Debug().
		Str("format", format).
		Int("src_width", b.Dx()).
		Int("src_height", b.Dy()).
		Int("width", w).
		Int("height", h).
		Msg("Image compressed")

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	if header != "" {
		return "data:image/jpeg" + dataURLMarker + encoded, nil
	}
	return encoded, nil
}

// FitWithin scales w×h to fit inside maxW×maxH keeping the aspect ratio.
// Landscape images are bounded by width, others by height. Images already
// inside the box keep their size.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}

	if w > h {
		if w > maxW {
			h = scaleDim(h, maxW, w)
			w = maxW
		}
	} else if h > maxH {
		w = scaleDim(w, maxH, h)
		h = maxH
	}

	// A square-ish image bounded on one side can still overflow the other
	// when the box is not square.
	if w > maxW {
		h = scaleDim(h, maxW, w)
		w = maxW
	}
	if h > maxH {
		w = scaleDim(w, maxH, h)
		h = maxH
	}
	return w, h
}

// scaleDim returns round(v * num / den), at least 1.
func scaleDim(v, num, den int) int {
	out := (v*num + den/2) / den
	if out < 1 {
		return 1
	}
	return out
}

// Dimensions returns the pixel size of a base64 image without decoding
// the full image.
func Dimensions(src string) (int, int, error) {
	_, payload := splitDataURL(src)
	raw, err := decodeBase64(payload)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// splitDataURL separates "data:image/png;base64," from the payload.
// Raw base64 input returns an empty header.
func splitDataURL(src string) (header, payload string) {
	if !strings.HasPrefix(src, "data:") {
		return "", src
	}
	i := strings.Index(src, dataURLMarker)
	if i < 0 {
		return "", src
	}
	return src[:i+len(dataURLMarker)], src[i+len(dataURLMarker):]
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errNotBase64Image
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errNotBase64Image, err)
		}
	}
	return raw, nil
}
