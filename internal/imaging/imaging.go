// Package imaging normalises item photos: it accepts JPEG or PNG, bounds the
// size, and stores everything as a JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the longer side of a stored photo.
	MaxDimension = 800
	// MaxUploadBytes bounds the raw upload size.
	MaxUploadBytes = 8 << 20
	// JPEGQuality is the quality photos are re-encoded at.
	JPEGQuality = 82
	// OutputMIME is the MIME type of every stored photo.
	OutputMIME = "image/jpeg"
)

// ErrUnsupported is returned for uploads that are not a JPEG or PNG.
var ErrUnsupported = errors.New("unsupported image format")

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalised item photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process validates an upload by its content, not its declared type,
// shrinks it to fit MaxDimension and re-encodes it as a JPEG. Transparent
// areas are flattened onto white.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), MaxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{Data: buf.Bytes(), MIME: OutputMIME, Width: w, Height: h}, nil
}

// Fit scales w×h down, keeping the aspect ratio, so that neither side
// exceeds limit. Images already within bounds are returned unchanged.
func Fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}

	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	return clampMin(w), clampMin(h)
}

func clampMin(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
