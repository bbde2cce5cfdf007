package batch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// Normalize re-encodes a validated image into the canonical form sent to the
// remote edit service: a lossless, compression-optimized PNG in an RGB or
// grayscale color model. Images carrying an alpha channel are composited onto
// an opaque white background; transparency has no contract on the remote side.
func Normalize(img *ValidatedImage) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", img.Filename, err)
	}
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, flattenAlpha(src)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", img.Filename, err)
	}
	return buf.Bytes(), nil
}

// flattenAlpha returns src unchanged when it is already grayscale or fully
// opaque, otherwise blends it over white using its alpha channel as the mask.
func flattenAlpha(src image.Image) image.Image {
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return src
	}
	if opq, ok := src.(interface{ Opaque() bool }); ok && opq.Opaque() {
		return src
	}
	bounds := src.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, src, image.Point{}, 1.0)
}
