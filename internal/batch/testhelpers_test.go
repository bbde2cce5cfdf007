package batch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func opaquePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 90, B: 30, A: 255})
		}
	}
	return encodePNG(t, img)
}

func mustValidate(t *testing.T, filename string, data []byte) *ValidatedImage {
	t.Helper()
	img, err := Validate(filename, data)
	require.NoError(t, err)
	return img
}
