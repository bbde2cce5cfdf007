package batch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxFileBytes is the upper bound for a single uploaded file.
	MaxFileBytes = 10 << 20

	// MaxDimension and MinDimension bound accepted image sizes, inclusive.
	MaxDimension = 4000
	MinDimension = 50
)

var supportedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// SupportedExtensions lists the accepted filename suffixes in display order.
func SupportedExtensions() []string {
	return []string{"png", "jpg", "jpeg", "webp"}
}

// Validate checks a candidate upload and returns a ValidatedImage, or a
// *RejectionError describing the first failed check. Checks run in a fixed
// order and short-circuit; the raw bytes are never re-encoded here.
func Validate(filename string, data []byte) (*ValidatedImage, error) {
	if len(data) > MaxFileBytes {
		return nil, &RejectionError{
			Kind:    RejectFileTooLarge,
			Message: fmt.Sprintf("file too large: %.1fMB (max %dMB)", float64(len(data))/1024/1024, MaxFileBytes>>20),
		}
	}
	ext := extensionOf(filename)
	if _, ok := supportedExtensions[ext]; !ok {
		return nil, &RejectionError{
			Kind:    RejectUnsupportedFormat,
			Message: fmt.Sprintf("unsupported format: %q (supported: %s)", ext, strings.Join(SupportedExtensions(), ", ")),
		}
	}
	if len(data) == 0 {
		return nil, &RejectionError{Kind: RejectEmptyFile, Message: "empty file"}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &RejectionError{
			Kind:    RejectCorruptImage,
			Message: fmt.Sprintf("invalid image file: %v", err),
		}
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, &RejectionError{
			Kind:    RejectImageTooLarge,
			Message: fmt.Sprintf("image too large: %dx%d (max %dx%d)", cfg.Width, cfg.Height, MaxDimension, MaxDimension),
		}
	}
	if cfg.Width < MinDimension || cfg.Height < MinDimension {
		return nil, &RejectionError{
			Kind:    RejectImageTooSmall,
			Message: fmt.Sprintf("image too small: %dx%d (min %dx%d)", cfg.Width, cfg.Height, MinDimension, MinDimension),
		}
	}
	return &ValidatedImage{
		Filename:       filename,
		Fingerprint:    Fingerprint(data, filename),
		SizeBytes:      len(data),
		Width:          cfg.Width,
		Height:         cfg.Height,
		DeclaredFormat: format,
		ColorMode:      colorModeName(cfg.ColorModel),
		Bytes:          data,
	}, nil
}

func extensionOf(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func colorModeName(model color.Model) string {
	switch model {
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.YCbCrModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	}
	if _, ok := model.(color.Palette); ok {
		return "paletted"
	}
	return "unknown"
}
