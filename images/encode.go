package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"

	xdraw "golang.org/x/image/draw"
)

// RasterEncoder writes a raster in one output format.
type RasterEncoder interface {
	Encode(w io.Writer, img image.Image) error
}

// JPEGEncoder writes baseline JPEG at the given quality.
type JPEGEncoder struct {
	Quality int
}

func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: e.Quality})
}

// PNGEncoder writes PNG with the given compression level.
type PNGEncoder struct {
	Level png.CompressionLevel
}

func (e PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Level}
	return enc.Encode(w, img)
}

// EncoderFor returns the highest quality encoder for target.
func EncoderFor(target TargetFormat) (RasterEncoder, error) {
	switch target {
	case TargetJPEG:
		return JPEGEncoder{Quality: 100}, nil
	case TargetPNG:
		return PNGEncoder{Level: png.BestCompression}, nil
	}
	return nil, fmt.Errorf("unsupported target format %q", target)
}

// Encode normalises img and writes it in the target format.
func Encode(img image.Image, target TargetFormat) ([]byte, error) {
	enc, err := EncoderFor(target)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, Normalize(img)); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", target, err)
	}
	slog.Debug("Image encoded", "target", target, "size", buf.Len())
	return buf.Bytes(), nil
}

// Normalize copies img onto a zero-origin Gray or RGBA raster so encoders
// see one of two pixel layouts. Single-channel sources stay single-channel.
func Normalize(img image.Image) image.Image {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		if b.Min == (image.Point{}) {
			return src
		}
	case *image.RGBA:
		if b.Min == (image.Point{}) {
			return src
		}
	}

	rect := image.Rect(0, 0, b.Dx(), b.Dy())
	if isGray(img.ColorModel()) {
		dst := image.NewGray(rect)
		xdraw.Draw(dst, rect, img, b.Min, xdraw.Src)
		return dst
	}
	dst := image.NewRGBA(rect)
	xdraw.Draw(dst, rect, img, b.Min, xdraw.Src)
	return dst
}

func isGray(m color.Model) bool {
	return m == color.GrayModel || m == color.Gray16Model
}
