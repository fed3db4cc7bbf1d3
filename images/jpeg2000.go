package images

import (
	"errors"
	"image"
	"log/slog"

	"pault.ag/go/cbeff/jpeg2000"
)

// JPEG2000Decoder decodes JP2 files and raw J2K codestreams through
// OpenJPEG.
type JPEG2000Decoder struct{}

func (JPEG2000Decoder) Decode(data []byte) (image.Image, error) {
	kind := Sniff(data)
	if len(data) == 0 {
		return nil, &DecodeError{Codec: "jpeg2000", Kind: kind, Err: errors.New("empty payload")}
	}

	img, err := jpeg2000.Parse(data)
	if err != nil {
		slog.Debug("JPEG2000 decode failed", "kind", kind, "size", len(data), "error", err)
		return nil, &DecodeError{Codec: "jpeg2000", Kind: kind, Err: err}
	}

	bounds := img.Bounds()
	slog.Debug("JPEG2000 image decoded", "kind", kind, "width", bounds.Dx(), "height", bounds.Dy())
	return img, nil
}
