// Package images holds the raster codec capabilities the transcoder
// depends on: decoders for the compressed payloads found in ISO records
// and encoders for the requested output format.
package images

import (
	"bytes"
	"fmt"
	"image"
	"strings"
)

// RasterDecoder decodes a compressed payload into a raster.
type RasterDecoder interface {
	Decode(data []byte) (image.Image, error)
}

// WSQDecoder decodes a WSQ payload into single-channel intensity data.
// No implementation ships with this module; callers plug one in.
type WSQDecoder interface {
	Decode(data []byte) (*Intensity, error)
}

// TargetFormat names an output raster format.
type TargetFormat string

const (
	TargetJPEG TargetFormat = "IMAGE_JPEG"
	TargetPNG  TargetFormat = "IMAGE_PNG"
)

// TargetFormats lists every supported output format.
var TargetFormats = []TargetFormat{TargetJPEG, TargetPNG}

// ParseTargetFormat resolves a case-insensitive target format code.
func ParseTargetFormat(s string) (TargetFormat, bool) {
	for _, f := range TargetFormats {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, true
		}
	}
	return "", false
}

// Extension returns the usual file extension of f.
func (f TargetFormat) Extension() string {
	switch f {
	case TargetJPEG:
		return "jpg"
	case TargetPNG:
		return "png"
	}
	return "bin"
}

// MIMEType returns the media type of f.
func (f TargetFormat) MIMEType() string {
	switch f {
	case TargetJPEG:
		return "image/jpeg"
	case TargetPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Magic signatures of the compressed payloads met in ISO records.
var sigs = []struct {
	sig  []byte
	kind string
}{
	{[]byte{0x00, 0x00, 0x00, 0x0C, 'j', 'P', ' ', ' ', 0x0D, 0x0A, 0x87, 0x0A}, "jp2"}, // JP2 signature box
	{[]byte{0xFF, 0x4F, 0xFF, 0x51}, "j2k"},                                             // JPEG 2000 codestream SOC+SIZ
	{[]byte{0xFF, 0xA0}, "wsq"},                                                         // WSQ SOI
	{[]byte{0xFF, 0xD8, 0xFF}, "jpg"},                                                   // JPEG SOI
	{[]byte{0x89, 'P', 'N', 'G'}, "png"},
}

// Sniff names the payload kind from its leading bytes, or "unknown".
func Sniff(data []byte) string {
	for _, s := range sigs {
		if bytes.HasPrefix(data, s.sig) {
			return s.kind
		}
	}
	return "unknown"
}

// DecodeError wraps a codec failure with the payload kind it was fed.
type DecodeError struct {
	Codec string
	Kind  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decoder failed on %s payload: %v", e.Codec, e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
