// Package iso decodes and encodes ISO/IEC 19794 (2011 edition) biometric
// data interchange records for finger images (part 4), face images
// (part 5) and iris images (part 6).
//
// Decoders only read the layout. Range checks live in the validation
// package, so a decoded record may carry any value its fields can hold.
package iso

import (
	"fmt"
	"strings"

	"go-biometric-sdk/biometrics"
)

// FormatCode names an ISO source format the SDK can decode.
type FormatCode string

const (
	FormatFinger FormatCode = "ISO19794_4_2011"
	FormatFace   FormatCode = "ISO19794_5_2011"
	FormatIris   FormatCode = "ISO19794_6_2011"
)

// FormatCodes lists every supported source format.
var FormatCodes = []FormatCode{FormatFinger, FormatFace, FormatIris}

// ParseFormatCode resolves a case-insensitive format code.
func ParseFormatCode(s string) (FormatCode, bool) {
	for _, c := range FormatCodes {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}

// Modality returns the biometric modality encoded by format f.
func (f FormatCode) Modality() biometrics.Modality {
	switch f {
	case FormatFinger:
		return biometrics.Finger
	case FormatFace:
		return biometrics.Face
	case FormatIris:
		return biometrics.Iris
	}
	return ""
}

// Standard returns the human readable standard name, e.g. "ISO19794-4:2011".
func (f FormatCode) Standard() string {
	switch f {
	case FormatFinger:
		return "ISO19794-4:2011"
	case FormatFace:
		return "ISO19794-5:2011"
	case FormatIris:
		return "ISO19794-6:2011"
	}
	return string(f)
}

// FormatFor returns the format code that carries modality m.
func FormatFor(m biometrics.Modality) (FormatCode, bool) {
	for _, c := range FormatCodes {
		if c.Modality() == m {
			return c, true
		}
	}
	return "", false
}

// Record is the common view over decoded records used by the transcoder.
type Record interface {
	Modality() biometrics.Modality
	// ImageTag is the field that selects the image codec: compression type
	// for finger, image data type for face, image format for iris.
	ImageTag() uint8
	ImageData() []byte
}

// RecordDecoder turns raw record bytes into a decoded record.
type RecordDecoder interface {
	Decode(data []byte) (Record, error)
}

// DecoderFunc adapts a function to RecordDecoder.
type DecoderFunc func(data []byte) (Record, error)

func (f DecoderFunc) Decode(data []byte) (Record, error) { return f(data) }

// Decoders is the default lookup table from format code to decoder.
var Decoders = map[FormatCode]RecordDecoder{
	FormatFinger: DecoderFunc(func(b []byte) (Record, error) { return DecodeFinger(b) }),
	FormatFace:   DecoderFunc(func(b []byte) (Record, error) { return DecodeFace(b) }),
	FormatIris:   DecoderFunc(func(b []byte) (Record, error) { return DecodeIris(b) }),
}

// DecoderFor returns the default decoder for format f.
func DecoderFor(f FormatCode) (RecordDecoder, error) {
	d, ok := Decoders[f]
	if !ok {
		return nil, fmt.Errorf("no decoder for format %q", f)
	}
	return d, nil
}
