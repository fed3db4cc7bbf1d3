// Package converter transcodes the image carried by an ISO 19794 record
// into JPEG or PNG.
package converter

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/images"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/metrics"
)

// Converter holds the codecs used for transcoding. It is safe for
// concurrent use once built.
type Converter struct {
	decoders map[iso.FormatCode]iso.RecordDecoder
	jpeg2000 images.RasterDecoder
	wsq      images.WSQDecoder
	metrics  *metrics.Metrics
}

// Option configures a Converter.
type Option func(*Converter)

// WithWSQDecoder plugs in the decoder used for WSQ compressed fingers.
func WithWSQDecoder(d images.WSQDecoder) Option {
	return func(c *Converter) { c.wsq = d }
}

// WithJPEG2000Decoder replaces the OpenJPEG backed decoder.
func WithJPEG2000Decoder(d images.RasterDecoder) Option {
	return func(c *Converter) { c.jpeg2000 = d }
}

// WithRecordDecoder replaces the record decoder used for format f.
func WithRecordDecoder(f iso.FormatCode, d iso.RecordDecoder) Option {
	return func(c *Converter) { c.decoders[f] = d }
}

// WithMetrics records conversion outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Converter) { c.metrics = m }
}

// New returns a Converter with the default record decoders and the
// OpenJPEG JPEG2000 decoder. No WSQ decoder is configured by default.
func New(opts ...Option) *Converter {
	c := &Converter{
		decoders: make(map[iso.FormatCode]iso.RecordDecoder, len(iso.Decoders)),
		jpeg2000: images.JPEG2000Decoder{},
	}
	for f, d := range iso.Decoders {
		c.decoders[f] = d
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcode decodes a base64url ISO record of the source format, extracts
// its image and re-encodes it as target, returned base64url encoded.
func (c *Converter) Transcode(source iso.FormatCode, payload string, target images.TargetFormat, params Params) (string, error) {
	data, err := biometrics.DecodeBase64URL(payload)
	if err != nil {
		return "", biometrics.Wrap(biometrics.KindSourceNotBase64Encoded, err, "").WithModality(source.Modality())
	}
	out, err := c.TranscodeRecord(source, data, target, params)
	if err != nil {
		return "", err
	}
	return biometrics.EncodeBase64URL(out), nil
}

// TranscodeRecord is Transcode over raw record bytes.
func (c *Converter) TranscodeRecord(source iso.FormatCode, data []byte, target images.TargetFormat, params Params) (out []byte, err error) {
	start := time.Now()
	modality := source.Modality()
	defer func() { c.metrics.ObserveConversion(string(modality), string(target), start, err) }()

	dec, ok := c.decoders[source]
	if !ok {
		return nil, biometrics.NewError(biometrics.KindInvalidSourceFormat, fmt.Sprintf("unsupported source format %q", source))
	}
	if _, ok := images.ParseTargetFormat(string(target)); !ok {
		return nil, biometrics.NewError(biometrics.KindInvalidTargetFormat, fmt.Sprintf("unsupported target format %q", target))
	}

	rec, err := dec.Decode(data)
	if err != nil {
		return nil, biometrics.Wrap(biometrics.KindSourceNotValidIsoFormat, err, "").WithModality(modality)
	}
	c.metrics.ObservePayloadSize(string(modality), len(data))

	img, err := c.raster(rec)
	if err != nil {
		return nil, err
	}

	slog.Debug("Transcoding record image",
		"modality", modality, "target", target,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy(),
		"params", params)

	out, err = images.Encode(img, target)
	if err != nil {
		return nil, biometrics.Wrap(biometrics.KindTechnicalError, err, "failed to encode image").WithModality(modality)
	}
	return out, nil
}

// raster picks the codec from the record's image tag and decodes the image.
func (c *Converter) raster(rec iso.Record) (image.Image, error) {
	modality := rec.Modality()
	data := rec.ImageData()
	if len(data) == 0 {
		return nil, biometrics.NewError(biometrics.KindCouldNotReadImageData, "record carries no image data").WithModality(modality)
	}

	switch codecFor(modality, rec.ImageTag()) {
	case codecJPEG2000:
		img, err := c.jpeg2000.Decode(data)
		if err != nil {
			return nil, biometrics.Wrap(biometrics.KindCouldNotReadImageData, err, "").WithModality(modality)
		}
		return img, nil

	case codecWSQ:
		if c.wsq == nil {
			return nil, biometrics.NewError(biometrics.KindTechnicalError, "no WSQ decoder configured").WithModality(modality)
		}
		in, err := c.wsq.Decode(data)
		if err != nil {
			return nil, biometrics.Wrap(biometrics.KindCouldNotReadImageData, err, "").WithModality(modality)
		}
		gray, err := images.GrayFromIntensity(in)
		if err != nil {
			return nil, biometrics.Wrap(biometrics.KindCouldNotReadImageData, err, "").WithModality(modality)
		}
		return gray, nil
	}

	return nil, biometrics.NewError(biometrics.KindUnsupportedCompressionType,
		fmt.Sprintf("image type 0x%02X not supported", rec.ImageTag())).WithModality(modality)
}

type codec int

const (
	codecNone codec = iota
	codecJPEG2000
	codecWSQ
)

func codecFor(m biometrics.Modality, tag uint8) codec {
	switch m {
	case biometrics.Finger:
		switch tag {
		case iso.FingerCompressionJPEG2000Lossy, iso.FingerCompressionJPEG2000Lossless:
			return codecJPEG2000
		case iso.FingerCompressionWSQ:
			return codecWSQ
		}
	case biometrics.Face:
		switch tag {
		case iso.FaceImageDataJPEG2000Lossy, iso.FaceImageDataJPEG2000Lossless:
			return codecJPEG2000
		}
	case biometrics.Iris:
		if tag == iso.IrisImageFormatMonoJPEG2000 {
			return codecJPEG2000
		}
	}
	return codecNone
}
