package sdk

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/converter"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/metrics"
	"go-biometric-sdk/validation"
)

var imageData = []byte{0xFF, 0x4F, 0xFF, 0x51, 0x00, 0x2F}

type stubJPEG2000 struct{}

func (stubJPEG2000) Decode([]byte) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 4, 4)), nil
}

func fingerBytes() []byte {
	return iso.NewFingerSample(0x07, iso.FingerCompressionJPEG2000Lossy, imageData).Encode()
}

func newTestSDK(t *testing.T) (*SDK, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewWith(prometheus.NewRegistry())
	conv := converter.New(converter.WithJPEG2000Decoder(stubJPEG2000{}), converter.WithMetrics(m))
	return New(WithConverter(conv), WithMetrics(m)), m
}

func TestValidateAcceptsConformingRecords(t *testing.T) {
	s, m := newTestSDK(t)

	tests := []struct {
		name string
		seg  biometrics.Segment
	}{
		{"finger", NewSegment(biometrics.Finger, biometrics.LeftIndexFinger, biometrics.PurposeVerify, fingerBytes())},
		{"finger unknown subtype", NewSegment(biometrics.Finger, biometrics.SubtypeUnknown, biometrics.PurposeEnroll, fingerBytes())},
		{"face", NewSegment(biometrics.Face, "", biometrics.PurposeIdentify,
			iso.NewFaceSample(iso.FaceImageDataJPEG2000Lossy, imageData).Encode())},
		{"iris", NewSegment(biometrics.Iris, biometrics.RightEye, biometrics.PurposeVerify,
			iso.NewIrisSample(iso.EyeRight, iso.IrisImageFormatMonoJPEG2000, imageData).Encode())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Validate(tt.seg, tt.seg.Purpose)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
	require.Equal(t, 2.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("Finger", "valid")))
}

func TestValidateReportsEveryViolation(t *testing.T) {
	s, m := newTestSDK(t)

	rec := iso.NewFingerSample(0x07, iso.FingerCompressionJPEG2000Lossy, imageData)
	rec.Representation.BitDepth = 0x07
	rec.Representation.ScaleUnits = 0x03

	ok, err := s.Validate(NewSegment(biometrics.Finger, biometrics.RightThumb, biometrics.PurposeVerify, rec.Encode()), biometrics.PurposeVerify)
	require.False(t, ok)
	require.ErrorIs(t, err, biometrics.ErrInvalidBiometricData)

	var report *validation.Report
	require.ErrorAs(t, err, &report)
	require.Equal(t, []string{"Finger Position", "Scale Units", "Bit Depth"}, report.Fields())
	require.Contains(t, err.Error(), "ISOStandardsValidator[ISO19794-4:2011] failed due to below issues:")

	require.Equal(t, 1.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("Finger", "invalid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ViolationsTotal.WithLabelValues("Finger", "Bit Depth")))
}

func TestValidatePreconditions(t *testing.T) {
	s, _ := newTestSDK(t)

	tests := []struct {
		name string
		seg  biometrics.Segment
		kind biometrics.Kind
	}{
		{"unknown modality", NewSegment("Palm", "", biometrics.PurposeVerify, fingerBytes()), biometrics.KindMissingInput},
		{"finger subtype outside enumeration", NewSegment(biometrics.Finger, "Left", biometrics.PurposeVerify, fingerBytes()), biometrics.KindMissingInput},
		{"iris subtype outside enumeration", NewSegment(biometrics.Iris, "Both", biometrics.PurposeVerify, fingerBytes()), biometrics.KindMissingInput},
		{"empty payload", NewSegment(biometrics.Finger, biometrics.RightThumb, biometrics.PurposeVerify, nil), biometrics.KindBiometricNotFound},
		{"truncated record", NewSegment(biometrics.Finger, biometrics.RightThumb, biometrics.PurposeVerify, fingerBytes()[:20]), biometrics.KindInvalidInputFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Validate(tt.seg, biometrics.PurposeVerify)
			require.False(t, ok)
			require.Equal(t, tt.kind, biometrics.KindOf(err))
		})
	}
}

func TestValidateEncoded(t *testing.T) {
	s, _ := newTestSDK(t)

	ok, err := s.ValidateEncoded(biometrics.Finger, biometrics.LeftIndexFinger, biometrics.PurposeVerify,
		biometrics.EncodeBase64URL(fingerBytes()))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.ValidateEncoded(biometrics.Finger, biometrics.LeftIndexFinger, biometrics.PurposeVerify, "*not*base64*")
	require.False(t, ok)
	require.Equal(t, biometrics.KindInvalidInputFormat, biometrics.KindOf(err))

	ok, err = s.ValidateEncoded(biometrics.Finger, "Left", biometrics.PurposeVerify, "*not*base64*")
	require.False(t, ok)
	require.Equal(t, biometrics.KindMissingInput, biometrics.KindOf(err))

	ok, err = s.ValidateEncoded(biometrics.Modality("Palm"), biometrics.SubtypeUnknown, biometrics.PurposeVerify, "*not*base64*")
	require.False(t, ok)
	require.Equal(t, biometrics.KindMissingInput, biometrics.KindOf(err))
}

func TestCheckParams(t *testing.T) {
	require.NoError(t, CheckParams(biometrics.Finger, biometrics.RightThumb))
	require.NoError(t, CheckParams(biometrics.Face, ""))
	require.NoError(t, CheckParams(biometrics.Iris, biometrics.SubtypeUnknown))

	err := CheckParams(biometrics.Iris, biometrics.RightThumb)
	require.ErrorIs(t, err, biometrics.ErrMissingInput)
	require.ErrorIs(t, CheckParams(biometrics.Modality(""), ""), biometrics.ErrMissingInput)
}

func TestConvert(t *testing.T) {
	s, _ := newTestSDK(t)

	out, err := s.Convert([]converter.Entry{{Key: "k", Value: biometrics.EncodeBase64URL(fingerBytes())}},
		string(iso.FormatFinger), "IMAGE_PNG", nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "k", out[0].Key)
}

func TestConvertRecord(t *testing.T) {
	s, _ := newTestSDK(t)

	face := iso.NewFaceSample(iso.FaceImageDataJPEG2000Lossy, imageData).Encode()
	coll := biometrics.Collection{Segments: []biometrics.Segment{
		NewSegment(biometrics.Face, "", biometrics.PurposeVerify, face),
		NewSegment(biometrics.Finger, biometrics.LeftIndexFinger, biometrics.PurposeVerify, fingerBytes()),
		NewSegment(biometrics.Finger, biometrics.RightThumb, biometrics.PurposeVerify, fingerBytes()),
	}}
	coll.Segments[1].Metadata.FormatOwner = 0x0101

	out, err := s.ConvertRecord(coll, string(iso.FormatFinger), "IMAGE_PNG", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, out.Segments, 2)
	require.Equal(t, biometrics.LeftIndexFinger, out.Segments[0].Subtype())
	require.Equal(t, biometrics.RightThumb, out.Segments[1].Subtype())
	require.Equal(t, "image/png", out.Segments[0].Metadata.ContentType)
	require.Zero(t, out.Segments[0].Metadata.FormatOwner)

	img, err := png.Decode(bytes.NewReader(out.Segments[0].Payload))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	// The input collection is left untouched.
	require.Equal(t, fingerBytes(), coll.Segments[1].Payload)
	require.Equal(t, uint16(0x0101), coll.Segments[1].Metadata.FormatOwner)
}

func TestConvertRecordFailures(t *testing.T) {
	s, _ := newTestSDK(t)
	coll := biometrics.Collection{Segments: []biometrics.Segment{
		NewSegment(biometrics.Finger, biometrics.LeftIndexFinger, biometrics.PurposeVerify, fingerBytes()),
	}}

	_, err := s.ConvertRecord(coll, string(iso.FormatFinger), "IMAGE_TIFF", nil, nil, nil)
	require.Equal(t, biometrics.KindInvalidTargetFormat, biometrics.KindOf(err))

	_, err = s.ConvertRecord(coll, "ISO19794_4_2005", "IMAGE_PNG", nil, nil, nil)
	require.Equal(t, biometrics.KindInvalidSourceFormat, biometrics.KindOf(err))

	_, err = s.ConvertRecord(coll, string(iso.FormatFinger), "IMAGE_PNG", nil, nil, []biometrics.Modality{biometrics.Face})
	require.Equal(t, biometrics.KindBiometricNotFound, biometrics.KindOf(err))

	bad := biometrics.Collection{Segments: append(coll.Segments,
		NewSegment(biometrics.Finger, biometrics.RightThumb, biometrics.PurposeVerify, []byte("FIR\x00")))}
	out, err := s.ConvertRecord(bad, string(iso.FormatFinger), "IMAGE_JPEG", nil, nil, nil)
	require.Empty(t, out.Segments)
	require.Equal(t, biometrics.KindSourceNotValidIsoFormat, biometrics.KindOf(err))
}
