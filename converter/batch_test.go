package converter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

func TestConvertBatchKeepsOrder(t *testing.T) {
	c := New(WithJPEG2000Decoder(&fakeJPEG2000{}))
	values := []Entry{
		{Key: "right-thumb", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossy)},
		{Key: "left-index", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossless)},
		{Key: "another", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossy)},
	}

	out, err := c.ConvertBatch(values, "iso19794_4_2011", "IMAGE_PNG", nil, map[string]string{"DPI": "500"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, e := range out {
		require.Equal(t, values[i].Key, e.Key)
		decodePNG(t, e.Value)
	}
}

func TestConvertBatchResolvesTargetFirst(t *testing.T) {
	_, err := New().ConvertBatch(nil, "BOGUS", "BOGUS", nil, nil)
	require.Equal(t, biometrics.KindInvalidTargetFormat, biometrics.KindOf(err))

	_, err = New().ConvertBatch(nil, "BOGUS", "IMAGE_JPEG", nil, nil)
	require.Equal(t, biometrics.KindInvalidSourceFormat, biometrics.KindOf(err))
}

func TestConvertBatchAbortsOnFirstFailure(t *testing.T) {
	c := New(WithJPEG2000Decoder(&fakeJPEG2000{}))

	tests := []struct {
		name   string
		values []Entry
		kind   biometrics.Kind
	}{
		{
			name: "blank value",
			values: []Entry{
				{Key: "a", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossy)},
				{Key: "b", Value: "  \t"},
			},
			kind: biometrics.KindSourceEmptyOrNull,
		},
		{
			name: "second entry not ISO",
			values: []Entry{
				{Key: "a", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossy)},
				{Key: "b", Value: biometrics.EncodeBase64URL([]byte("nope"))},
				{Key: "c", Value: fingerRecord(iso.FingerCompressionJPEG2000Lossy)},
			},
			kind: biometrics.KindSourceNotValidIsoFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.ConvertBatch(tt.values, string(iso.FormatFinger), "IMAGE_JPEG", nil, nil)
			require.Nil(t, out)
			require.Equal(t, tt.kind, biometrics.KindOf(err))
		})
	}
}

func TestParseParams(t *testing.T) {
	p := ParseParams(map[string]string{
		"DPI":    " 500 ",
		"Width":  "wide",
		"height": "-3",
		"depth":  "8",
	})

	dpi, ok := p.DPI.Get()
	require.True(t, ok)
	require.Equal(t, 500, dpi)
	require.True(t, p.Width.IsAbsent())
	require.True(t, p.Height.IsAbsent())

	p = ParseParams(map[string]string{"width": "640", "HEIGHT": "480"})
	require.Equal(t, 640, p.Width.OrEmpty())
	require.Equal(t, 480, p.Height.OrEmpty())
	require.True(t, p.DPI.IsAbsent())
}
