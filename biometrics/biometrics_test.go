package biometrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinSubtype(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"two tokens", []string{"Left", "IndexFinger"}, "Left IndexFinger"},
		{"trimmed tokens", []string{" Right ", " Thumb"}, "Right Thumb"},
		{"single token", []string{"UNKNOWN"}, "UNKNOWN"},
		{"third token ignored", []string{"Left", "IndexFinger", "Extra"}, "Left IndexFinger"},
		{"empty", nil, ""},
		{"blank second keeps separator", []string{"Left", "  "}, "Left "},
		{"blank first keeps separator", []string{"", "Thumb"}, " Thumb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, JoinSubtype(tt.tokens))
		})
	}
}

func TestSubtypeAllowed(t *testing.T) {
	require.True(t, SubtypeAllowed(Finger, LeftIndexFinger))
	require.True(t, SubtypeAllowed(Finger, SubtypeUnknown))
	require.False(t, SubtypeAllowed(Finger, "Left"))
	require.False(t, SubtypeAllowed(Iris, JoinSubtype([]string{"Left", ""})))
	require.True(t, SubtypeAllowed(Iris, RightEye))
	require.False(t, SubtypeAllowed(Iris, RightThumb))
	require.True(t, SubtypeAllowed(Face, "anything"))
	require.False(t, SubtypeAllowed(Modality("Voice"), SubtypeUnknown))
	require.Len(t, Subtypes(Finger), 11)
	require.Len(t, Subtypes(Iris), 3)
	require.Nil(t, Subtypes(Face))
}

func TestParseModality(t *testing.T) {
	m, err := ParseModality(" finger ")
	require.NoError(t, err)
	require.Equal(t, Finger, m)

	_, err = ParseModality("voice")
	require.ErrorIs(t, err, ErrMissingInput)
}

func TestParsePurpose(t *testing.T) {
	p, err := ParsePurpose("")
	require.NoError(t, err)
	require.Equal(t, PurposeVerify, p)

	p, err = ParsePurpose("enroll")
	require.NoError(t, err)
	require.Equal(t, PurposeEnroll, p)

	_, err = ParsePurpose("match")
	require.Error(t, err)
}

func TestErrorKindMatching(t *testing.T) {
	cause := errors.New("truncated record")
	err := fmt.Errorf("decoding: %w", Wrap(KindSourceNotValidIsoFormat, cause, "").WithModality(Iris))

	require.ErrorIs(t, err, ErrSourceNotValidIsoFormat)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrInvalidInputFormat)
	require.NotErrorIs(t, err, ErrSourceNotValidIsoFormat.WithModality(Finger))
	require.Equal(t, KindSourceNotValidIsoFormat, KindOf(err))
	require.Equal(t, KindTechnicalError, KindOf(cause))
	require.Contains(t, err.Error(), "source not valid ISO format (Iris)")
}

func TestBase64URLRoundTrip(t *testing.T) {
	payload := []byte{0xFB, 0xFF, 0x00, 0x10, 0x3E}
	enc := EncodeBase64URL(payload)
	require.NotContains(t, enc, "=")
	require.NotContains(t, enc, "+")
	require.NotContains(t, enc, "/")

	dec, err := DecodeBase64URL(enc)
	require.NoError(t, err)
	require.Equal(t, payload, dec)

	padded, err := DecodeBase64URL("-_8AED4=")
	require.NoError(t, err)
	require.Equal(t, payload, padded)

	_, err = DecodeBase64URL("not*base64")
	require.Error(t, err)
}

func TestSegmentWithPayloadCopies(t *testing.T) {
	s := Segment{Modalities: []Modality{Finger}, Subtypes: []string{"Left", "Thumb"}, Payload: []byte{1}}
	c := s.WithPayload([]byte{2})
	c.Subtypes[0] = "Right"

	require.Equal(t, []byte{1}, s.Payload)
	require.Equal(t, "Left Thumb", s.Subtype())
	require.Equal(t, Finger, c.Modality())
	require.Equal(t, Modality(""), Segment{}.Modality())
}
