package biometrics

import (
	"strings"

	"github.com/samber/lo"
)

const SubtypeUnknown = "UNKNOWN"

// Finger subtype labels.
const (
	LeftIndexFinger   = "Left IndexFinger"
	LeftMiddleFinger  = "Left MiddleFinger"
	LeftRingFinger    = "Left RingFinger"
	LeftLittleFinger  = "Left LittleFinger"
	LeftThumb         = "Left Thumb"
	RightIndexFinger  = "Right IndexFinger"
	RightMiddleFinger = "Right MiddleFinger"
	RightRingFinger   = "Right RingFinger"
	RightLittleFinger = "Right LittleFinger"
	RightThumb        = "Right Thumb"
)

// Iris subtype labels.
const (
	LeftEye  = "Left"
	RightEye = "Right"
)

var fingerSubtypes = []string{
	SubtypeUnknown,
	LeftIndexFinger, LeftMiddleFinger, LeftRingFinger, LeftLittleFinger, LeftThumb,
	RightIndexFinger, RightMiddleFinger, RightRingFinger, RightLittleFinger, RightThumb,
}

var irisSubtypes = []string{SubtypeUnknown, LeftEye, RightEye}

// Subtypes returns the closed subtype enumeration of m. Face has none and
// returns nil.
func Subtypes(m Modality) []string {
	switch m {
	case Finger:
		return append([]string(nil), fingerSubtypes...)
	case Iris:
		return append([]string(nil), irisSubtypes...)
	}
	return nil
}

// SubtypeAllowed reports whether subtype belongs to the enumeration of m.
// Face accepts any subtype.
func SubtypeAllowed(m Modality, subtype string) bool {
	switch m {
	case Finger:
		return lo.Contains(fingerSubtypes, subtype)
	case Iris:
		return lo.Contains(irisSubtypes, subtype)
	case Face:
		return true
	}
	return false
}

// JoinSubtype builds the subtype label from up to two tokens, each trimmed,
// joined by a single space. A blank second token still contributes its
// separator, so ["Left", ""] yields "Left " and matches no enumeration.
func JoinSubtype(tokens []string) string {
	trimmed := lo.Map(lo.Slice(tokens, 0, 2), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	return strings.Join(trimmed, " ")
}
