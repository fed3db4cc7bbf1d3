package validation

import (
	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

// ISO/IEC 19794-4 finger position codes for each subtype label.
var fingerPositions = map[string]uint8{
	biometrics.RightThumb:        0x01,
	biometrics.RightIndexFinger:  0x02,
	biometrics.RightMiddleFinger: 0x03,
	biometrics.RightRingFinger:   0x04,
	biometrics.RightLittleFinger: 0x05,
	biometrics.LeftThumb:         0x06,
	biometrics.LeftIndexFinger:   0x07,
	biometrics.LeftMiddleFinger:  0x08,
	biometrics.LeftRingFinger:    0x09,
	biometrics.LeftLittleFinger:  0x0A,
}

var eyeLabels = map[string]uint8{
	biometrics.RightEye: iso.EyeRight,
	biometrics.LeftEye:  iso.EyeLeft,
}

// SubtypeCode returns the position or eye code a declared subtype demands.
// The second result is false for UNKNOWN and for labels with no code.
func SubtypeCode(m biometrics.Modality, subtype string) (uint8, bool) {
	var code uint8
	var ok bool
	switch m {
	case biometrics.Finger:
		code, ok = fingerPositions[subtype]
	case biometrics.Iris:
		code, ok = eyeLabels[subtype]
	}
	return code, ok
}

// Consistent reports whether the decoded position or eye code agrees with
// the declared subtype. UNKNOWN accepts any code; a label outside the
// modality enumeration accepts none. Face has no subtype-bound field.
func Consistent(m biometrics.Modality, subtype string, code uint8) bool {
	if m == biometrics.Face {
		return true
	}
	if subtype == biometrics.SubtypeUnknown {
		return true
	}
	want, ok := SubtypeCode(m, subtype)
	return ok && want == code
}

func describeSubtype(m biometrics.Modality, subtype string) string {
	if subtype == biometrics.SubtypeUnknown {
		if m == biometrics.Finger {
			return Ranges{Between(0x00, 0x0A)}.Describe(2)
		}
		return "[any eye label]"
	}
	if want, ok := SubtypeCode(m, subtype); ok {
		return Exact(want).Describe(2) + " for subtype " + subtype
	}
	return "[none] for unsupported subtype " + subtype
}
