package biometrics

import (
	"fmt"
	"strings"
)

// Modality identifies the biometric trait a segment carries.
type Modality string

const (
	Finger Modality = "Finger"
	Face   Modality = "Face"
	Iris   Modality = "Iris"
)

// Modalities lists every modality the SDK handles.
var Modalities = []Modality{Finger, Face, Iris}

func (m Modality) String() string { return string(m) }

// Valid reports whether m is one of the handled modalities.
func (m Modality) Valid() bool {
	switch m {
	case Finger, Face, Iris:
		return true
	}
	return false
}

// ParseModality maps a case-insensitive name onto a Modality.
func ParseModality(s string) (Modality, error) {
	for _, m := range Modalities {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", NewError(KindMissingInput, fmt.Sprintf("unknown modality %q", s))
}

// Purpose is the declared intent of a validation call. It is accepted and
// logged but does not change which rules apply.
type Purpose string

const (
	PurposeVerify                   Purpose = "VERIFY"
	PurposeIdentify                 Purpose = "IDENTIFY"
	PurposeEnroll                   Purpose = "ENROLL"
	PurposeEnrollmentDuplicateCheck Purpose = "ENROLLMENT_DUPLICATE_CHECK"
)

// ParsePurpose maps a case-insensitive name onto a Purpose. Empty input
// yields PurposeVerify.
func ParsePurpose(s string) (Purpose, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return PurposeVerify, nil
	}
	switch p := Purpose(s); p {
	case PurposeVerify, PurposeIdentify, PurposeEnroll, PurposeEnrollmentDuplicateCheck:
		return p, nil
	}
	return "", NewError(KindMissingInput, fmt.Sprintf("unknown purpose %q", s))
}
