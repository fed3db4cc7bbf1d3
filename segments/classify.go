// Package segments groups the segments of a biometric container by
// modality.
package segments

import (
	"fmt"

	"github.com/samber/lo"

	"go-biometric-sdk/biometrics"
)

// Classify groups the segments of coll by their first modality tag. When
// requested is non-empty, segments whose first tag is not requested are
// skipped. Every kept segment
// must carry a known modality, a subtype from the modality's enumeration
// and a non-empty payload; the first offender aborts the call.
func Classify(coll biometrics.Collection, requested []biometrics.Modality) (map[biometrics.Modality][]biometrics.Segment, error) {
	out := make(map[biometrics.Modality][]biometrics.Segment)

	for i, seg := range coll.Segments {
		m := seg.Modality()
		if len(requested) > 0 && !lo.Contains(requested, m) {
			continue
		}

		if !m.Valid() {
			return nil, biometrics.NewError(biometrics.KindMissingInput,
				fmt.Sprintf("segment %d: modality %q not supported", i, m))
		}
		subtype := seg.Subtype()
		if !biometrics.SubtypeAllowed(m, subtype) {
			return nil, biometrics.NewError(biometrics.KindMissingInput,
				fmt.Sprintf("segment %d: subtype %q not valid", i, subtype)).WithModality(m)
		}
		if len(seg.Payload) == 0 {
			return nil, biometrics.NewError(biometrics.KindBiometricNotFound,
				fmt.Sprintf("segment %d carries no biometric data", i)).WithModality(m)
		}

		out[m] = append(out[m], seg)
	}
	return out, nil
}
