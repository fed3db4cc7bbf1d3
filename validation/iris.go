package validation

import (
	"fmt"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

type irisRecord = *iso.IrisRecord

var orientation = OneOf{0x00, 0x01, 0x02}

// IrisTable returns the ISO/IEC 19794-6:2011 rule table.
func IrisTable() Table[irisRecord] {
	gh := func(r irisRecord) *iso.GeneralHeader { return &r.GeneralHeader }
	rh := func(r irisRecord) *iso.RepresentationHeader { return &r.Representation.RepresentationHeader }
	rep := func(r irisRecord) *iso.IrisRepresentation { return &r.Representation }
	eyes := OneOf{0x00, 0x01}

	steps := headerSteps(gh, iso.IrisFormatID, iso.IrisVersion, 0x45)
	steps = append(steps,
		field("Certification Flag", 2, Exact(0x00), func(r irisRecord) uint64 { return uint64(r.CertificationFlag) }),
		field("No Of Eyes Represented", 2, eyes, func(r irisRecord) uint64 { return uint64(r.EyeCount) }).
			and(func(r irisRecord, _ Input) bool { return uint16(r.EyeCount) == r.NumRepresentations },
				func(r irisRecord, _ Input) string {
					return fmt.Sprintf("%s and equal to the number of representations %s", eyes.Describe(2), hexValue(uint64(r.NumRepresentations), 2))
				}),
		representationLengthRule(rh, 0x35),
		captureTimeRule(rh),
		field("Capture Device Technology Identifier", 2, OneOf{0x00, 0x01},
			func(r irisRecord) uint64 { return uint64(rep(r).DeviceTechnology) }),
	)
	steps = append(steps, deviceSteps(rh)...)
	steps = append(steps, qualitySteps(rh, Ranges{Between(0x00, 0x64)})...)
	steps = append(steps,
		field("Representation Number", 4, Exact(0x0001), func(r irisRecord) uint64 { return uint64(rep(r).RepresentationNumber) }),
		field("Eye Label", 2, nil, func(r irisRecord) uint64 { return uint64(rep(r).EyeLabel) }).
			and(func(r irisRecord, in Input) bool {
				return Consistent(biometrics.Iris, in.Subtype, rep(r).EyeLabel)
			}, func(_ irisRecord, in Input) string {
				return describeSubtype(biometrics.Iris, in.Subtype)
			}),
		field("Image Type", 2, OneOf{iso.IrisImageTypeCropped, iso.IrisImageTypeCroppedAndMasked},
			func(r irisRecord) uint64 { return uint64(rep(r).ImageType) }),
		field("Image Format", 2, Exact(iso.IrisImageFormatMonoJPEG2000),
			func(r irisRecord) uint64 { return uint64(rep(r).ImageFormat) }),
		field("Image Property Horizontal Orientation", 2, orientation,
			func(r irisRecord) uint64 { return uint64(rep(r).HorizontalOrientation()) }),
		field("Image Property Vertical Orientation", 2, orientation,
			func(r irisRecord) uint64 { return uint64(rep(r).VerticalOrientation()) }),
		field("Image Property Compression Type", 2, OneOf{0x01, 0x02},
			func(r irisRecord) uint64 { return uint64(rep(r).CompressionHistory()) }),
		u16Field("Image Width", func(r irisRecord) uint16 { return rep(r).Width }),
		u16Field("Image Height", func(r irisRecord) uint16 { return rep(r).Height }),
		field("Bit Depth", 2, Exact(0x08), func(r irisRecord) uint64 { return uint64(rep(r).BitDepth) }),
		u16Field("Range", func(r irisRecord) uint16 { return rep(r).Range }),
		u16Field("Roll Angle Of Eye", func(r irisRecord) uint16 { return rep(r).RollAngle }),
		u16Field("Roll Angle Uncertainty", func(r irisRecord) uint16 { return rep(r).RollAngleUncertainty }),
		u16Field("Iris Center Smallest X", func(r irisRecord) uint16 { return rep(r).IrisCentreSmallestX }),
		u16Field("Iris Center Largest X", func(r irisRecord) uint16 { return rep(r).IrisCentreLargestX }),
		u16Field("Iris Center Smallest Y", func(r irisRecord) uint16 { return rep(r).IrisCentreSmallestY }),
		u16Field("Iris Center Largest Y", func(r irisRecord) uint16 { return rep(r).IrisCentreLargestY }),
		u16Field("Iris Diameter Smallest", func(r irisRecord) uint16 { return rep(r).IrisDiameterSmallest }),
		u16Field("Iris Diameter Largest", func(r irisRecord) uint16 { return rep(r).IrisDiameterLargest }),
		imageLengthRule(
			func(r irisRecord) uint32 { return rep(r).ImageLength },
			func(r irisRecord) []byte { return rep(r).Image }),
	)

	return Table[irisRecord]{
		Modality: biometrics.Iris,
		Standard: iso.FormatIris.Standard(),
		Steps:    steps,
	}
}
