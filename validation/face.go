package validation

import (
	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

type faceRecord = *iso.FaceRecord

var (
	poseComponent = Ranges{Between(0x00, 0xB5)}
	colourCode    = Ranges{Between(0x00, 0x07), Value(0xFF)}
)

// FaceTable returns the ISO/IEC 19794-5:2011 rule table. Face carries no
// subtype-bound field.
func FaceTable() Table[faceRecord] {
	gh := func(r faceRecord) *iso.GeneralHeader { return &r.GeneralHeader }
	rh := func(r faceRecord) *iso.RepresentationHeader { return &r.Representation.RepresentationHeader }
	rep := func(r faceRecord) *iso.FaceRepresentation { return &r.Representation }

	steps := headerSteps(gh, iso.FaceFormatID, iso.FaceVersion, 0x01)
	steps = append(steps,
		field("Certification Flag", 2, Exact(0x00), func(r faceRecord) uint64 { return uint64(r.CertificationFlag) }),
		field("Temporal Semantics", 4, Exact(0x0000), func(r faceRecord) uint64 { return uint64(r.TemporalSemantics) }),
		representationLengthRule(rh, 0x33),
		captureTimeRule(rh),
		field("Capture Device Technology Identifier", 2, Ranges{Between(0x00, 0x06), Between(0x80, 0xFF)},
			func(r faceRecord) uint64 { return uint64(rep(r).DeviceTechnology) }),
	)
	steps = append(steps, deviceSteps(rh)...)
	steps = append(steps, qualitySteps(rh, Ranges{Between(0x00, 0x64), Value(0xFF)})...)
	steps = append(steps,
		u16Field("No Of Landmark Points", func(r faceRecord) uint16 { return rep(r).LandmarkCount }),
		field("Gender", 2, OneOf{0x00, 0x01, 0x02, 0xFF}, func(r faceRecord) uint64 { return uint64(rep(r).Gender) }),
		field("Eye Colour", 2, colourCode, func(r faceRecord) uint64 { return uint64(rep(r).EyeColour) }),
		field("Hair Colour", 2, colourCode, func(r faceRecord) uint64 { return uint64(rep(r).HairColour) }),
		u8Field("Subject Height", func(r faceRecord) uint8 { return rep(r).SubjectHeight }),
		field("Features Mask", 6, Ranges{Between(0, maxU24)}, func(r faceRecord) uint64 { return uint64(rep(r).PropertyMask) }),
		u16Field("Expression Mask", func(r faceRecord) uint16 { return rep(r).ExpressionMask }),
		field("Pose Angle Yaw", 2, poseComponent, func(r faceRecord) uint64 { return uint64(rep(r).PoseAngle.Yaw) }),
		field("Pose Angle Pitch", 2, poseComponent, func(r faceRecord) uint64 { return uint64(rep(r).PoseAngle.Pitch) }),
		field("Pose Angle Roll", 2, poseComponent, func(r faceRecord) uint64 { return uint64(rep(r).PoseAngle.Roll) }),
		field("Pose Angle Uncertainty Yaw", 2, poseComponent,
			func(r faceRecord) uint64 { return uint64(rep(r).PoseAngleUncertainty.Yaw) }),
		field("Pose Angle Uncertainty Pitch", 2, poseComponent,
			func(r faceRecord) uint64 { return uint64(rep(r).PoseAngleUncertainty.Pitch) }),
		field("Pose Angle Uncertainty Roll", 2, poseComponent,
			func(r faceRecord) uint64 { return uint64(rep(r).PoseAngleUncertainty.Roll) }),
		group[faceRecord, iso.LandmarkPoint]{
			name:     "Landmark Point",
			width:    4,
			declared: func(r faceRecord) uint64 { return uint64(rep(r).LandmarkCount) },
			items:    func(r faceRecord) []iso.LandmarkPoint { return rep(r).LandmarkPoints },
			rules: []Step[iso.LandmarkPoint]{
				u8Field("Landmark Point Type", func(p iso.LandmarkPoint) uint8 { return p.Type }),
				u8Field("Landmark Point Code", func(p iso.LandmarkPoint) uint8 { return p.Code }),
				u16Field("Landmark X Coordinate", func(p iso.LandmarkPoint) uint16 { return p.X }),
				u16Field("Landmark Y Coordinate", func(p iso.LandmarkPoint) uint16 { return p.Y }),
				u16Field("Landmark Z Coordinate", func(p iso.LandmarkPoint) uint16 { return p.Z }),
			},
		},
		field("Face Image Type", 2, Ranges{Between(0x00, 0x03), Between(0x80, 0x82)},
			func(r faceRecord) uint64 { return uint64(rep(r).FaceImageType) }),
		field("Image Data Type", 2, OneOf{iso.FaceImageDataJPEG2000Lossy, iso.FaceImageDataJPEG2000Lossless},
			func(r faceRecord) uint64 { return uint64(rep(r).ImageDataType) }),
		u16Field("Width", func(r faceRecord) uint16 { return rep(r).Width }),
		u16Field("Height", func(r faceRecord) uint16 { return rep(r).Height }),
		field("Spatial Sampling Rate Level", 2, Ranges{Between(0x00, 0x07)},
			func(r faceRecord) uint64 { return uint64(rep(r).SpatialSamplingRateLevel) }),
		u16Field("Post Acquisition Processing", func(r faceRecord) uint16 { return rep(r).PostAcquisitionProcessing }),
		u8Field("Cross Reference", func(r faceRecord) uint8 { return rep(r).CrossReference }),
		field("Image Colour Space", 2, Exact(iso.FaceColourSpace24BitRGB),
			func(r faceRecord) uint64 { return uint64(rep(r).ColourSpace) }),
		imageLengthRule(
			func(r faceRecord) uint32 { return rep(r).ImageLength },
			func(r faceRecord) []byte { return rep(r).Image }),
	)

	return Table[faceRecord]{
		Modality: biometrics.Face,
		Standard: iso.FormatFace.Standard(),
		Steps:    steps,
	}
}
