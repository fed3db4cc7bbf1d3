package validation

import (
	"fmt"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

type fingerRecord = *iso.FingerRecord

var samplingRate = Ranges{Between(0x01EA, 0x03F2)}

// FingerTable returns the ISO/IEC 19794-4:2011 rule table.
func FingerTable() Table[fingerRecord] {
	gh := func(r fingerRecord) *iso.GeneralHeader { return &r.GeneralHeader }
	rh := func(r fingerRecord) *iso.RepresentationHeader { return &r.Representation.RepresentationHeader }

	steps := headerSteps(gh, iso.FingerFormatID, iso.FingerVersion, 0x39)
	steps = append(steps,
		field("Certification Flag", 2, OneOf{0x00, 0x01}, func(r fingerRecord) uint64 { return uint64(r.CertificationFlag) }),
		field("No Of Finger Present", 2, Exact(0x01), func(r fingerRecord) uint64 { return uint64(r.FingerCount) }),
		representationLengthRule(rh, 0x29),
		captureTimeRule(rh),
		field("Capture Device Technology Identifier", 2, Ranges{Between(0x00, 0x14)},
			func(r fingerRecord) uint64 { return uint64(r.Representation.DeviceTechnology) }),
	)
	steps = append(steps, deviceSteps(rh)...)
	steps = append(steps, qualitySteps(rh, Ranges{Between(0x00, 0x64), Value(0xFF)})...)
	steps = append(steps,
		when[fingerRecord]{
			cond: func(r fingerRecord) bool { return r.CertificationFlag == 0x01 },
			steps: []Step[fingerRecord]{
				field("No Of Certification Blocks", 2, Ranges{Between(0, maxU8)},
					func(r fingerRecord) uint64 { return uint64(r.Representation.CertificationBlockCount) }),
				group[fingerRecord, iso.CertificationBlock]{
					name:     "Certification Block",
					width:    2,
					declared: func(r fingerRecord) uint64 { return uint64(r.Representation.CertificationBlockCount) },
					items:    func(r fingerRecord) []iso.CertificationBlock { return r.Representation.CertificationBlocks },
					rules: []Step[iso.CertificationBlock]{
						u16Field("Certification Authority ID", func(c iso.CertificationBlock) uint16 { return c.AuthorityID }),
						u8Field("Certification Scheme Identifier", func(c iso.CertificationBlock) uint8 { return c.SchemeID }),
					},
				},
			},
		},
		field("Finger Position", 2, nil, func(r fingerRecord) uint64 { return uint64(r.Representation.Position) }).
			and(func(r fingerRecord, in Input) bool {
				return Consistent(biometrics.Finger, in.Subtype, r.Representation.Position)
			}, func(_ fingerRecord, in Input) string {
				return describeSubtype(biometrics.Finger, in.Subtype)
			}),
		field("Representation Number", 2, Ranges{Between(0x00, 0x0F)},
			func(r fingerRecord) uint64 { return uint64(r.Representation.RepresentationNumber) }),
		field("Scale Units", 2, OneOf{0x01, 0x02}, func(r fingerRecord) uint64 { return uint64(r.Representation.ScaleUnits) }),
		field("Device Scan Spatial Sampling Rate Horizontal", 4, samplingRate,
			func(r fingerRecord) uint64 { return uint64(r.Representation.ScanSamplingRateH) }),
		field("Device Scan Spatial Sampling Rate Vertical", 4, samplingRate,
			func(r fingerRecord) uint64 { return uint64(r.Representation.ScanSamplingRateV) }),
		imageSamplingRule("Image Spatial Sampling Rate Horizontal",
			func(r fingerRecord) uint16 { return r.Representation.ScanSamplingRateH },
			func(r fingerRecord) uint16 { return r.Representation.ImageSamplingRateH }),
		imageSamplingRule("Image Spatial Sampling Rate Vertical",
			func(r fingerRecord) uint16 { return r.Representation.ScanSamplingRateV },
			func(r fingerRecord) uint16 { return r.Representation.ImageSamplingRateV }),
		field("Bit Depth", 2, Exact(0x08), func(r fingerRecord) uint64 { return uint64(r.Representation.BitDepth) }),
		field("Compression Type", 2, OneOf{iso.FingerCompressionWSQ, iso.FingerCompressionJPEG2000Lossy, iso.FingerCompressionJPEG2000Lossless},
			func(r fingerRecord) uint64 { return uint64(r.Representation.CompressionType) }),
		field("Impression Type", 2, Ranges{Between(0x00, 0x0F), Value(0x18), Value(0x1C), Value(0x1D)},
			func(r fingerRecord) uint64 { return uint64(r.Representation.ImpressionType) }),
		u16Field("Horizontal Line Length", func(r fingerRecord) uint16 { return r.Representation.Width }),
		u16Field("Vertical Line Length", func(r fingerRecord) uint16 { return r.Representation.Height }),
		imageLengthRule(
			func(r fingerRecord) uint32 { return r.Representation.ImageLength },
			func(r fingerRecord) []byte { return r.Representation.Image }),
	)

	return Table[fingerRecord]{
		Modality: biometrics.Finger,
		Standard: iso.FormatFinger.Standard(),
		Steps:    steps,
	}
}

// imageSamplingRule bounds an image sampling rate and caps it at the scan
// rate of the same axis.
func imageSamplingRule(name string, scan, image func(fingerRecord) uint16) *Rule[fingerRecord] {
	return field(name, 4, samplingRate, func(r fingerRecord) uint64 { return uint64(image(r)) }).
		and(func(r fingerRecord, _ Input) bool { return image(r) <= scan(r) },
			func(r fingerRecord, _ Input) string {
				return fmt.Sprintf("%s and less than or equal to the scan rate %s", samplingRate.Describe(4), hexValue(uint64(scan(r)), 4))
			})
}
