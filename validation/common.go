package validation

import (
	"fmt"

	"go-biometric-sdk/iso"
)

const (
	maxU8  = 0xFF
	maxU16 = 0xFFFF
	maxU24 = 0xFFFFFF
	maxU32 = 0xFFFFFFFF

	maxRepresentationLength = 0xFFFFFFEF
)

// headerSteps covers the general header fields shared by every modality.
func headerSteps[T any](gh func(T) *iso.GeneralHeader, formatID, version uint32, minRecordLength uint64) []Step[T] {
	return []Step[T]{
		field("Format Identifier", 8, Exact(formatID), func(r T) uint64 { return uint64(gh(r).FormatID) }),
		field("Version Number", 8, Exact(version), func(r T) uint64 { return uint64(gh(r).Version) }),
		field("No Of Representations", 4, Exact(0x0001), func(r T) uint64 { return uint64(gh(r).NumRepresentations) }),
		recordLengthRule(gh, minRecordLength),
	}
}

func recordLengthRule[T any](gh func(T) *iso.GeneralHeader, minLen uint64) *Rule[T] {
	bounds := Ranges{Between(minLen, maxU32)}
	return field("Record Length", 8, bounds, func(r T) uint64 { return uint64(gh(r).RecordLength) }).
		and(func(r T, in Input) bool { return uint64(gh(r).RecordLength) == uint64(in.ByteLength) },
			func(_ T, in Input) string {
				return fmt.Sprintf("%s and equal to the record byte length %s", bounds.Describe(8), hexValue(uint64(in.ByteLength), 8))
			})
}

func representationLengthRule[T any](rh func(T) *iso.RepresentationHeader, minLen uint64) *Rule[T] {
	return field("Representation Length", 8, Ranges{Between(minLen, maxRepresentationLength)},
		func(r T) uint64 { return uint64(rh(r).Length) })
}

// captureTimeRule is inert unless the input enables capture time checks.
func captureTimeRule[T any](rh func(T) *iso.RepresentationHeader) *Rule[T] {
	return &Rule[T]{
		Field: "Capture Date Time",
		Width: 4,
		Value: func(r T) uint64 { return uint64(rh(r).CaptureDateTime.Year) },
		Verify: func(r T, in Input) bool {
			if !in.CheckCaptureTime {
				return true
			}
			dt := rh(r).CaptureDateTime
			_, ok := dt.Time()
			return ok || dt.Unreported()
		},
		Expected: func(T, Input) string { return "[a valid UTC date and time or all 0xFF]" },
		Observed: func(r T) string {
			dt := rh(r).CaptureDateTime
			return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
				dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Millisecond)
		},
	}
}

// deviceSteps covers vendor and type identifiers. A device type is only
// meaningful under a known vendor, so vendor 0 requires type 0.
func deviceSteps[T any](rh func(T) *iso.RepresentationHeader) []Step[T] {
	typeBounds := Ranges{Between(0, maxU16)}
	return []Step[T]{
		field("Capture Device Vendor Identifier", 4, Ranges{Between(0, maxU16)},
			func(r T) uint64 { return uint64(rh(r).DeviceVendorID) }),
		field("Capture Device Type Identifier", 4, typeBounds,
			func(r T) uint64 { return uint64(rh(r).DeviceTypeID) }).
			and(func(r T, _ Input) bool { return rh(r).DeviceVendorID != 0 || rh(r).DeviceTypeID == 0 },
				func(T, Input) string {
					return typeBounds.Describe(4) + " and 0x0000 when the vendor identifier is 0x0000"
				}),
	}
}

// qualitySteps covers the quality block count and every quality block.
func qualitySteps[T any](rh func(T) *iso.RepresentationHeader, score Check) []Step[T] {
	return []Step[T]{
		field("No Of Quality Blocks", 2, Ranges{Between(0, maxU8)},
			func(r T) uint64 { return uint64(rh(r).QualityBlockCount) }),
		group[T, iso.QualityBlock]{
			name:     "Quality Block",
			width:    2,
			declared: func(r T) uint64 { return uint64(rh(r).QualityBlockCount) },
			items:    func(r T) []iso.QualityBlock { return rh(r).QualityBlocks },
			rules: []Step[iso.QualityBlock]{
				field("Quality Score", 2, score, func(q iso.QualityBlock) uint64 { return uint64(q.Score) }),
				field("Quality Algorithm Vendor Identifier", 4, Ranges{Between(0, maxU16)},
					func(q iso.QualityBlock) uint64 { return uint64(q.AlgorithmVendorID) }),
				field("Quality Algorithm Identifier", 4, Ranges{Between(0, maxU16)},
					func(q iso.QualityBlock) uint64 { return uint64(q.AlgorithmID) }),
			},
		},
	}
}

// imageLengthRule ties the declared image length to the bytes present.
func imageLengthRule[T any](declared func(T) uint32, image func(T) []byte) *Rule[T] {
	bounds := Ranges{Between(1, maxU32)}
	return field("Image Data Length", 8, bounds, func(r T) uint64 { return uint64(declared(r)) }).
		and(func(r T, _ Input) bool { return uint64(declared(r)) == uint64(len(image(r))) },
			func(r T, _ Input) string {
				return fmt.Sprintf("%s and equal to the image byte count %s", bounds.Describe(8), hexValue(uint64(len(image(r))), 8))
			})
}

// u16Field is a 16-bit field whose full range is valid.
func u16Field[T any](name string, value func(T) uint16) *Rule[T] {
	return field(name, 4, Ranges{Between(0, maxU16)}, func(r T) uint64 { return uint64(value(r)) })
}

// u8Field is an 8-bit field whose full range is valid.
func u8Field[T any](name string, value func(T) uint8) *Rule[T] {
	return field(name, 2, Ranges{Between(0, maxU8)}, func(r T) uint64 { return uint64(value(r)) })
}
