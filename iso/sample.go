package iso

import "time"

var sampleCaptureTime = time.Date(2024, time.March, 14, 9, 26, 53, 589*int(time.Millisecond), time.UTC)

// NewFingerSample returns a finger record whose fields all sit inside the
// ranges of the 2011 standard, wrapping image with the given compression.
func NewFingerSample(position, compression uint8, image []byte) *FingerRecord {
	return &FingerRecord{
		GeneralHeader: GeneralHeader{
			FormatID:           FingerFormatID,
			Version:            FingerVersion,
			NumRepresentations: 1,
		},
		FingerCount: 1,
		Representation: FingerRepresentation{
			RepresentationHeader: RepresentationHeader{
				CaptureDateTime:  NewDateTime(sampleCaptureTime),
				DeviceTechnology: 0x09,
				DeviceVendorID:   0x0032,
				DeviceTypeID:     0x0001,
				QualityBlocks:    []QualityBlock{{Score: 0x50, AlgorithmVendorID: 0x0032, AlgorithmID: 0x0001}},
			},
			Position:           position,
			ScaleUnits:         0x01,
			ScanSamplingRateH:  0x01F4,
			ScanSamplingRateV:  0x01F4,
			ImageSamplingRateH: 0x01F4,
			ImageSamplingRateV: 0x01F4,
			BitDepth:           0x08,
			CompressionType:    compression,
			ImpressionType:     0x00,
			Width:              0x0100,
			Height:             0x0168,
			Image:              image,
		},
	}
}

// NewFaceSample returns a face record whose fields all sit inside the
// ranges of the 2011 standard, wrapping image with the given data type.
func NewFaceSample(dataType uint8, image []byte) *FaceRecord {
	return &FaceRecord{
		GeneralHeader: GeneralHeader{
			FormatID:           FaceFormatID,
			Version:            FaceVersion,
			NumRepresentations: 1,
		},
		Representation: FaceRepresentation{
			RepresentationHeader: RepresentationHeader{
				CaptureDateTime:  NewDateTime(sampleCaptureTime),
				DeviceTechnology: 0x01,
				DeviceVendorID:   0x0032,
				DeviceTypeID:     0x0001,
				QualityBlocks:    []QualityBlock{{Score: 0x46, AlgorithmVendorID: 0x0032, AlgorithmID: 0x0002}},
			},
			Gender:         0x01,
			EyeColour:      0x02,
			HairColour:     0x03,
			SubjectHeight:  0xAA,
			PropertyMask:   0x000001,
			ExpressionMask: 0x0001,
			LandmarkPoints: []LandmarkPoint{
				{Type: 0x01, Code: 0x41, X: 0x0064, Y: 0x0082},
				{Type: 0x01, Code: 0x42, X: 0x00C8, Y: 0x0082},
			},
			FaceImageType:            0x01,
			ImageDataType:            dataType,
			Width:                    0x01E0,
			Height:                   0x0280,
			SpatialSamplingRateLevel: 0x02,
			ColourSpace:              FaceColourSpace24BitRGB,
			Image:                    image,
		},
	}
}

// NewIrisSample returns an iris record whose fields all sit inside the
// ranges of the 2011 standard, wrapping image with the given eye label and
// image format.
func NewIrisSample(eye, format uint8, image []byte) *IrisRecord {
	return &IrisRecord{
		GeneralHeader: GeneralHeader{
			FormatID:           IrisFormatID,
			Version:            IrisVersion,
			NumRepresentations: 1,
		},
		EyeCount: 1,
		Representation: IrisRepresentation{
			RepresentationHeader: RepresentationHeader{
				CaptureDateTime:  NewDateTime(sampleCaptureTime),
				DeviceTechnology: 0x01,
				DeviceVendorID:   0x0032,
				DeviceTypeID:     0x0003,
				QualityBlocks:    []QualityBlock{{Score: 0x3C, AlgorithmVendorID: 0x0032, AlgorithmID: 0x0003}},
			},
			RepresentationNumber: 0x0001,
			EyeLabel:             eye,
			ImageType:            IrisImageTypeCroppedAndMasked,
			ImageFormat:          format,
			ImageProperties:      IrisImageProperties(0x01, 0x01, 0x01),
			Width:                0x0280,
			Height:               0x01E0,
			BitDepth:             0x08,
			Range:                0x0000,
			RollAngle:            0xFFFF,
			RollAngleUncertainty: 0xFFFF,
			IrisCentreSmallestX:  0x0140,
			IrisCentreLargestX:   0x0150,
			IrisCentreSmallestY:  0x00F0,
			IrisCentreLargestY:   0x0100,
			IrisDiameterSmallest: 0x00C8,
			IrisDiameterLargest:  0x00D2,
			Image:                image,
		},
	}
}
