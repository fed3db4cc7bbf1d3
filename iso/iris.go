package iso

import (
	"fmt"

	"go-biometric-sdk/biometrics"
)

// Iris image formats (ISO/IEC 19794-6:2011 table 4).
const (
	IrisImageFormatMonoRaw      = 0x02
	IrisImageFormatMonoJPEG     = 0x06
	IrisImageFormatMonoJPEGLS   = 0x08
	IrisImageFormatMonoJPEG2000 = 0x0A
	IrisImageFormatMonoPNG      = 0x0E
)

// Iris image types.
const (
	IrisImageTypeUncropped        = 0x01
	IrisImageTypeVGA              = 0x02
	IrisImageTypeCropped          = 0x03
	IrisImageTypeCroppedAndMasked = 0x07
)

// Eye labels.
const (
	EyeUndefined = 0x00
	EyeRight     = 0x01
	EyeLeft      = 0x02
)

const irisGeneralHeaderLen = 16

// IrisRecord is a decoded ISO/IEC 19794-6:2011 iris image record. Only the
// first representation is decoded.
type IrisRecord struct {
	GeneralHeader
	EyeCount       uint8
	Representation IrisRepresentation
}

// IrisRepresentation is one iris image representation.
type IrisRepresentation struct {
	RepresentationHeader
	RepresentationNumber uint16
	EyeLabel             uint8
	ImageType            uint8
	ImageFormat          uint8
	ImageProperties      uint8
	Width                uint16
	Height               uint16
	BitDepth             uint8
	Range                uint16
	RollAngle            uint16
	RollAngleUncertainty uint16
	IrisCentreSmallestX  uint16
	IrisCentreLargestX   uint16
	IrisCentreSmallestY  uint16
	IrisCentreLargestY   uint16
	IrisDiameterSmallest uint16
	IrisDiameterLargest  uint16
	ImageLength          uint32
	Image                []byte
}

// HorizontalOrientation is bits 0-1 of the image properties.
func (r IrisRepresentation) HorizontalOrientation() uint8 { return r.ImageProperties & 0x03 }

// VerticalOrientation is bits 2-3 of the image properties.
func (r IrisRepresentation) VerticalOrientation() uint8 { return (r.ImageProperties >> 2) & 0x03 }

// CompressionHistory is bits 4-5 of the image properties.
func (r IrisRepresentation) CompressionHistory() uint8 { return (r.ImageProperties >> 4) & 0x03 }

// IrisImageProperties packs orientation and compression history into the
// image properties byte.
func IrisImageProperties(horizontal, vertical, compression uint8) uint8 {
	return horizontal&0x03 | (vertical&0x03)<<2 | (compression&0x03)<<4
}

func (r *IrisRecord) Modality() biometrics.Modality { return biometrics.Iris }
func (r *IrisRecord) ImageTag() uint8               { return r.Representation.ImageFormat }
func (r *IrisRecord) ImageData() []byte             { return r.Representation.Image }

// DecodeIris parses an iris image record.
func DecodeIris(data []byte) (*IrisRecord, error) {
	r := newReader(data)
	rec := &IrisRecord{
		GeneralHeader: readGeneralHeader(r),
		EyeCount:      r.u8("number of eyes represented"),
	}

	rep := IrisRepresentation{RepresentationHeader: readRepresentationHeader(r)}
	rep.RepresentationNumber = r.u16("representation number")
	rep.EyeLabel = r.u8("eye label")
	rep.ImageType = r.u8("image type")
	rep.ImageFormat = r.u8("image format")
	rep.ImageProperties = r.u8("image properties")
	rep.Width = r.u16("width")
	rep.Height = r.u16("height")
	rep.BitDepth = r.u8("bit depth")
	rep.Range = r.u16("range")
	rep.RollAngle = r.u16("roll angle of eye")
	rep.RollAngleUncertainty = r.u16("roll angle uncertainty")
	rep.IrisCentreSmallestX = r.u16("iris centre smallest x")
	rep.IrisCentreLargestX = r.u16("iris centre largest x")
	rep.IrisCentreSmallestY = r.u16("iris centre smallest y")
	rep.IrisCentreLargestY = r.u16("iris centre largest y")
	rep.IrisDiameterSmallest = r.u16("iris diameter smallest")
	rep.IrisDiameterLargest = r.u16("iris diameter largest")
	rep.ImageLength = r.u32("image data length")
	rep.Image = r.rest(rep.ImageLength)

	if r.err != nil {
		return nil, fmt.Errorf("failed to decode iris record: %w", r.err)
	}
	rec.Representation = rep
	return rec, nil
}

// Marshal writes the record exactly as its fields describe it.
func (r *IrisRecord) Marshal() []byte {
	w := &writer{}
	r.GeneralHeader.write(w)
	w.u8(r.EyeCount)

	rep := r.Representation
	rep.RepresentationHeader.write(w)
	w.u16(rep.RepresentationNumber)
	w.u8(rep.EyeLabel)
	w.u8(rep.ImageType)
	w.u8(rep.ImageFormat)
	w.u8(rep.ImageProperties)
	w.u16(rep.Width)
	w.u16(rep.Height)
	w.u8(rep.BitDepth)
	w.u16(rep.Range)
	w.u16(rep.RollAngle)
	w.u16(rep.RollAngleUncertainty)
	w.u16(rep.IrisCentreSmallestX)
	w.u16(rep.IrisCentreLargestX)
	w.u16(rep.IrisCentreSmallestY)
	w.u16(rep.IrisCentreLargestY)
	w.u16(rep.IrisDiameterSmallest)
	w.u16(rep.IrisDiameterLargest)
	w.u32(rep.ImageLength)
	w.raw(rep.Image)
	return w.b
}

// Encode fills in the block count and the record, representation and
// image lengths from the record content, then marshals it.
func (r *IrisRecord) Encode() []byte {
	rep := &r.Representation
	rep.QualityBlockCount = uint8(len(rep.QualityBlocks))
	rep.ImageLength = uint32(len(rep.Image))

	b := r.Marshal()
	rep.Length = uint32(len(b) - irisGeneralHeaderLen)
	r.RecordLength = uint32(len(b))

	w := &writer{b: b}
	w.putU32(8, r.RecordLength)
	w.putU32(irisGeneralHeaderLen, rep.Length)
	return w.b
}
