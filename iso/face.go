package iso

import (
	"fmt"

	"go-biometric-sdk/biometrics"
)

// Face image data types (ISO/IEC 19794-5:2011 table 14).
const (
	FaceImageDataJPEG             = 0x00
	FaceImageDataJPEG2000Lossy    = 0x01
	FaceImageDataJPEG2000Lossless = 0x02
	FaceImageDataPNG              = 0x03
)

// FaceColourSpace24BitRGB is the only colour space the SDK accepts.
const FaceColourSpace24BitRGB = 0x01

const faceGeneralHeaderLen = 17

// FaceRecord is a decoded ISO/IEC 19794-5:2011 face image record. Only the
// first representation is decoded.
type FaceRecord struct {
	GeneralHeader
	TemporalSemantics uint16
	Representation    FaceRepresentation
}

// PoseAngle holds yaw, pitch and roll as encoded on the wire.
type PoseAngle struct {
	Yaw   uint8
	Pitch uint8
	Roll  uint8
}

// LandmarkPoint is one 8-byte facial landmark.
type LandmarkPoint struct {
	Type uint8
	Code uint8
	X    uint16
	Y    uint16
	Z    uint16
}

// FaceRepresentation is one face image representation.
type FaceRepresentation struct {
	RepresentationHeader
	LandmarkCount             uint16
	Gender                    uint8
	EyeColour                 uint8
	HairColour                uint8
	SubjectHeight             uint8
	PropertyMask              uint32
	ExpressionMask            uint16
	PoseAngle                 PoseAngle
	PoseAngleUncertainty      PoseAngle
	LandmarkPoints            []LandmarkPoint
	FaceImageType             uint8
	ImageDataType             uint8
	Width                     uint16
	Height                    uint16
	SpatialSamplingRateLevel  uint8
	PostAcquisitionProcessing uint16
	CrossReference            uint8
	ColourSpace               uint8
	ImageLength               uint32
	Image                     []byte
}

func (r *FaceRecord) Modality() biometrics.Modality { return biometrics.Face }
func (r *FaceRecord) ImageTag() uint8               { return r.Representation.ImageDataType }
func (r *FaceRecord) ImageData() []byte             { return r.Representation.Image }

func readPose(r *reader, field string) PoseAngle {
	return PoseAngle{Yaw: r.u8(field + " yaw"), Pitch: r.u8(field + " pitch"), Roll: r.u8(field + " roll")}
}

func (p PoseAngle) write(w *writer) {
	w.u8(p.Yaw)
	w.u8(p.Pitch)
	w.u8(p.Roll)
}

// DecodeFace parses a face image record.
func DecodeFace(data []byte) (*FaceRecord, error) {
	r := newReader(data)
	rec := &FaceRecord{
		GeneralHeader:     readGeneralHeader(r),
		TemporalSemantics: r.u16("temporal semantics"),
	}

	rep := FaceRepresentation{RepresentationHeader: readRepresentationHeader(r)}
	rep.LandmarkCount = r.u16("number of landmark points")
	rep.Gender = r.u8("gender")
	rep.EyeColour = r.u8("eye colour")
	rep.HairColour = r.u8("hair colour")
	rep.SubjectHeight = r.u8("subject height")
	rep.PropertyMask = r.u24("property mask")
	rep.ExpressionMask = r.u16("expression mask")
	rep.PoseAngle = readPose(r, "pose angle")
	rep.PoseAngleUncertainty = readPose(r, "pose angle uncertainty")
	for i := 0; i < int(rep.LandmarkCount) && r.err == nil; i++ {
		rep.LandmarkPoints = append(rep.LandmarkPoints, LandmarkPoint{
			Type: r.u8("landmark point type"),
			Code: r.u8("landmark point code"),
			X:    r.u16("landmark x coordinate"),
			Y:    r.u16("landmark y coordinate"),
			Z:    r.u16("landmark z coordinate"),
		})
	}
	rep.FaceImageType = r.u8("face image type")
	rep.ImageDataType = r.u8("image data type")
	rep.Width = r.u16("width")
	rep.Height = r.u16("height")
	rep.SpatialSamplingRateLevel = r.u8("spatial sampling rate level")
	rep.PostAcquisitionProcessing = r.u16("post-acquisition processing")
	rep.CrossReference = r.u8("cross reference")
	rep.ColourSpace = r.u8("image colour space")
	rep.ImageLength = r.u32("image data length")
	rep.Image = r.rest(rep.ImageLength)

	if r.err != nil {
		return nil, fmt.Errorf("failed to decode face record: %w", r.err)
	}
	rec.Representation = rep
	return rec, nil
}

// Marshal writes the record exactly as its fields describe it.
func (r *FaceRecord) Marshal() []byte {
	w := &writer{}
	r.GeneralHeader.write(w)
	w.u16(r.TemporalSemantics)

	rep := r.Representation
	rep.RepresentationHeader.write(w)
	w.u16(rep.LandmarkCount)
	w.u8(rep.Gender)
	w.u8(rep.EyeColour)
	w.u8(rep.HairColour)
	w.u8(rep.SubjectHeight)
	w.u24(rep.PropertyMask)
	w.u16(rep.ExpressionMask)
	rep.PoseAngle.write(w)
	rep.PoseAngleUncertainty.write(w)
	for _, p := range rep.LandmarkPoints {
		w.u8(p.Type)
		w.u8(p.Code)
		w.u16(p.X)
		w.u16(p.Y)
		w.u16(p.Z)
	}
	w.u8(rep.FaceImageType)
	w.u8(rep.ImageDataType)
	w.u16(rep.Width)
	w.u16(rep.Height)
	w.u8(rep.SpatialSamplingRateLevel)
	w.u16(rep.PostAcquisitionProcessing)
	w.u8(rep.CrossReference)
	w.u8(rep.ColourSpace)
	w.u32(rep.ImageLength)
	w.raw(rep.Image)
	return w.b
}

// Encode fills in the block counts and the record, representation and
// image lengths from the record content, then marshals it.
func (r *FaceRecord) Encode() []byte {
	rep := &r.Representation
	rep.QualityBlockCount = uint8(len(rep.QualityBlocks))
	rep.LandmarkCount = uint16(len(rep.LandmarkPoints))
	rep.ImageLength = uint32(len(rep.Image))

	b := r.Marshal()
	rep.Length = uint32(len(b) - faceGeneralHeaderLen)
	r.RecordLength = uint32(len(b))

	w := &writer{b: b}
	w.putU32(8, r.RecordLength)
	w.putU32(faceGeneralHeaderLen, rep.Length)
	return w.b
}
