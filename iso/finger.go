package iso

import (
	"fmt"

	"go-biometric-sdk/biometrics"
)

// Finger compression types (ISO/IEC 19794-4:2011 table 5).
const (
	FingerCompressionNone             = 0x00
	FingerCompressionNoneBitPacked    = 0x01
	FingerCompressionWSQ              = 0x02
	FingerCompressionJPEG             = 0x03
	FingerCompressionJPEG2000Lossy    = 0x04
	FingerCompressionJPEG2000Lossless = 0x05
	FingerCompressionPNG              = 0x06
)

const fingerGeneralHeaderLen = 16

// FingerRecord is a decoded ISO/IEC 19794-4:2011 finger image record.
// Only the first representation is decoded.
type FingerRecord struct {
	GeneralHeader
	FingerCount    uint8
	Representation FingerRepresentation
}

// FingerRepresentation is one finger image representation.
type FingerRepresentation struct {
	RepresentationHeader
	CertificationBlockCount uint8
	CertificationBlocks     []CertificationBlock
	Position                uint8
	RepresentationNumber    uint8
	ScaleUnits              uint8
	ScanSamplingRateH       uint16
	ScanSamplingRateV       uint16
	ImageSamplingRateH      uint16
	ImageSamplingRateV      uint16
	BitDepth                uint8
	CompressionType         uint8
	ImpressionType          uint8
	Width                   uint16
	Height                  uint16
	ImageLength             uint32
	Image                   []byte
}

func (r *FingerRecord) Modality() biometrics.Modality { return biometrics.Finger }
func (r *FingerRecord) ImageTag() uint8               { return r.Representation.CompressionType }
func (r *FingerRecord) ImageData() []byte             { return r.Representation.Image }

// DecodeFinger parses a finger image record.
func DecodeFinger(data []byte) (*FingerRecord, error) {
	r := newReader(data)
	rec := &FingerRecord{
		GeneralHeader: readGeneralHeader(r),
		FingerCount:   r.u8("number of finger positions"),
	}

	rep := FingerRepresentation{RepresentationHeader: readRepresentationHeader(r)}
	if rec.CertificationFlag == 0x01 {
		rep.CertificationBlockCount = r.u8("number of certification blocks")
		for i := 0; i < int(rep.CertificationBlockCount) && r.err == nil; i++ {
			rep.CertificationBlocks = append(rep.CertificationBlocks, CertificationBlock{
				AuthorityID: r.u16("certification authority identifier"),
				SchemeID:    r.u8("certification scheme identifier"),
			})
		}
	}
	rep.Position = r.u8("finger position")
	rep.RepresentationNumber = r.u8("representation number")
	rep.ScaleUnits = r.u8("scale units")
	rep.ScanSamplingRateH = r.u16("scan spatial sampling rate horizontal")
	rep.ScanSamplingRateV = r.u16("scan spatial sampling rate vertical")
	rep.ImageSamplingRateH = r.u16("image spatial sampling rate horizontal")
	rep.ImageSamplingRateV = r.u16("image spatial sampling rate vertical")
	rep.BitDepth = r.u8("bit depth")
	rep.CompressionType = r.u8("compression type")
	rep.ImpressionType = r.u8("impression type")
	rep.Width = r.u16("horizontal line length")
	rep.Height = r.u16("vertical line length")
	rep.ImageLength = r.u32("image data length")
	rep.Image = r.rest(rep.ImageLength)

	if r.err != nil {
		return nil, fmt.Errorf("failed to decode finger record: %w", r.err)
	}
	rec.Representation = rep
	return rec, nil
}

// Marshal writes the record exactly as its fields describe it.
func (r *FingerRecord) Marshal() []byte {
	w := &writer{}
	r.GeneralHeader.write(w)
	w.u8(r.FingerCount)

	rep := r.Representation
	rep.RepresentationHeader.write(w)
	if r.CertificationFlag == 0x01 {
		w.u8(rep.CertificationBlockCount)
		for _, c := range rep.CertificationBlocks {
			w.u16(c.AuthorityID)
			w.u8(c.SchemeID)
		}
	}
	w.u8(rep.Position)
	w.u8(rep.RepresentationNumber)
	w.u8(rep.ScaleUnits)
	w.u16(rep.ScanSamplingRateH)
	w.u16(rep.ScanSamplingRateV)
	w.u16(rep.ImageSamplingRateH)
	w.u16(rep.ImageSamplingRateV)
	w.u8(rep.BitDepth)
	w.u8(rep.CompressionType)
	w.u8(rep.ImpressionType)
	w.u16(rep.Width)
	w.u16(rep.Height)
	w.u32(rep.ImageLength)
	w.raw(rep.Image)
	return w.b
}

// Encode fills in the block counts and the record, representation and
// image lengths from the record content, then marshals it.
func (r *FingerRecord) Encode() []byte {
	rep := &r.Representation
	rep.QualityBlockCount = uint8(len(rep.QualityBlocks))
	rep.CertificationBlockCount = uint8(len(rep.CertificationBlocks))
	rep.ImageLength = uint32(len(rep.Image))

	b := r.Marshal()
	rep.Length = uint32(len(b) - fingerGeneralHeaderLen)
	r.RecordLength = uint32(len(b))

	w := &writer{b: b}
	w.putU32(8, r.RecordLength)
	w.putU32(fingerGeneralHeaderLen, rep.Length)
	return w.b
}
