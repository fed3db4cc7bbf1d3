package iso

import "time"

// Format identifiers and version numbers as they appear on the wire.
const (
	FingerFormatID = 0x46495200 // "FIR\0"
	FaceFormatID   = 0x46414300 // "FAC\0"
	IrisFormatID   = 0x49495200 // "IIR\0"

	FingerVersion = 0x30323000 // "020\0"
	FaceVersion   = 0x30333000 // "030\0"
	IrisVersion   = 0x30323000 // "020\0"
)

const (
	qualityBlockLen       = 5
	certificationBlockLen = 3
	landmarkPointLen      = 8
)

// GeneralHeader holds the fields every 2011 record starts with.
type GeneralHeader struct {
	FormatID           uint32
	Version            uint32
	RecordLength       uint32
	NumRepresentations uint16
	CertificationFlag  uint8
}

func readGeneralHeader(r *reader) GeneralHeader {
	return GeneralHeader{
		FormatID:           r.u32("format identifier"),
		Version:            r.u32("version number"),
		RecordLength:       r.u32("record length"),
		NumRepresentations: r.u16("number of representations"),
		CertificationFlag:  r.u8("certification flag"),
	}
}

func (h GeneralHeader) write(w *writer) {
	w.u32(h.FormatID)
	w.u32(h.Version)
	w.u32(h.RecordLength)
	w.u16(h.NumRepresentations)
	w.u8(h.CertificationFlag)
}

// DateTime is the 9-byte capture timestamp of a representation.
type DateTime struct {
	Year        uint16
	Month       uint8
	Day         uint8
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
}

// NewDateTime converts t (in UTC) to the record timestamp layout.
func NewDateTime(t time.Time) DateTime {
	t = t.UTC()
	return DateTime{
		Year:        uint16(t.Year()),
		Month:       uint8(t.Month()),
		Day:         uint8(t.Day()),
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Millisecond: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
}

// Unreported reports whether every byte of the timestamp is 0xFF, which
// the standard uses for "not recorded".
func (d DateTime) Unreported() bool {
	return d.Year == 0xFFFF && d.Month == 0xFF && d.Day == 0xFF && d.Hour == 0xFF &&
		d.Minute == 0xFF && d.Second == 0xFF && d.Millisecond == 0xFFFF
}

// Time returns the timestamp as a UTC time and whether it names a real
// instant.
func (d DateTime) Time() (time.Time, bool) {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Hour > 23 || d.Minute > 59 ||
		d.Second > 59 || d.Millisecond > 999 {
		return time.Time{}, false
	}
	t := time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(d.Hour), int(d.Minute),
		int(d.Second), int(d.Millisecond)*int(time.Millisecond), time.UTC)
	if t.Day() != int(d.Day) {
		return time.Time{}, false
	}
	return t, true
}

func readDateTime(r *reader) DateTime {
	return DateTime{
		Year:        r.u16("capture year"),
		Month:       r.u8("capture month"),
		Day:         r.u8("capture day"),
		Hour:        r.u8("capture hour"),
		Minute:      r.u8("capture minute"),
		Second:      r.u8("capture second"),
		Millisecond: r.u16("capture millisecond"),
	}
}

func (d DateTime) write(w *writer) {
	w.u16(d.Year)
	w.u8(d.Month)
	w.u8(d.Day)
	w.u8(d.Hour)
	w.u8(d.Minute)
	w.u8(d.Second)
	w.u16(d.Millisecond)
}

// QualityBlock is one 5-byte quality record.
type QualityBlock struct {
	Score             uint8
	AlgorithmVendorID uint16
	AlgorithmID       uint16
}

// CertificationBlock is one 3-byte certification record (finger only).
type CertificationBlock struct {
	AuthorityID uint16
	SchemeID    uint8
}

// RepresentationHeader holds the leading fields shared by every
// representation.
type RepresentationHeader struct {
	Length            uint32
	CaptureDateTime   DateTime
	DeviceTechnology  uint8
	DeviceVendorID    uint16
	DeviceTypeID      uint16
	QualityBlockCount uint8
	QualityBlocks     []QualityBlock
}

func readRepresentationHeader(r *reader) RepresentationHeader {
	h := RepresentationHeader{
		Length:            r.u32("representation length"),
		CaptureDateTime:   readDateTime(r),
		DeviceTechnology:  r.u8("capture device technology identifier"),
		DeviceVendorID:    r.u16("capture device vendor identifier"),
		DeviceTypeID:      r.u16("capture device type identifier"),
		QualityBlockCount: r.u8("number of quality blocks"),
	}
	for i := 0; i < int(h.QualityBlockCount) && r.err == nil; i++ {
		h.QualityBlocks = append(h.QualityBlocks, QualityBlock{
			Score:             r.u8("quality score"),
			AlgorithmVendorID: r.u16("quality algorithm vendor identifier"),
			AlgorithmID:       r.u16("quality algorithm identifier"),
		})
	}
	return h
}

func (h RepresentationHeader) write(w *writer) {
	w.u32(h.Length)
	h.CaptureDateTime.write(w)
	w.u8(h.DeviceTechnology)
	w.u16(h.DeviceVendorID)
	w.u16(h.DeviceTypeID)
	w.u8(h.QualityBlockCount)
	for _, q := range h.QualityBlocks {
		w.u8(q.Score)
		w.u16(q.AlgorithmVendorID)
		w.u16(q.AlgorithmID)
	}
}
