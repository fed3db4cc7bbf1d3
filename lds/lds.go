// Package lds extracts ISO biometric data blocks from ICAO 9303 logical
// data structure files (EF.DG2 face, EF.DG3 finger, EF.DG4 iris).
package lds

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gmrtd/gmrtd/tlv"

	"go-biometric-sdk/biometrics"
)

type tlvNode = tlv.TlvNode

// DataGroup identifies one of the biometric data groups.
type DataGroup int

const (
	DG2 DataGroup = 2
	DG3 DataGroup = 3
	DG4 DataGroup = 4
)

// Outer tags of the data groups.
const (
	tagDG2 = 0x75
	tagDG3 = 0x63
	tagDG4 = 0x76
)

// Biometric template tags, ISO/IEC 7816-11.
const (
	tagBIGT            = 0x7F61
	tagBICT            = 0x02
	tagBIT             = 0x7F60
	tagBHT             = 0xA1
	tagBiometricType   = 0x81
	tagBiometricSub    = 0x82
	tagFormatOwner     = 0x87
	tagFormatType      = 0x88
	tagBDB             = 0x5F2E
	tagBDBConstructed  = 0x7F2E
	tagSecureMessaging = 0x7D
)

// CBEFF biometric type values, ISO/IEC 19785-3.
const (
	cbeffFace   = 0x02
	cbeffFinger = 0x08
	cbeffIris   = 0x10
)

// ParseDataGroupName resolves "DG2", "DG3" or "DG4", case-insensitive.
func ParseDataGroupName(s string) (DataGroup, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DG2":
		return DG2, true
	case "DG3":
		return DG3, true
	case "DG4":
		return DG4, true
	}
	return 0, false
}

func (d DataGroup) String() string { return fmt.Sprintf("DG%d", int(d)) }

// Modality returns the modality stored in d.
func (d DataGroup) Modality() biometrics.Modality {
	switch d {
	case DG2:
		return biometrics.Face
	case DG3:
		return biometrics.Finger
	case DG4:
		return biometrics.Iris
	}
	return ""
}

// ParseDataGroup walks the biometric information templates of a DG2, DG3
// or DG4 file and returns one segment per template, in file order.
func ParseDataGroup(data []byte) (DataGroup, biometrics.Collection, error) {
	var coll biometrics.Collection
	if len(data) == 0 {
		return 0, coll, biometrics.NewError(biometrics.KindMissingInput, "data group is empty")
	}

	nodes, err := tlv.Decode(data)
	if err != nil {
		return 0, coll, biometrics.Wrap(biometrics.KindInvalidInputFormat, err, "failed to decode data group TLV")
	}

	var (
		dg    DataGroup
		outer = nodes.NodeByTag(tagDG2)
	)
	switch {
	case outer.IsValidNode():
		dg = DG2
	case nodes.NodeByTag(tagDG3).IsValidNode():
		dg, outer = DG3, nodes.NodeByTag(tagDG3)
	case nodes.NodeByTag(tagDG4).IsValidNode():
		dg, outer = DG4, nodes.NodeByTag(tagDG4)
	default:
		return 0, coll, biometrics.NewError(biometrics.KindInvalidInputFormat, "data group tag not one of 0x75, 0x63, 0x76")
	}

	bigt := outer.NodeByTag(tagBIGT)
	if !bigt.IsValidNode() {
		return dg, coll, biometrics.NewError(biometrics.KindInvalidInputFormat,
			fmt.Sprintf("%s: biometric information group template (0x7F61) not found", dg))
	}

	declared := -1
	if bict := bigt.NodeByTag(tagBICT); bict.IsValidNode() && len(bict.Value()) > 0 {
		declared = int(bict.Value()[0])
	}

	for i := 1; ; i++ {
		bit := bigt.NodeByTagOccur(tagBIT, i)
		if !bit.IsValidNode() {
			break
		}
		seg, err := readTemplate(dg, bit)
		if err != nil {
			return dg, biometrics.Collection{}, fmt.Errorf("%s template %d: %w", dg, i, err)
		}
		coll.Segments = append(coll.Segments, seg)
	}

	if declared >= 0 && declared != len(coll.Segments) {
		slog.Warn("Biometric template count mismatch", "data_group", dg.String(),
			"declared", declared, "found", len(coll.Segments))
	}
	if len(coll.Segments) == 0 {
		return dg, coll, biometrics.NewError(biometrics.KindBiometricNotFound,
			fmt.Sprintf("%s holds no biometric information template", dg))
	}

	slog.Debug("Data group parsed", "data_group", dg.String(), "templates", len(coll.Segments))
	return dg, coll, nil
}

func readTemplate(dg DataGroup, bit tlvNode) (biometrics.Segment, error) {
	if bit.NodeByTag(tagSecureMessaging).IsValidNode() {
		return biometrics.Segment{}, biometrics.NewError(biometrics.KindInvalidInputFormat,
			"template protected with secure messaging (0x7D) is not supported")
	}
	if bit.NodeByTag(tagBDBConstructed).IsValidNode() {
		return biometrics.Segment{}, biometrics.NewError(biometrics.KindInvalidInputFormat,
			"constructed biometric data block (0x7F2E) is not supported")
	}

	modality := dg.Modality()
	var (
		subtype byte
		meta    biometrics.Metadata
	)
	if bht := bit.NodeByTag(tagBHT); bht.IsValidNode() {
		if n := bht.NodeByTag(tagBiometricType); n.IsValidNode() {
			m, err := cbeffModality(n.Value())
			if err != nil {
				return biometrics.Segment{}, err
			}
			if m != modality {
				return biometrics.Segment{}, biometrics.NewError(biometrics.KindInvalidInputFormat,
					fmt.Sprintf("biometric type %s does not belong in %s", m, dg))
			}
		}
		if n := bht.NodeByTag(tagBiometricSub); n.IsValidNode() && len(n.Value()) > 0 {
			subtype = n.Value()[0]
		}
		meta.FormatOwner = be16(bht.NodeByTag(tagFormatOwner))
		meta.FormatType = be16(bht.NodeByTag(tagFormatType))
	}

	bdb := bit.NodeByTag(tagBDB)
	if !bdb.IsValidNode() {
		return biometrics.Segment{}, biometrics.NewError(biometrics.KindBiometricNotFound,
			"biometric data block (0x5F2E) not found")
	}

	return biometrics.Segment{
		Modalities: []biometrics.Modality{modality},
		Purpose:    biometrics.PurposeVerify,
		Subtypes:   SubtypeTokens(modality, subtype),
		Payload:    append([]byte(nil), bdb.Value()...),
		Metadata:   meta,
	}, nil
}

func cbeffModality(v []byte) (biometrics.Modality, error) {
	var t uint32
	for _, b := range v {
		t = t<<8 | uint32(b)
	}
	switch t {
	case cbeffFace:
		return biometrics.Face, nil
	case cbeffFinger:
		return biometrics.Finger, nil
	case cbeffIris:
		return biometrics.Iris, nil
	}
	return "", biometrics.NewError(biometrics.KindInvalidInputFormat,
		fmt.Sprintf("unsupported CBEFF biometric type 0x%X", t))
}

func be16(n tlvNode) uint16 {
	if !n.IsValidNode() || len(n.Value()) != 2 {
		return 0
	}
	return binary.BigEndian.Uint16(n.Value())
}

// Biometric subtype bit field, ISO/IEC 19785-3.
const (
	subRight = 0x01
	subLeft  = 0x02

	subFingerMask = 0x1C
	subThumb      = 0x04
	subIndex      = 0x08
	subMiddle     = 0x0C
	subRing       = 0x10
	subLittle     = 0x14
)

var fingerNames = map[byte]string{
	subThumb:  "Thumb",
	subIndex:  "IndexFinger",
	subMiddle: "MiddleFinger",
	subRing:   "RingFinger",
	subLittle: "LittleFinger",
}

// SubtypeTokens maps a CBEFF subtype bit field onto subtype tokens that
// join into one of the closed subtype labels. Anything incomplete maps to
// UNKNOWN; face carries no subtype.
func SubtypeTokens(m biometrics.Modality, bits byte) []string {
	var side string
	switch bits & 0x03 {
	case subRight:
		side = "Right"
	case subLeft:
		side = "Left"
	}

	switch m {
	case biometrics.Iris:
		if side == "" {
			return []string{biometrics.SubtypeUnknown}
		}
		return []string{side}
	case biometrics.Finger:
		name, ok := fingerNames[bits&subFingerMask]
		if side == "" || !ok {
			return []string{biometrics.SubtypeUnknown}
		}
		return []string{side, name}
	}
	return nil
}
