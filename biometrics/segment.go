package biometrics

import "time"

// Metadata is the descriptive header carried next to a biometric payload.
type Metadata struct {
	FormatOwner  uint16
	FormatType   uint16
	CreationDate time.Time
	Quality      int
	// ContentType is set once the payload has been converted to a plain
	// image, e.g. "image/png".
	ContentType string
}

// Segment is one biometric data block together with its container header.
type Segment struct {
	Modalities []Modality
	Purpose    Purpose
	Subtypes   []string
	Payload    []byte
	Metadata   Metadata
}

// Modality returns the first modality tag, or "" when the segment has none.
func (s Segment) Modality() Modality {
	if len(s.Modalities) == 0 {
		return ""
	}
	return s.Modalities[0]
}

// Subtype returns the joined subtype label of s.
func (s Segment) Subtype() string {
	return JoinSubtype(s.Subtypes)
}

// WithPayload returns a copy of s carrying payload.
func (s Segment) WithPayload(payload []byte) Segment {
	c := s
	c.Modalities = append([]Modality(nil), s.Modalities...)
	c.Subtypes = append([]string(nil), s.Subtypes...)
	c.Payload = payload
	return c
}

// Collection is an ordered set of segments extracted from one container.
type Collection struct {
	Segments []Segment
}
