// Package sdk is the entry point for callers: it validates biometric
// segments against their ISO 19794 rule tables and converts their images.
package sdk

import (
	"fmt"
	"log/slog"
	"time"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/converter"
	"go-biometric-sdk/images"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/metrics"
	"go-biometric-sdk/segments"
	"go-biometric-sdk/validation"
)

// SDK bundles the validator options and the converter. The zero value is
// not usable; build one with New.
type SDK struct {
	converter  *converter.Converter
	validation validation.Options
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures an SDK.
type Option func(*SDK)

// WithConverter replaces the default converter.
func WithConverter(c *converter.Converter) Option {
	return func(s *SDK) { s.converter = c }
}

// WithValidationOptions sets the optional validation rules.
func WithValidationOptions(o validation.Options) Option {
	return func(s *SDK) { s.validation = o }
}

// WithMetrics records validation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SDK) { s.metrics = m }
}

// WithLogger sets the logger used for request level messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *SDK) { s.logger = l }
}

func New(opts ...Option) *SDK {
	s := &SDK{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.converter == nil {
		s.converter = converter.New(converter.WithMetrics(s.metrics))
	}
	return s
}

// Inspect runs every rule of the segment's modality and returns the
// complete report. Preconditions and decode failures are returned as
// errors instead.
func (s *SDK) Inspect(seg biometrics.Segment) (*validation.Report, error) {
	modality, subtype := seg.Modality(), seg.Subtype()
	if err := CheckParams(modality, subtype); err != nil {
		return nil, err
	}
	if len(seg.Payload) == 0 {
		return nil, biometrics.NewError(biometrics.KindBiometricNotFound, "").WithModality(modality)
	}

	start := time.Now()
	format, _ := iso.FormatFor(modality)
	dec, err := iso.DecoderFor(format)
	if err != nil {
		return nil, biometrics.Wrap(biometrics.KindTechnicalError, err, "").WithModality(modality)
	}
	rec, err := dec.Decode(seg.Payload)
	if err != nil {
		s.metrics.ObserveValidationError(string(modality))
		return nil, biometrics.Wrap(biometrics.KindInvalidInputFormat, err, "").WithModality(modality)
	}

	report, err := validation.Validate(rec, len(seg.Payload), subtype, s.validation)
	if err != nil {
		s.metrics.ObserveValidationError(string(modality))
		return nil, err
	}
	s.metrics.ObserveValidation(string(modality), report.Fields(), start)
	return report, nil
}

// Validate reports whether seg passes every rule of its modality. A failed
// validation returns false with an InvalidBiometricData error whose cause
// is the *validation.Report.
func (s *SDK) Validate(seg biometrics.Segment, purpose biometrics.Purpose) (bool, error) {
	report, err := s.Inspect(seg)
	if err != nil {
		return false, err
	}
	s.logger.Debug("Segment validated",
		"modality", seg.Modality(), "subtype", seg.Subtype(), "purpose", purpose,
		"violations", len(report.Violations()))
	if !report.Valid() {
		return false, report.Err()
	}
	return true, nil
}

// CheckParams reports a MissingInput error when modality is not handled or
// subtype is outside the modality's enumeration.
func CheckParams(modality biometrics.Modality, subtype string) error {
	if !modality.Valid() {
		return biometrics.NewError(biometrics.KindMissingInput, fmt.Sprintf("modality %q not supported", modality))
	}
	if !biometrics.SubtypeAllowed(modality, subtype) {
		return biometrics.NewError(biometrics.KindMissingInput, fmt.Sprintf("subtype %q not valid", subtype)).WithModality(modality)
	}
	return nil
}

// ValidateEncoded is Validate over a base64url encoded record. Parameters
// are checked before the payload is decoded.
func (s *SDK) ValidateEncoded(modality biometrics.Modality, subtype string, purpose biometrics.Purpose, payload string) (bool, error) {
	if err := CheckParams(modality, subtype); err != nil {
		return false, err
	}
	data, err := biometrics.DecodeBase64URL(payload)
	if err != nil {
		return false, biometrics.Wrap(biometrics.KindInvalidInputFormat, err, "payload not base64url encoded").WithModality(modality)
	}
	return s.Validate(NewSegment(modality, subtype, purpose, data), purpose)
}

// NewSegment builds a single segment from a modality and subtype label.
func NewSegment(modality biometrics.Modality, subtype string, purpose biometrics.Purpose, payload []byte) biometrics.Segment {
	return biometrics.Segment{
		Modalities: []biometrics.Modality{modality},
		Purpose:    purpose,
		Subtypes:   []string{subtype},
		Payload:    payload,
	}
}

// Convert transcodes every entry of values; see converter.ConvertBatch.
func (s *SDK) Convert(values []converter.Entry, source, target string, sourceParams, targetParams map[string]string) ([]converter.Entry, error) {
	return s.converter.ConvertBatch(values, source, target, sourceParams, targetParams)
}

// ConvertRecord transcodes every segment of coll that carries the source
// format's modality and, when modalities is non-empty, one of modalities.
// The returned collection holds only the converted segments, in input
// order. Any failure discards the whole result.
func (s *SDK) ConvertRecord(coll biometrics.Collection, source, target string, sourceParams, targetParams map[string]string, modalities []biometrics.Modality) (biometrics.Collection, error) {
	tf, ok := images.ParseTargetFormat(target)
	if !ok {
		return biometrics.Collection{}, biometrics.NewError(biometrics.KindInvalidTargetFormat, fmt.Sprintf("unsupported target format %q", target))
	}
	sf, ok := iso.ParseFormatCode(source)
	if !ok {
		return biometrics.Collection{}, biometrics.NewError(biometrics.KindInvalidSourceFormat, fmt.Sprintf("unsupported source format %q", source))
	}

	groups, err := segments.Classify(coll, modalities)
	if err != nil {
		return biometrics.Collection{}, err
	}
	selected := groups[sf.Modality()]
	if len(selected) == 0 {
		return biometrics.Collection{}, biometrics.NewError(biometrics.KindBiometricNotFound,
			fmt.Sprintf("no %s segment in collection", sf.Modality()))
	}

	params := converter.ParseParams(targetParams)
	out := biometrics.Collection{Segments: make([]biometrics.Segment, 0, len(selected))}
	for i, seg := range selected {
		img, err := s.converter.TranscodeRecord(sf, seg.Payload, tf, params)
		if err != nil {
			return biometrics.Collection{}, fmt.Errorf("segment %d: %w", i, err)
		}
		converted := seg.WithPayload(img)
		converted.Metadata.FormatOwner = 0
		converted.Metadata.FormatType = 0
		converted.Metadata.ContentType = tf.MIMEType()
		out.Segments = append(out.Segments, converted)
	}

	s.logger.Debug("Collection converted", "source", sf, "target", tf, "segments", len(out.Segments))
	return out, nil
}
