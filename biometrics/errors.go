package biometrics

import (
	"errors"
	"fmt"
)

// Kind classifies SDK failures. Callers switch on the kind, never on
// message text.
type Kind string

const (
	KindInvalidInputFormat         Kind = "INVALID_INPUT_FORMAT"
	KindInvalidBiometricData       Kind = "INVALID_BIOMETRIC_DATA"
	KindMissingInput               Kind = "MISSING_INPUT"
	KindBiometricNotFound          Kind = "BIOMETRIC_NOT_FOUND_IN_CONTAINER"
	KindInvalidSourceFormat        Kind = "INVALID_SOURCE_FORMAT"
	KindInvalidTargetFormat        Kind = "INVALID_TARGET_FORMAT"
	KindUnsupportedCompressionType Kind = "UNSUPPORTED_COMPRESSION_TYPE"
	KindSourceEmptyOrNull          Kind = "SOURCE_EMPTY_OR_NULL"
	KindSourceNotBase64Encoded     Kind = "SOURCE_NOT_BASE64URL_ENCODED"
	KindSourceNotValidIsoFormat    Kind = "SOURCE_NOT_VALID_ISO_FORMAT"
	KindCouldNotReadImageData      Kind = "COULD_NOT_READ_ISO_IMAGE_DATA"
	KindTechnicalError             Kind = "TECHNICAL_ERROR"
)

var defaultMessages = map[Kind]string{
	KindInvalidInputFormat:         "invalid input format",
	KindInvalidBiometricData:       "invalid biometric data",
	KindMissingInput:               "missing input parameter",
	KindBiometricNotFound:          "biometrics not found in container",
	KindInvalidSourceFormat:        "invalid source value or source format not supported",
	KindInvalidTargetFormat:        "invalid target value or target format not supported",
	KindUnsupportedCompressionType: "compression type not supported",
	KindSourceEmptyOrNull:          "source value can not be empty or null",
	KindSourceNotBase64Encoded:     "source not valid base64url encoded",
	KindSourceNotValidIsoFormat:    "source not valid ISO format",
	KindCouldNotReadImageData:      "could not read ISO image data",
	KindTechnicalError:             "technical error",
}

// Error is the single error type the SDK returns across its public
// surface.
type Error struct {
	Kind     Kind
	Modality Modality
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Kind]
	}
	if e.Modality != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Modality)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so kind sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Modality == "" || t.Modality == e.Modality)
}

// NewError builds an error of kind k with message msg.
func NewError(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// Wrap builds an error of kind k around cause.
func Wrap(k Kind, cause error, msg string) *Error {
	return &Error{Kind: k, Message: msg, Err: cause}
}

// WithModality returns a copy of e tagged with modality m.
func (e *Error) WithModality(m Modality) *Error {
	c := *e
	c.Modality = m
	return &c
}

// KindOf extracts the kind of err, or KindTechnicalError when err is not an
// SDK error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTechnicalError
}

// Sentinels for errors.Is.
var (
	ErrInvalidInputFormat         = &Error{Kind: KindInvalidInputFormat}
	ErrInvalidBiometricData       = &Error{Kind: KindInvalidBiometricData}
	ErrMissingInput               = &Error{Kind: KindMissingInput}
	ErrBiometricNotFound          = &Error{Kind: KindBiometricNotFound}
	ErrInvalidSourceFormat        = &Error{Kind: KindInvalidSourceFormat}
	ErrInvalidTargetFormat        = &Error{Kind: KindInvalidTargetFormat}
	ErrUnsupportedCompressionType = &Error{Kind: KindUnsupportedCompressionType}
	ErrSourceEmptyOrNull          = &Error{Kind: KindSourceEmptyOrNull}
	ErrSourceNotBase64Encoded     = &Error{Kind: KindSourceNotBase64Encoded}
	ErrSourceNotValidIsoFormat    = &Error{Kind: KindSourceNotValidIsoFormat}
	ErrCouldNotReadImageData      = &Error{Kind: KindCouldNotReadImageData}
	ErrTechnicalError             = &Error{Kind: KindTechnicalError}
)
