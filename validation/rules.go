package validation

import (
	"fmt"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
)

// Input is the context a record is validated in.
type Input struct {
	// ByteLength is the size of the raw record the decoded value came from.
	ByteLength int
	// Subtype is the subtype label declared by the container.
	Subtype string
	// CheckCaptureTime enables the capture timestamp rule.
	CheckCaptureTime bool
}

// Step is one entry of a rule table.
type Step[T any] interface {
	apply(rec T, in Input, acc *accumulator)
}

// Rule checks one field. Check covers the field on its own; Verify adds a
// condition that depends on other fields or on the input context, and
// Expected then replaces the description of accepted values.
type Rule[T any] struct {
	Field    string
	Width    int
	Check    Check
	Value    func(T) uint64
	Verify   func(T, Input) bool
	Expected func(T, Input) string
	Observed func(T) string
}

func field[T any](name string, width int, check Check, value func(T) uint64) *Rule[T] {
	return &Rule[T]{Field: name, Width: width, Check: check, Value: value}
}

// and attaches a contextual condition to r.
func (r *Rule[T]) and(verify func(T, Input) bool, expected func(T, Input) string) *Rule[T] {
	r.Verify = verify
	r.Expected = expected
	return r
}

func (r *Rule[T]) apply(rec T, in Input, acc *accumulator) {
	v := r.Value(rec)
	ok := r.Check == nil || r.Check.Accept(v)
	if r.Verify != nil {
		ok = r.Verify(rec, in) && ok
	}
	if ok {
		return
	}

	expected := ""
	if r.Check != nil {
		expected = r.Check.Describe(r.Width)
	}
	if r.Expected != nil {
		expected = r.Expected(rec, in)
	}
	violation := Violation{Field: r.Field, Expected: expected, Observed: v, Width: r.Width}
	if r.Observed != nil {
		violation.ObservedText = r.Observed(rec)
	}
	acc.add(violation)
}

// when runs the wrapped steps only if cond holds for the record.
type when[T any] struct {
	cond  func(T) bool
	steps []Step[T]
}

func (w when[T]) apply(rec T, in Input, acc *accumulator) {
	if !w.cond(rec) {
		return
	}
	for _, s := range w.steps {
		s.apply(rec, in, acc)
	}
}

// group validates a repeated block: every item with the same rules, plus
// one violation when the declared count differs from the parsed count.
type group[T, B any] struct {
	name     string
	width    int
	declared func(T) uint64
	items    func(T) []B
	rules    []Step[B]
}

func (g group[T, B]) apply(rec T, in Input, acc *accumulator) {
	items := g.items(rec)
	if declared := g.declared(rec); declared != uint64(len(items)) {
		acc.add(Violation{
			Field:    g.name + "s Count",
			Expected: fmt.Sprintf("[%s] matching the parsed %s count", hexValue(uint64(len(items)), g.width), g.name),
			Observed: declared,
			Width:    g.width,
		})
	}
	for _, item := range items {
		for _, s := range g.rules {
			s.apply(item, in, acc)
		}
	}
}

// Table is the declarative rule set of one modality.
type Table[T any] struct {
	Modality biometrics.Modality
	Standard string
	Steps    []Step[T]
}

// Validator evaluates every step of a table against a record. It never
// stops at the first failure.
type Validator[T any] struct {
	table Table[T]
}

// NewValidator builds a validator over table.
func NewValidator[T any](table Table[T]) *Validator[T] {
	return &Validator[T]{table: table}
}

// Validate runs every rule and returns the frozen report.
func (v *Validator[T]) Validate(rec T, in Input) *Report {
	acc := &accumulator{modality: v.table.Modality}
	for _, s := range v.table.Steps {
		s.apply(rec, in, acc)
	}
	return acc.freeze(v.table.Standard)
}

// Options tune the package-level Validate.
type Options struct {
	CheckCaptureTime bool
}

var (
	fingerValidator = NewValidator(FingerTable())
	faceValidator   = NewValidator(FaceTable())
	irisValidator   = NewValidator(IrisTable())
)

// Validate checks a decoded record against the table of its modality.
// byteLength is the size of the raw record; subtype is the label declared
// by the container.
func Validate(rec iso.Record, byteLength int, subtype string, opts Options) (*Report, error) {
	in := Input{ByteLength: byteLength, Subtype: subtype, CheckCaptureTime: opts.CheckCaptureTime}
	switch r := rec.(type) {
	case *iso.FingerRecord:
		return fingerValidator.Validate(r, in), nil
	case *iso.FaceRecord:
		return faceValidator.Validate(r, in), nil
	case *iso.IrisRecord:
		return irisValidator.Validate(r, in), nil
	}
	return nil, biometrics.NewError(biometrics.KindTechnicalError, fmt.Sprintf("no rule table for record type %T", rec))
}
