package validation

import (
	"fmt"
	"strings"

	"go-biometric-sdk/biometrics"
)

// Violation is one failed rule.
type Violation struct {
	Modality biometrics.Modality
	Field    string
	Expected string
	Observed uint64
	// Width is the number of hex digits the field occupies.
	Width int
	// ObservedText replaces the hex rendering for fields that do not fit a
	// single integer.
	ObservedText string
}

// ObservedString renders the observed value the way the report prints it.
func (v Violation) ObservedString() string {
	if v.ObservedText != "" {
		return v.ObservedText
	}
	return hexValue(v.Observed, v.Width)
}

func (v Violation) String() string {
	return fmt.Sprintf("Invalid %s for %s Modality, expected values%s, but received input value[%s]",
		v.Field, v.Modality, v.Expected, v.ObservedString())
}

// Report is the immutable outcome of validating one record.
type Report struct {
	Standard   string
	Modality   biometrics.Modality
	violations []Violation
}

// Valid reports whether no rule failed.
func (r *Report) Valid() bool { return len(r.violations) == 0 }

// Violations returns a copy of the failed rules in evaluation order.
func (r *Report) Violations() []Violation {
	return append([]Violation(nil), r.violations...)
}

// Fields returns the labels of the failed rules in evaluation order.
func (r *Report) Fields() []string {
	out := make([]string, len(r.violations))
	for i, v := range r.violations {
		out[i] = v.Field
	}
	return out
}

// Error renders the full diagnostic text, one violation per line.
func (r *Report) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ISOStandardsValidator[%s] failed due to below issues:", r.Standard)
	for _, v := range r.violations {
		sb.WriteString("\n")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Err returns nil for a valid report, otherwise an InvalidBiometricData
// error wrapping the report.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &biometrics.Error{
		Kind:     biometrics.KindInvalidBiometricData,
		Modality: r.Modality,
		Message:  fmt.Sprintf("%d structural violations", len(r.violations)),
		Err:      r,
	}
}

// accumulator collects violations for a single validation call.
type accumulator struct {
	modality   biometrics.Modality
	violations []Violation
}

func (a *accumulator) add(v Violation) {
	v.Modality = a.modality
	a.violations = append(a.violations, v)
}

func (a *accumulator) freeze(standard string) *Report {
	return &Report{
		Standard:   standard,
		Modality:   a.modality,
		violations: append([]Violation(nil), a.violations...),
	}
}
