package validation

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Check decides whether a single field value is acceptable and describes
// the accepted values for diagnostics.
type Check interface {
	Accept(v uint64) bool
	Describe(width int) string
}

// Exact accepts one literal value.
type Exact uint64

func (e Exact) Accept(v uint64) bool { return v == uint64(e) }

func (e Exact) Describe(width int) string { return "[" + hexValue(uint64(e), width) + "]" }

// Span is an inclusive interval. A span with Lo == Hi is a single value.
type Span struct {
	Lo, Hi uint64
}

// Between builds an inclusive interval.
func Between(lo, hi uint64) Span { return Span{Lo: lo, Hi: hi} }

// Value builds a single-value span.
func Value(v uint64) Span { return Span{Lo: v, Hi: v} }

func (s Span) contains(v uint64) bool { return v >= s.Lo && v <= s.Hi }

func (s Span) describe(width int) string {
	if s.Lo == s.Hi {
		return hexValue(s.Lo, width)
	}
	return hexValue(s.Lo, width) + " and " + hexValue(s.Hi, width)
}

// Ranges accepts values inside any of its spans.
type Ranges []Span

func (r Ranges) Accept(v uint64) bool {
	return lo.SomeBy(r, func(s Span) bool { return s.contains(v) })
}

func (r Ranges) Describe(width int) string {
	if len(r) == 1 {
		return "between[" + r[0].describe(width) + "]"
	}
	parts := lo.Map(r, func(s Span, _ int) string { return "{" + s.describe(width) + "}" })
	return "between[" + strings.Join(parts, ", ") + "]"
}

// OneOf accepts an enumeration of literal values.
type OneOf []uint64

func (o OneOf) Accept(v uint64) bool { return lo.Contains(o, v) }

func (o OneOf) Describe(width int) string {
	parts := lo.Map(o, func(v uint64, _ int) string { return hexValue(v, width) })
	return "[" + strings.Join(parts, ", ") + "]"
}

func hexValue(v uint64, width int) string {
	return fmt.Sprintf("0x%0*X", width, v)
}
