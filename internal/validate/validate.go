// Package validate checks a single field value against a declarative rule set.
package validate

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value holds either text or a number.
type Value struct {
	text    string
	num     float64
	numeric bool
}

// Text wraps a textual value.
func Text(s string) Value { return Value{text: s} }

// Number wraps a numeric value.
func Number(n float64) Value { return Value{num: n, numeric: true} }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.numeric }

// String returns the textual form used by the required check.
func (v Value) String() string {
	if !v.numeric {
		return v.text
	}
	switch {
	case math.IsNaN(v.num):
		return "NaN"
	case math.IsInf(v.num, 1):
		return "Infinity"
	case math.IsInf(v.num, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Spec is a value plus its optional constraints. A nil bound is absent; a zero bound is applied.
type Spec struct {
	Value     Value
	Required  bool
	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
}

// Constraint names reported by Violations.
const (
	Required  = "required"
	MinLength = "min_length"
	MaxLength = "max_length"
	Min       = "min"
	Max       = "max"
)

// Validate reports whether the value satisfies every constraint present in spec.
func Validate(spec Spec) bool {
	return len(Violations(spec)) == 0
}

// Violations lists the constraints spec.Value fails, in a fixed order.
// Length bounds are ignored for numbers and numeric bounds are ignored for text.
func Violations(spec Spec) []string {
	var failed []string
	v := spec.Value
	if spec.Required && strings.TrimSpace(v.String()) == "" {
		failed = append(failed, Required)
	}
	if !v.numeric {
		n := utf8.RuneCountInString(v.text)
		if spec.MinLength != nil && !(n >= *spec.MinLength) {
			failed = append(failed, MinLength)
		}
		if spec.MaxLength != nil && !(n <= *spec.MaxLength) {
			failed = append(failed, MaxLength)
		}
		return failed
	}
	// Negated comparisons so NaN fails a present bound.
	if spec.Min != nil && !(v.num >= *spec.Min) {
		failed = append(failed, Min)
	}
	if spec.Max != nil && !(v.num <= *spec.Max) {
		failed = append(failed, Max)
	}
	return failed
}

// Int returns a pointer for building length bounds inline.
func Int(n int) *int { return &n }

// Float returns a pointer for building numeric bounds inline.
func Float(f float64) *float64 { return &f }
