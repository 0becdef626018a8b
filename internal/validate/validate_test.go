package validate_test

import (
	"math"
	"reflect"
	"testing"

	"projectboard/internal/validate"
)

func TestValidateExamples(t *testing.T) {
	cases := []struct {
		name string
		spec validate.Spec
		want bool
	}{
		{"empty required", validate.Spec{Value: validate.Text(""), Required: true}, false},
		{"blank required", validate.Spec{Value: validate.Text(" \t\n "), Required: true}, false},
		{"text required", validate.Spec{Value: validate.Text("ok"), Required: true}, true},
		{"too short", validate.Spec{Value: validate.Text("ok"), Required: true, MinLength: validate.Int(5)}, false},
		{"number in range", validate.Spec{Value: validate.Number(3), Min: validate.Float(1), Max: validate.Float(5)}, true},
		{"number below", validate.Spec{Value: validate.Number(0), Min: validate.Float(1)}, false},
		{"number above", validate.Spec{Value: validate.Number(6), Max: validate.Float(5)}, false},
		{"inclusive bounds", validate.Spec{Value: validate.Number(5), Min: validate.Float(5), Max: validate.Float(5)}, true},
		{"inclusive lengths", validate.Spec{Value: validate.Text("abcde"), MinLength: validate.Int(5), MaxLength: validate.Int(5)}, true},
		{"too long", validate.Spec{Value: validate.Text("abcdef"), MaxLength: validate.Int(5)}, false},
		{"no constraints", validate.Spec{Value: validate.Text("")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validate.Validate(tc.spec); got != tc.want {
				t.Fatalf("Validate = %v, want %v (violations %v)", got, tc.want, validate.Violations(tc.spec))
			}
		})
	}
}

func TestZeroThresholdsAreApplied(t *testing.T) {
	if !validate.Validate(validate.Spec{Value: validate.Number(0), Min: validate.Float(0)}) {
		t.Fatalf("min=0 with value 0 should pass")
	}
	if validate.Validate(validate.Spec{Value: validate.Number(-1), Min: validate.Float(0)}) {
		t.Fatalf("min=0 with value -1 should fail")
	}
	if validate.Validate(validate.Spec{Value: validate.Number(1), Max: validate.Float(0)}) {
		t.Fatalf("max=0 with value 1 should fail")
	}
	if validate.Validate(validate.Spec{Value: validate.Text("a"), MaxLength: validate.Int(0)}) {
		t.Fatalf("maxLength=0 with one character should fail")
	}
}

func TestLengthBoundsIgnoreNumbers(t *testing.T) {
	spec := validate.Spec{Value: validate.Number(12345678), MinLength: validate.Int(100), MaxLength: validate.Int(1)}
	if !validate.Validate(spec) {
		t.Fatalf("length bounds must not apply to numbers: %v", validate.Violations(spec))
	}
}

func TestNumericBoundsIgnoreText(t *testing.T) {
	spec := validate.Spec{Value: validate.Text("3"), Min: validate.Float(10), Max: validate.Float(1)}
	if !validate.Validate(spec) {
		t.Fatalf("numeric bounds must not apply to text: %v", validate.Violations(spec))
	}
}

func TestRequiredAppliesToNumbers(t *testing.T) {
	if !validate.Validate(validate.Spec{Value: validate.Number(0), Required: true}) {
		t.Fatalf("0 has a non-empty textual form")
	}
}

func TestNaNFailsBounds(t *testing.T) {
	nan := validate.Number(math.NaN())
	if validate.Validate(validate.Spec{Value: nan, Min: validate.Float(1)}) {
		t.Fatalf("NaN should fail min")
	}
	if validate.Validate(validate.Spec{Value: nan, Max: validate.Float(5)}) {
		t.Fatalf("NaN should fail max")
	}
	if !validate.Validate(validate.Spec{Value: nan, Required: true}) {
		t.Fatalf("NaN is not blank")
	}
}

func TestLengthCountsRunes(t *testing.T) {
	spec := validate.Spec{Value: validate.Text("héllo"), MinLength: validate.Int(5), MaxLength: validate.Int(5)}
	if !validate.Validate(spec) {
		t.Fatalf("expected 5 runes: %v", validate.Violations(spec))
	}
}

func TestViolationsOnceFailedStaysFailed(t *testing.T) {
	spec := validate.Spec{
		Value:     validate.Text(" "),
		Required:  true,
		MinLength: validate.Int(3),
		MaxLength: validate.Int(10),
	}
	got := validate.Violations(spec)
	want := []string{validate.Required, validate.MinLength}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
	if validate.Validate(spec) {
		t.Fatalf("a later passing constraint must not widen the result")
	}
}

func TestValidateIsPure(t *testing.T) {
	spec := validate.Spec{Value: validate.Text("ok"), Required: true, MinLength: validate.Int(5)}
	first := validate.Validate(spec)
	second := validate.Validate(spec)
	if first != second {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	if *spec.MinLength != 5 || spec.Value.String() != "ok" {
		t.Fatalf("spec was modified")
	}
}

func TestValueString(t *testing.T) {
	cases := map[string]validate.Value{
		"3":   validate.Number(3),
		"2.5": validate.Number(2.5),
		"NaN": validate.Number(math.NaN()),
		"abc": validate.Text("abc"),
	}
	for want, v := range cases {
		if got := v.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
