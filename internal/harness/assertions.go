package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/merge"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Index    int    // Position in the scenario's assertion list
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertions[%d] %s: expected %s, got %s", e.Index, e.Type, e.Expected, e.Actual)
}

// evaluateAssertions checks every assertion and records failures on result.
func evaluateAssertions(result *Result, assertions []Assertion) {
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			if ae, ok := err.(*AssertionError); ok {
				ae.Index = i
			}
			result.AddError(err.Error())
		}
	}
}

func evaluateAssertion(result *Result, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertSuccess:
		if result.Success != *a.Expect {
			return fail(fmt.Sprintf("success=%t", *a.Expect), fmt.Sprintf("success=%t (logs: %v)", result.Success, result.Logs))
		}

	case AssertCurveCount:
		n := 0
		if result.Clip != nil {
			n = len(result.Clip.Curves)
		}
		if n != *a.Count {
			return fail(fmt.Sprintf("%d curve(s)", *a.Count), fmt.Sprintf("%d", n))
		}

	case AssertKeyCount:
		n := 0
		if a.Binding == nil {
			if result.Clip != nil {
				n = result.Clip.KeyCount()
			}
		} else {
			bc, err := findCurve(result, *a.Binding)
			if err != nil {
				return fail(fmt.Sprintf("%d key(s)", *a.Count), err.Error())
			}
			n = bc.Curve.Len()
		}
		if n != *a.Count {
			return fail(fmt.Sprintf("%d key(s)", *a.Count), fmt.Sprintf("%d", n))
		}

	case AssertValueAt:
		bc, err := findCurve(result, *a.Binding)
		if err != nil {
			return fail(fmt.Sprintf("value %v at t=%v", *a.Value, *a.Time), err.Error())
		}
		if bc.Curve.Len() == 0 {
			return fail(fmt.Sprintf("value %v at t=%v", *a.Value, *a.Time), "unkeyed curve")
		}
		tol := a.Tolerance
		if tol == 0 {
			tol = DefaultTolerance
		}
		got := bc.Curve.Evaluate(*a.Time)
		if math.Abs(got-*a.Value) > tol {
			return fail(fmt.Sprintf("value %v at t=%v (±%v)", *a.Value, *a.Time, tol), fmt.Sprintf("%v", got))
		}

	case AssertClass:
		bc, err := findCurve(result, *a.Binding)
		if err != nil {
			return fail("class "+a.Class, err.Error())
		}
		want, _ := classify.ParseClass(a.Class)
		if bc.Class != want {
			return fail("class "+a.Class, bc.Class.String())
		}

	case AssertLogContains:
		for _, line := range result.Logs {
			if strings.Contains(line, a.Text) {
				return nil
			}
		}
		return fail(fmt.Sprintf("a log containing %q", a.Text), fmt.Sprintf("%q", result.Logs))

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// findCurve returns the baked curve for ref.
func findCurve(result *Result, ref BindingRef) (merge.BakedCurve, error) {
	b, err := ref.Binding()
	if err != nil {
		return merge.BakedCurve{}, err
	}
	if result.Clip == nil {
		return merge.BakedCurve{}, fmt.Errorf("no clip was baked")
	}
	bc, ok := result.Clip.Find(b)
	if !ok {
		return merge.BakedCurve{}, fmt.Errorf("no curve for %s", b)
	}
	return bc, nil
}
