package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code classifies a violation.
type Code string

const (
	// CodeRequired marks a required property that is absent.
	CodeRequired Code = "required"
	// CodeType marks a present property whose runtime type differs from the
	// declared one.
	CodeType Code = "type"
	// CodeConstraint marks a failed keyword constraint (enum, minimum, pattern, ...).
	CodeConstraint Code = "constraint"
	// CodeAdditionalProperties marks an undeclared member of a closed schema.
	CodeAdditionalProperties Code = "additionalProperties"
)

// Violation is one reason a transformed object does not satisfy its schema.
type Violation struct {
	// Property is the offending top-level property. Empty for object-level
	// constraints such as minProperties.
	Property string `json:"property"           yaml:"property"`
	Code     Code   `json:"code"               yaml:"code"`
	// Keyword is the schema keyword that failed.
	Keyword  string `json:"keyword"            yaml:"keyword"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	// Actual is the runtime type of the value, or "absent".
	Actual  string `json:"actual,omitempty"   yaml:"actual,omitempty"`
	Message string `json:"message"            yaml:"message"`
}

// Required reports a missing required property.
func Required(property string) Violation {
	return Violation{
		Property: property,
		Code:     CodeRequired,
		Keyword:  "required",
		Actual:   "absent",
		Message:  fmt.Sprintf("must have required property '%s'", property),
	}
}

// TypeMismatch reports a property whose type is not the declared one.
func TypeMismatch(property, expected, actual string) Violation {
	return Violation{
		Property: property,
		Code:     CodeType,
		Keyword:  "type",
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("must be %s, got %s", expected, actual),
	}
}

// Constraint reports a failed keyword constraint.
func Constraint(property, keyword, actual, message string) Violation {
	return Violation{
		Property: property,
		Code:     CodeConstraint,
		Keyword:  keyword,
		Actual:   actual,
		Message:  message,
	}
}

// AdditionalProperty reports an undeclared member of a closed schema.
func AdditionalProperty(property, actual string) Violation {
	return Violation{
		Property: property,
		Code:     CodeAdditionalProperties,
		Keyword:  "additionalProperties",
		Expected: "no additional properties",
		Actual:   actual,
		Message:  fmt.Sprintf("must not have additional property '%s'", property),
	}
}

// String returns a formatted violation.
func (v Violation) String() string {
	msg := fmt.Sprintf("[%s] %s", v.Code, v.Message)
	if v.Property != "" {
		return v.Property + ": " + msg
	}

	return msg
}

// Result is the outcome of validating one object.
type Result struct {
	Valid  bool        `json:"valid"  yaml:"valid"`
	Errors []Violation `json:"errors" yaml:"errors"`
}

// NewResult returns a valid, empty result.
func NewResult() Result {
	return Result{Valid: true, Errors: []Violation{}}
}

// Add appends v and marks the result invalid.
func (r *Result) Add(v Violation) {
	r.Errors = append(r.Errors, v)
	r.Valid = false
}

// CountByCode returns the number of violations per code.
func (r *Result) CountByCode() map[Code]int {
	out := make(map[Code]int)
	for _, v := range r.Errors {
		out[v.Code]++
	}

	return out
}

// Error returns a combined error from all violations, or nil if valid.
func (r *Result) Error() error {
	if len(r.Errors) == 0 {
		return nil
	}

	parts := make([]string, 0, len(r.Errors))
	for _, v := range r.Errors {
		parts = append(parts, v.String())
	}

	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}

// MarshalJSON keeps "errors" an array when no violation was recorded.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result

	p := plain(r)
	if p.Errors == nil {
		p.Errors = []Violation{}
	}

	return json.Marshal(p)
}
