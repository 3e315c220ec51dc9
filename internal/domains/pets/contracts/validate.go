package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// MismatchKind classifies a single contract violation.
type MismatchKind string

const (
	KindMissingField    MismatchKind = "missing_field"
	KindWrongType       MismatchKind = "wrong_type"
	KindUnexpectedField MismatchKind = "unexpected_field"
	KindInvalidValue    MismatchKind = "invalid_value"
	KindMalformedJSON   MismatchKind = "malformed_json"
)

// Mismatch is one field-level violation. Path is a JSON pointer to the
// offending field ("/" for the document root).
type Mismatch struct {
	Path    string       `json:"path"`
	Kind    MismatchKind `json:"kind"`
	Message string       `json:"message"`
}

// Result is the outcome of a validation. Failures are data: Validate never
// panics on a malformed shape.
type Result struct {
	Contract   string     `json:"contract"`
	Valid      bool       `json:"valid"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// ErrContractViolation is wrapped by Result.Err for failed results.
var ErrContractViolation = errors.New("contract violation")

// Err returns nil for a valid result, otherwise an error listing every mismatch.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrContractViolation, r.String())
}

// String renders the result for logs and assertion messages.
func (r Result) String() string {
	if r.Valid {
		return fmt.Sprintf("%s: valid", r.Contract)
	}
	parts := make([]string, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		parts = append(parts, fmt.Sprintf("%s %s (%s)", m.Path, m.Kind, m.Message))
	}
	return fmt.Sprintf("%s: %d mismatch(es): %s", r.Contract, len(r.Mismatches), strings.Join(parts, "; "))
}

// Has reports whether the result contains a mismatch of the given kind at path.
func (r Result) Has(kind MismatchKind, path string) bool {
	for _, m := range r.Mismatches {
		if m.Kind == kind && m.Path == path {
			return true
		}
	}
	return false
}

// ValidateJSON parses body and validates it against the contract.
func ValidateJSON(c *Contract, body []byte) Result {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return failed(c, Mismatch{Path: "/", Kind: KindMalformedJSON, Message: err.Error()})
	}
	return Validate(c, value)
}

// Validate checks an already parsed JSON value against the contract. Values
// that are not plain JSON types (structs, typed slices) are re-encoded first.
func Validate(c *Contract, value any) Result {
	if c == nil || c.schema == nil {
		return Result{Mismatches: []Mismatch{{Path: "/", Kind: KindInvalidValue, Message: "no contract given"}}}
	}
	normalized, err := normalize(value)
	if err != nil {
		return failed(c, Mismatch{Path: "/", Kind: KindMalformedJSON, Message: err.Error()})
	}
	err = c.schema.VisitJSON(normalized, openapi3.MultiErrors())
	if err == nil {
		return Result{Contract: c.Name, Valid: true}
	}
	return failed(c, collect(err)...)
}

func failed(c *Contract, mismatches ...Mismatch) Result {
	name := ""
	if c != nil {
		name = c.Name
	}
	return Result{Contract: name, Mismatches: mismatches}
}

func normalize(value any) (any, error) {
	switch value.(type) {
	case nil, bool, float64, string, map[string]any, []any:
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

var propertyInReason = regexp.MustCompile(`property "([^"]+)" is`)

func collect(err error) []Mismatch {
	var schemaErr *openapi3.SchemaError
	switch e := err.(type) {
	case openapi3.MultiError:
		var out []Mismatch
		for _, inner := range e {
			out = append(out, collect(inner)...)
		}
		return out
	case *openapi3.SchemaError:
		schemaErr = e
	default:
		if !errors.As(err, &schemaErr) {
			return []Mismatch{{Path: "/", Kind: KindInvalidValue, Message: err.Error()}}
		}
	}
	pointer := schemaErr.JSONPointer()
	m := Mismatch{Kind: classify(schemaErr), Message: schemaErr.Reason}
	if m.Kind == KindUnexpectedField {
		if match := propertyInReason.FindStringSubmatch(schemaErr.Reason); match != nil {
			pointer = append(pointer, match[1])
		}
	}
	m.Path = "/" + strings.Join(pointer, "/")
	return []Mismatch{m}
}

func classify(err *openapi3.SchemaError) MismatchKind {
	switch {
	case err.SchemaField == "required":
		return KindMissingField
	case err.SchemaField == "type", err.SchemaField == "nullable":
		return KindWrongType
	case strings.Contains(err.Reason, "is unsupported"):
		return KindUnexpectedField
	default:
		return KindInvalidValue
	}
}
