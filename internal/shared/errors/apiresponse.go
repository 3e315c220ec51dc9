// Package errors models the petstore {code, type, message} response body.
package errors

import (
	"fmt"
	"strconv"
)

// APIResponse is the body the petstore API uses for errors and for
// acknowledgements such as a successful delete.
type APIResponse struct {
	// Code mirrors either the HTTP status or a petstore-specific code.
	Code int `json:"code"`
	// Type is a coarse category such as "error" or "unknown".
	Type string `json:"type"`
	// Message is a human-readable explanation.
	Message string `json:"message"`
	// Status is the HTTP status the response is sent with; not serialized.
	Status int `json:"-"`
}

// Error implements the error interface.
func (r APIResponse) Error() string {
	return fmt.Sprintf("%s (code %d)", r.Message, r.Code)
}

// Message strings observed on the live API.
const (
	MessagePetNotFound  = "Pet not found"
	MessageSomethingBad = "something bad happened"
)

var (
	// ErrPetNotFound is returned when a pet id is unknown.
	ErrPetNotFound = APIResponse{Code: 1, Type: "error", Message: MessagePetNotFound, Status: 404}

	// ErrUnknown is the generic server failure, e.g. for a non-numeric id on create.
	ErrUnknown = APIResponse{Code: 500, Type: "unknown", Message: MessageSomethingBad, Status: 500}

	// ErrBadInput is returned for bodies that cannot be parsed at all.
	ErrBadInput = APIResponse{Code: 400, Type: "unknown", Message: "bad input", Status: 400}
)

// NewNumberFormatProblem reports a path id that is not an integer.
func NewNumberFormatProblem(raw string) APIResponse {
	return APIResponse{
		Code:    404,
		Type:    "unknown",
		Message: fmt.Sprintf("java.lang.NumberFormatException: For input string: %q", raw),
		Status:  404,
	}
}

// NewDeletedAck acknowledges a delete; the message is the deleted id.
func NewDeletedAck(id int64) APIResponse {
	return APIResponse{Code: 200, Type: "unknown", Message: strconv.FormatInt(id, 10), Status: 200}
}
