package schema

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ActionResponse is the envelope around every catalog action response
type ActionResponse[T any] struct {
	Help    string       `json:"help,omitempty"`
	Success bool         `json:"success"`
	Result  T            `json:"result,omitempty"`
	Error   *ActionError `json:"error,omitempty"`
}

// ActionError is the error member of a failed action. Validation errors carry
// a tree of field errors alongside the type and message.
type ActionError struct {
	Type    string
	Message string

	// Fields is the raw field error tree, Errors the same tree flattened to
	// dotted paths
	Fields map[string]any
	Errors ValidationErrors
}

// ValidationErrors maps a dotted field path to its messages
type ValidationErrors map[string][]string

// Catalog error types
const (
	ErrorTypeValidation    = "Validation Error"
	ErrorTypeAuthorization = "Authorization Error"
	ErrorTypeNotFound      = "Not Found Error"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewValidationError returns a validation error with one message per field,
// given as alternating field and message arguments
func NewValidationError(pairs ...string) *ActionError {
	err := &ActionError{
		Type:   ErrorTypeValidation,
		Fields: make(map[string]any, len(pairs)/2),
		Errors: make(ValidationErrors, len(pairs)/2),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		err.Fields[pairs[i]] = []any{pairs[i+1]}
		err.Errors.Add(pairs[i], pairs[i+1])
	}
	return err
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (e ValidationErrors) String() string {
	return types.Stringify(e)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Add appends a message for a path
func (e ValidationErrors) Add(path, message string) {
	e[path] = append(e[path], message)
}

// Keys returns the paths in sorted order
func (e ValidationErrors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *ActionError) Error() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	for _, key := range e.Errors.Keys() {
		parts = append(parts, key+": "+strings.Join(e.Errors[key], ", "))
	}
	if len(parts) == 0 {
		return e.Type
	}
	if e.Type == "" {
		return strings.Join(parts, "; ")
	}
	return e.Type + ": " + strings.Join(parts, "; ")
}

// StatusCode returns the HTTP status the catalog uses for the error type
func (e *ActionError) StatusCode() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusConflict
	case ErrorTypeAuthorization:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

////////////////////////////////////////////////////////////////////////////////
// JSON

func (e ActionError) MarshalJSON() ([]byte, error) {
	v := make(map[string]any, len(e.Fields)+2)
	for k, field := range e.Fields {
		v[k] = field
	}
	if e.Type != "" {
		v["__type"] = e.Type
	}
	if e.Message != "" {
		v["message"] = e.Message
	}
	return json.Marshal(v)
}

func (e *ActionError) UnmarshalJSON(data []byte) error {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = ActionError{}
	if t, ok := v["__type"].(string); ok {
		e.Type = t
	}
	if m, ok := v["message"].(string); ok {
		e.Message = m
	}
	delete(v, "__type")
	delete(v, "message")
	if len(v) > 0 {
		e.Fields = v
	}
	return nil
}
