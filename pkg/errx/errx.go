// Package errx provides registered, classified errors that carry an HTTP
// status and a user-facing message alongside the diagnostic cause.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error for callers that branch on broad categories.
type Type string

const (
	TypeValidation    Type = "validation"
	TypeNotFound      Type = "not_found"
	TypeAuthorization Type = "authorization"
	TypeRateLimit     Type = "rate_limit"
	TypeTimeout       Type = "timeout"
	TypeExternal      Type = "external"
	TypeBusiness      Type = "business"
	TypeInternal      Type = "internal"
)

// Code identifies a registered error kind. Codes compare equal only when
// they come from the same Register call, so callers can branch on kind
// without parsing messages.
type Code struct {
	id string
}

// String returns the fully qualified code, e.g. "LLM:RATE_LIMITED".
func (c Code) String() string { return c.id }

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error definitions of one package, namespaced by prefix.
type Registry struct {
	prefix string
	defs   map[string]definition
}

// NewRegistry creates a registry for the given namespace prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[string]definition),
	}
}

// Register defines an error kind and returns its Code.
func (r *Registry) Register(key string, errType Type, httpStatus int, message string) Code {
	id := r.prefix + ":" + key
	r.defs[id] = definition{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return Code{id: id}
}

// New creates an error of the registered kind with its default message.
func (r *Registry) New(code Code) *Error {
	return r.build(code, "", nil)
}

// NewWithMessage creates an error of the registered kind overriding the
// user-facing message.
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	return r.build(code, message, nil)
}

// NewWithCause creates an error of the registered kind wrapping a cause.
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.build(code, "", cause)
}

func (r *Registry) build(code Code, message string, cause error) *Error {
	def, ok := r.defs[code.id]
	if !ok {
		// Unregistered codes indicate a programming error; degrade to a
		// generic internal error rather than panicking on a failure path.
		def = definition{
			errType:    TypeInternal,
			httpStatus: http.StatusInternalServerError,
			message:    "Internal error",
		}
	}
	if message == "" {
		message = def.message
	}
	return &Error{
		Code:       code.id,
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    message,
		cause:      cause,
	}
}

// Error is a classified error with transport metadata attached.
type Error struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
	Details    map[string]any

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetail attaches a diagnostic key/value and returns the error for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Cause returns the wrapped cause, if any.
func (e *Error) Cause() error {
	return e.cause
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err (or anything it wraps) is of the given kind.
func IsCode(err error, code Code) bool {
	e, ok := From(err)
	return ok && e.Code == code.id
}
