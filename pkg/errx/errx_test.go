package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndNew(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("SOMETHING_BROKE", TypeExternal, http.StatusBadGateway, "Upstream failed")

	assert.Equal(t, "TEST:SOMETHING_BROKE", code.String())

	err := reg.New(code)
	require.NotNil(t, err)
	assert.Equal(t, "TEST:SOMETHING_BROKE", err.Code)
	assert.Equal(t, TypeExternal, err.Type)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Equal(t, "Upstream failed", err.Message)
	assert.Equal(t, "[TEST:SOMETHING_BROKE] Upstream failed", err.Error())
}

func TestNewWithMessage(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BAD_INPUT", TypeValidation, http.StatusBadRequest, "Invalid input")

	err := reg.NewWithMessage(code, "Name is required")
	assert.Equal(t, "Name is required", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestNewWithCause(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("WRAPPED", TypeInternal, http.StatusInternalServerError, "Something failed")

	cause := errors.New("connection refused")
	err := reg.NewWithCause(code, cause)

	assert.Equal(t, "[TEST:WRAPPED] Something failed: connection refused", err.Error())
	assert.Equal(t, cause, err.Cause())
	assert.ErrorIs(t, err, cause)
}

func TestWithDetail(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("DETAILED", TypeBusiness, http.StatusConflict, "Conflict")

	err := reg.New(code).
		WithDetail("id", "abc").
		WithDetail("attempt", 3)

	assert.Equal(t, "abc", err.Details["id"])
	assert.Equal(t, 3, err.Details["attempt"])
}

func TestFrom(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("FOUND", TypeNotFound, http.StatusNotFound, "Not found")

	inner := reg.New(code)
	wrapped := fmt.Errorf("handler: %w", inner)

	e, ok := From(wrapped)
	require.True(t, ok)
	assert.Equal(t, "TEST:FOUND", e.Code)

	_, ok = From(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	reg := NewRegistry("TEST")
	codeA := reg.Register("A", TypeInternal, http.StatusInternalServerError, "A")
	codeB := reg.Register("B", TypeInternal, http.StatusInternalServerError, "B")

	err := fmt.Errorf("wrapped: %w", reg.New(codeA))

	assert.True(t, IsCode(err, codeA))
	assert.False(t, IsCode(err, codeB))
	assert.False(t, IsCode(errors.New("plain"), codeA))
}

func TestUnregisteredCodeDegrades(t *testing.T) {
	reg := NewRegistry("TEST")

	err := reg.New(Code{id: "TEST:NEVER_REGISTERED"})
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Equal(t, "Internal error", err.Message)
}
