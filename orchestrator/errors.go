package orchestrator

import (
	"net/http"

	"github.com/companion-labs/companion/pkg/errx"
)

// Error registry for orchestrator package
var errRegistry = errx.NewRegistry("ORCHESTRATOR")

var (
	ErrCodeMissingMessage = errRegistry.Register(
		"MISSING_MESSAGE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Message is required",
	)

	ErrCodeMissingText = errRegistry.Register(
		"MISSING_TEXT",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Text is required",
	)

	ErrCodeNotConfigured = errRegistry.Register(
		"NOT_CONFIGURED",
		errx.TypeInternal,
		http.StatusInternalServerError,
		"Service not configured",
	)
)

// Error constructors

func NewMissingMessageError() *errx.Error {
	return errRegistry.New(ErrCodeMissingMessage)
}

func NewMissingTextError() *errx.Error {
	return errRegistry.New(ErrCodeMissingText)
}

func NewNotConfiguredError(service string) *errx.Error {
	return errRegistry.New(ErrCodeNotConfigured).
		WithDetail("service", service)
}
