package llm

import (
	"net/http"

	"github.com/companion-labs/companion/pkg/errx"
)

// Error registry for generation failures. Every provider maps upstream
// failures onto exactly one of these codes so callers can branch on kind.
var errRegistry = errx.NewRegistry("LLM")

var (
	ErrCodeRateLimited = errRegistry.Register(
		"RATE_LIMITED",
		errx.TypeRateLimit,
		http.StatusInternalServerError,
		"Rate limit exceeded. Please try again in a moment.",
	)

	ErrCodeUnauthorized = errRegistry.Register(
		"UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusInternalServerError,
		"Invalid API key. Please check your API credentials.",
	)

	ErrCodeModelUnavailable = errRegistry.Register(
		"MODEL_UNAVAILABLE",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to get AI response",
	)

	ErrCodeTimeout = errRegistry.Register(
		"TIMEOUT",
		errx.TypeTimeout,
		http.StatusInternalServerError,
		"Failed to get AI response",
	)

	ErrCodeUpstreamError = errRegistry.Register(
		"UPSTREAM_ERROR",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to get AI response",
	)

	ErrCodeEmptyResponse = errRegistry.Register(
		"EMPTY_RESPONSE",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to get AI response",
	)
)

// Error constructors

func NewRateLimitedError(details string) *errx.Error {
	return errRegistry.New(ErrCodeRateLimited).
		WithDetail("upstream", details)
}

func NewUnauthorizedError(details string) *errx.Error {
	return errRegistry.New(ErrCodeUnauthorized).
		WithDetail("upstream", details)
}

func NewModelUnavailableError(model, details string) *errx.Error {
	return errRegistry.New(ErrCodeModelUnavailable).
		WithDetail("model", model).
		WithDetail("upstream", details)
}

func NewTimeoutError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeTimeout, cause)
}

func NewUpstreamError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeUpstreamError, cause)
}

func NewEmptyResponseError() *errx.Error {
	return errRegistry.New(ErrCodeEmptyResponse)
}

// Classification helpers

func IsRateLimited(err error) bool      { return errx.IsCode(err, ErrCodeRateLimited) }
func IsUnauthorized(err error) bool     { return errx.IsCode(err, ErrCodeUnauthorized) }
func IsModelUnavailable(err error) bool { return errx.IsCode(err, ErrCodeModelUnavailable) }
func IsTimeout(err error) bool          { return errx.IsCode(err, ErrCodeTimeout) }
func IsUpstreamError(err error) bool    { return errx.IsCode(err, ErrCodeUpstreamError) }
func IsEmptyResponse(err error) bool    { return errx.IsCode(err, ErrCodeEmptyResponse) }
