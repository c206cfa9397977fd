package speech

import (
	"net/http"

	"github.com/companion-labs/companion/pkg/errx"
)

// Error registry for speech synthesis failures.
var errRegistry = errx.NewRegistry("SPEECH")

var (
	ErrCodeSynthesisFailed = errRegistry.Register(
		"SYNTHESIS_FAILED",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to generate speech",
	)

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

	ErrCodeTimeout = errRegistry.Register(
		"TIMEOUT",
		errx.TypeTimeout,
		http.StatusInternalServerError,
		"Failed to generate speech",
	)
)

func NewSynthesisFailedError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeSynthesisFailed, cause)
}

func NewRateLimitedError(details string) *errx.Error {
	return errRegistry.New(ErrCodeRateLimited).
		WithDetail("upstream", details)
}

func NewUnauthorizedError(details string) *errx.Error {
	return errRegistry.New(ErrCodeUnauthorized).
		WithDetail("upstream", details)
}

func NewTimeoutError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeTimeout, cause)
}
