package avatar

import (
	"net/http"

	"github.com/companion-labs/companion/pkg/errx"
)

// Error registry for avatar rendering failures.
var errRegistry = errx.NewRegistry("AVATAR")

var (
	ErrCodeRenderFailed = errRegistry.Register(
		"RENDER_FAILED",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to create talk video",
	)

	ErrCodeStatusFailed = errRegistry.Register(
		"STATUS_FAILED",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Failed to get talk status",
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
		"Failed to create talk video",
	)
)

func NewRenderFailedError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeRenderFailed, cause)
}

func NewStatusFailedError(cause error) *errx.Error {
	return errRegistry.NewWithCause(ErrCodeStatusFailed, cause)
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
