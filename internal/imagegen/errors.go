package imagegen

import "errors"

// Failure classes surfaced by the generation and persistence operations.
// They are informative only: callers receive them flattened into result
// messages, never as raised faults.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrContentPolicy  = errors.New("content policy rejection")
	ErrQuotaExceeded  = errors.New("quota exceeded")
	ErrNetwork        = errors.New("network failure")
	ErrFilesystem     = errors.New("filesystem failure")
)
