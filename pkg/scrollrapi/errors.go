package scrollrapi

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors callers branch on. A 409 on channel creation means the
// channel already exists and is treated as an idempotent no-op by the
// store; everything else propagates.
var (
	ErrConflict     = errors.New("channel already exists")
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
)

// StatusError carries a non-2xx response the sentinels don't cover.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
}

// IsConflict reports whether err is (or wraps) the 409 conflict sentinel.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
