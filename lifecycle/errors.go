package lifecycle

import (
	"errors"
	"fmt"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

// Sentinel errors shared across the store and handlers.
var (
	// ErrNotFound covers absent jobs and comments as well as share tokens
	// that exist but have expired.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a conditional update matched zero rows because the
	// job changed underneath the caller. The caller may re-fetch and retry;
	// the controller never retries on its own.
	ErrConflict = errors.New("job was modified concurrently")

	// ErrForbidden means the authenticated user is not allowed to perform
	// the operation (non-owner edit, non-manager review).
	ErrForbidden = errors.New("not permitted")
)

// ValidationError reports a missing or malformed field on a transition or
// request. Never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransitionError reports an operation attempted from a status it is not
// allowed in, e.g. approving a job that is not pending.
type TransitionError struct {
	Op   string
	From models.JobStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a job in status %q", e.Op, e.From)
}

// UpstreamError wraps a failure from the refinement upstream so callers can
// distinguish it from local errors.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("refinement upstream failed during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
