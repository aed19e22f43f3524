package paging

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an access is attempted before the
	// first successful Reset.
	ErrNotInitialized = errors.New("paging engine not initialized")

	// ErrInvalidFrameCount is returned by Reset when the frame count is not
	// positive. Callers are expected to validate input before resetting.
	ErrInvalidFrameCount = errors.New("frame count must be positive")

	// ErrInternalInconsistency marks a broken engine invariant. It is always
	// delivered wrapped in an InconsistencyError.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// InconsistencyError reports an invariant violation detected by the engine.
// Once raised, the engine refuses further accesses until it is reset.
type InconsistencyError struct {
	// PageID is the page being accessed when the violation was found.
	PageID int
	// Detail describes the violated condition.
	Detail string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%v: accessing page %d: %s",
		ErrInternalInconsistency, e.PageID, e.Detail)
}

// Unwrap lets errors.Is match ErrInternalInconsistency.
func (e *InconsistencyError) Unwrap() error {
	return ErrInternalInconsistency
}
