package skeleton

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for topology operations.
var (
	// ErrCapacityExceeded is returned by a NoAutoResize IdRegistry once its
	// fixed capacity is exhausted, instead of growing.
	ErrCapacityExceeded = errors.New("skeleton: id registry capacity exceeded")

	// ErrIdNotLive is returned when an operation references an ID absent
	// from its registry.
	ErrIdNotLive = errors.New("skeleton: id is not live")

	// ErrRefcountUnderflow is a debug-only assert: decrementing a refcount
	// already at zero. It is fatal (panics) when StrictDebugChecks is on.
	ErrRefcountUnderflow = errors.New("skeleton: refcount underflow")

	// ErrAlreadySubdivided names the "triangle already subdivided" case.
	// No function in this package returns it: TriSubdiv treats a repeat
	// subdivision as a no-op and reports it through its created result.
	ErrAlreadySubdivided = errors.New("skeleton: triangle is already subdivided")

	// ErrNotCollapsible is returned by TriGroupRemove for a group with no
	// parent triangle, e.g. a root group seeded by TriGroupCreateSingle.
	ErrNotCollapsible = errors.New("skeleton: triangle group cannot be collapsed")
)

// SkeletonError wraps a sentinel error kind with context.
type SkeletonError struct {
	Kind error
	Msg  string
}

func (e *SkeletonError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *SkeletonError) Unwrap() error { return e.Kind }

func wrapf(kind error, format string, args ...any) error {
	return &SkeletonError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
