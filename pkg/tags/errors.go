package tags

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for scheduler operations.
var (
	ErrInvalidQuerySize = errors.New("tags: query bitset has the wrong number of words")
	ErrInvalidOutSize   = errors.New("tags: output bitset has the wrong number of words")
	ErrUnknownTag       = errors.New("tags: tag id out of range")
	ErrUnknownTask      = errors.New("tags: task id out of range")
)

// SchedulerError wraps a sentinel error kind with scheduler-specific
// context.
type SchedulerError struct {
	Kind error
	Msg  string
}

func (e *SchedulerError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *SchedulerError) Unwrap() error { return e.Kind }

func wrapf(kind error, format string, args ...any) error {
	return &SchedulerError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
