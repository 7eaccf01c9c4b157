package chunkmesh

import (
	"errors"
	"fmt"
)

var (
	// ErrEdgeLengthMismatch is returned by ChunkCreate when an edge array's
	// length does not equal 2^level - 1.
	ErrEdgeLengthMismatch = errors.New("chunkmesh: edge array has the wrong length for this mesh's level")

	// ErrChunkCapacityExceeded is returned once a capacity-limited mesh has
	// no more chunk slots to allocate.
	ErrChunkCapacityExceeded = errors.New("chunkmesh: chunk capacity exceeded")

	// ErrUnknownChunk is returned when an operation references a chunk id
	// that is not currently live.
	ErrUnknownChunk = errors.New("chunkmesh: chunk id is not live")
)

// MeshError wraps a sentinel error kind with context.
type MeshError struct {
	Kind error
	Msg  string
}

func (e *MeshError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *MeshError) Unwrap() error { return e.Kind }

func wrapf(kind error, format string, args ...any) error {
	return &MeshError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
