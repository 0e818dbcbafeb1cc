package meshbuf

import (
	"errors"
	"fmt"
)

// Error taxonomy.
//
// Programmer errors wrap ErrContractViolation. Expected absences are
// ErrNotFound and ErrMissingChannel, which callers check for routinely.
var (
	// ErrContractViolation is the root of every misuse error.
	ErrContractViolation = errors.New("meshbuf: contract violation")

	// ErrNotFound is returned when a vertex or index lies beyond the valid range.
	ErrNotFound = errors.New("meshbuf: not found")

	// ErrMissingChannel is returned when reading a channel that was never created.
	ErrMissingChannel = errors.New("meshbuf: missing channel")

	// ErrEmptyWrite is returned for writes with no components. Nothing changes.
	ErrEmptyWrite = errors.New("meshbuf: empty write")
)

// Contract violations.
var (
	// ErrSizeMismatch is returned when a write or interleave request
	// disagrees with a channel's established component size.
	ErrSizeMismatch = contractError("component size mismatch")

	// ErrInterleaved is returned when mutating coordinates on an interleaved container.
	ErrInterleaved = contractError("container is interleaved")

	// ErrNoChannels is returned by InterleaveCurrent before any channel exists.
	ErrNoChannels = contractError("no channels to interleave")

	// ErrInvalidSize is returned for channel sizes outside 1..4 or
	// invalid container dimensions.
	ErrInvalidSize = contractError("invalid size")

	// ErrOutOfRange is returned when a write addresses a vertex or index
	// outside the allocation.
	ErrOutOfRange = contractError("out of range")

	// ErrInvalidStripCounts is returned when a strip-count table does not
	// fit the topology or the vertex/index count.
	ErrInvalidStripCounts = contractError("invalid strip counts")
)

// contractError creates a sentinel that matches ErrContractViolation with errors.Is.
func contractError(msg string) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, msg)
}
