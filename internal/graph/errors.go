package graph

import (
	"errors"
	"fmt"
)

// Error codes for fatal build errors (E300-E399)
const (
	ErrCodeIntegrity   = "E301" // dangling, forward or out-of-range reference
	ErrCodeUnsupported = "E302" // unknown operation kind or parameter
)

var (
	// ErrIntegrity matches every ReferentialIntegrityError.
	ErrIntegrity = errors.New("referential integrity violated")

	// ErrUnsupported matches every UnsupportedOperationError.
	ErrUnsupported = errors.New("unsupported operation")
)

// Integrity failure reasons.
const (
	ReasonMissing  = "missing"  // target id not in the graph
	ReasonForward  = "forward"  // target appended after the referencing node
	ReasonSelf     = "self"     // node references itself
	ReasonSlot     = "slot"     // slot outside the target's declared outputs
	ReasonTerminal = "terminal" // terminal kind count is not one; ToNode holds the kind, Slot the count
)

// ReferentialIntegrityError reports a reference that does not resolve.
// It indicates a defect in stage wiring, never a user input problem.
type ReferentialIntegrityError struct {
	FromNode string
	ToNode   string
	Port     string
	Slot     int
	Reason   string
}

func (e *ReferentialIntegrityError) Error() string {
	switch e.Reason {
	case ReasonSlot:
		return fmt.Sprintf("[%s] node %s input %q: slot %d of node %s out of range", ErrCodeIntegrity, e.FromNode, e.Port, e.Slot, e.ToNode)
	case ReasonForward:
		return fmt.Sprintf("[%s] node %s input %q: references node %s appended later", ErrCodeIntegrity, e.FromNode, e.Port, e.ToNode)
	case ReasonSelf:
		return fmt.Sprintf("[%s] node %s input %q: references itself", ErrCodeIntegrity, e.FromNode, e.Port)
	case ReasonTerminal:
		return fmt.Sprintf("[%s] expected exactly one terminal %q node, found %d", ErrCodeIntegrity, e.ToNode, e.Slot)
	default:
		return fmt.Sprintf("[%s] node %s input %q: references missing node %s", ErrCodeIntegrity, e.FromNode, e.Port, e.ToNode)
	}
}

func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Code returns the error code.
func (e *ReferentialIntegrityError) Code() string {
	return ErrCodeIntegrity
}

// UnsupportedOperationError reports an operation kind, preset or parameter
// the engine does not recognize.
type UnsupportedOperationError struct {
	Kind   string
	Param  string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("[%s] parameter %q: %s", ErrCodeUnsupported, e.Param, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("[%s] operation %q: %s", ErrCodeUnsupported, e.Kind, e.Reason)
	default:
		return fmt.Sprintf("[%s] operation %q is not in the catalog", ErrCodeUnsupported, e.Kind)
	}
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}

// Code returns the error code.
func (e *UnsupportedOperationError) Code() string {
	return ErrCodeUnsupported
}

// IsIntegrityError reports whether err is or wraps a ReferentialIntegrityError.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsUnsupportedError reports whether err is or wraps an UnsupportedOperationError.
func IsUnsupportedError(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
