package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPayload  = errors.New("workflow: malformed payload")
	ErrDanglingReference = errors.New("workflow: dangling reference")
	ErrInvalidGraph      = errors.New("workflow: invalid graph")
	ErrBlockingCycle     = errors.New("workflow: task blocking relationships form a cycle")
)

// MalformedPayloadError reports a config or style field that is not a JSON
// object.
type MalformedPayloadError struct {
	Element string // "node" or "edge"
	ID      string
	Field   string // "config" or "style"
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("workflow: malformed %s on %s %q: %v", e.Field, e.Element, e.ID, e.Err)
}

func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// DanglingReferenceError reports an edge endpoint that names no node.
type DanglingReferenceError struct {
	EdgeID string
	End    string // "source" or "target"
	NodeID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("workflow: edge %q %s references unknown node %q", e.EdgeID, e.End, e.NodeID)
}

func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// ValidationError reports a graph that breaks a structural invariant.
type ValidationError struct {
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow: invalid graph: %s %q", e.Reason, e.ID)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidGraph
}
