package models

import "errors"

// Sentinel errors returned by node and network operations. Callers match them
// with errors.Is; the wrapped message names the offending node or reference.
var (
	// ErrInvalidNode marks a configuration error: a node assembled in a way
	// that can never evaluate (nil distribution, nil time feature, negative
	// lag, parents on a temporal node).
	ErrInvalidNode = errors.New("invalid node configuration")

	// ErrDuplicateNode is returned when adding a node whose name is already
	// present in the network.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownParent is returned by Validate when a parent reference does
	// not resolve to any node in the network.
	ErrUnknownParent = errors.New("parent not declared in network")

	// ErrCycle is returned when the zero-lag subgraph contains a cycle, which
	// makes the per-timestep evaluation order undefined.
	ErrCycle = errors.New("cycle in zero-lag dependencies")
)
