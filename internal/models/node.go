// Package models defines the graph model of a dynamic Bayesian network:
// nodes with lagged parent references, the network container that owns them,
// and the zero-lag topological ordering the sampler evaluates nodes in.
package models

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/dbnsim/internal/timeline"
)

// Parent identifies one incoming edge: the parent node's name and the number
// of timesteps in the past its value is read from. Lag 0 means the same
// timestep.
type Parent struct {
	Name string
	Lag  int
}

func (p Parent) String() string {
	return fmt.Sprintf("%s[lag %d]", p.Name, p.Lag)
}

// CPD computes a node's value from its parents' values. Implementations live
// in the evaluator package; the contract is defined here, on the consumer
// side. Keys absent from the input must be treated as contributing nothing.
// The random source is threaded in by the sampler so runs are reproducible.
type CPD interface {
	Evaluate(parents map[Parent]float64, rng *rand.Rand) float64
}

// TimeFeature computes a value purely from a position on the time axis.
// Implementations that need calendar semantics return an error for ticks on
// an integer axis.
type TimeFeature interface {
	Evaluate(tick timeline.Tick) (float64, error)
}

// Node is one variable in the network. A node is either stochastic (parents
// plus a CPD) or temporal (a time feature, no parents); the kind is determined
// by which of the two is populated.
type Node struct {
	name    string
	parents []Parent
	cpd     CPD
	feature TimeFeature
}

// New creates a stochastic node. A distribution must be assigned with SetCPD
// before the node can be sampled.
func New(name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: node name must not be empty", ErrInvalidNode)
	}
	return &Node{name: name}, nil
}

// NewTemporal creates a temporal node whose value is derived from the time
// axis alone. The feature is validated at assembly time, never at evaluation.
func NewTemporal(name string, feature TimeFeature) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: node name must not be empty", ErrInvalidNode)
	}
	if feature == nil {
		return nil, fmt.Errorf("%w: temporal node %q needs a time feature", ErrInvalidNode, name)
	}
	return &Node{name: name, feature: feature}, nil
}

// AddParent appends a lagged parent edge. Duplicate (name, lag) pairs are
// permitted here, but they resolve to a single Parent key at evaluation time,
// so a distribution sees one value and one weight for the pair.
func (n *Node) AddParent(parentName string, lag int) error {
	if n.IsTemporal() {
		return fmt.Errorf("%w: temporal node %q cannot have parents", ErrInvalidNode, n.name)
	}
	if parentName == "" {
		return fmt.Errorf("%w: parent name must not be empty", ErrInvalidNode)
	}
	if lag < 0 {
		return fmt.Errorf("%w: parent %q has negative lag %d", ErrInvalidNode, parentName, lag)
	}
	n.parents = append(n.parents, Parent{Name: parentName, Lag: lag})
	return nil
}

// SetCPD assigns the node's conditional distribution. A nil distribution is
// rejected immediately rather than surfacing as a panic during sampling.
func (n *Node) SetCPD(cpd CPD) error {
	if n.IsTemporal() {
		return fmt.Errorf("%w: temporal node %q cannot carry a distribution", ErrInvalidNode, n.name)
	}
	if cpd == nil {
		return fmt.Errorf("%w: node %q given a nil distribution", ErrInvalidNode, n.name)
	}
	n.cpd = cpd
	return nil
}

// Name returns the node's unique identifier within its network.
func (n *Node) Name() string { return n.name }

// Parents returns the node's parent edges in declaration order. Temporal
// nodes naturally return an empty list. The slice is shared; treat it as
// read-only.
func (n *Node) Parents() []Parent { return n.parents }

// CPD returns the assigned distribution, or nil if none has been set.
func (n *Node) CPD() CPD { return n.cpd }

// Feature returns the time feature of a temporal node, nil otherwise.
func (n *Node) Feature() TimeFeature { return n.feature }

// IsTemporal reports whether the node derives its value from time alone.
func (n *Node) IsTemporal() bool { return n.feature != nil }
