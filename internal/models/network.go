package models

import (
	"fmt"
	"strings"
)

// Network owns all nodes of a dynamic Bayesian network, keyed by name.
// Iteration order falls back to insertion order wherever no dependency
// ordering is required, which keeps every derived ordering deterministic.
type Network struct {
	nodes  map[string]*Node
	order  []string
	maxLag int
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{nodes: make(map[string]*Node)}
}

// Add inserts a node. Inserting a second node under an existing name is an
// error rather than a silent overwrite. The network's maximum lag is updated
// from the node's parent edges.
func (g *Network) Add(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidNode)
	}
	if _, exists := g.nodes[n.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.Name())
	}
	g.nodes[n.Name()] = n
	g.order = append(g.order, n.Name())
	for _, p := range n.Parents() {
		if p.Lag > g.maxLag {
			g.maxLag = p.Lag
		}
	}
	return nil
}

// Get returns the node registered under name.
func (g *Network) Get(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of nodes in the network.
func (g *Network) Len() int { return len(g.order) }

// Names returns all node names in insertion order.
func (g *Network) Names() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Nodes returns all nodes in insertion order.
func (g *Network) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		nodes = append(nodes, g.nodes[name])
	}
	return nodes
}

// MaxLag returns the largest lag on any parent edge in the network. It
// determines how many warm-up rows a generated series needs. Edges added
// after a node was inserted are not seen; parents are expected to be declared
// before Add, which is how the config loader and the tests assemble networks.
func (g *Network) MaxLag() int { return g.maxLag }

// RecomputeMaxLag rescans every edge and refreshes the stored maximum lag.
// Needed only when parents were added to a node after it entered the network.
func (g *Network) RecomputeMaxLag() int {
	g.maxLag = 0
	for _, n := range g.nodes {
		for _, p := range n.Parents() {
			if p.Lag > g.maxLag {
				g.maxLag = p.Lag
			}
		}
	}
	return g.maxLag
}

// Validate checks the structural invariants that make a network samplable:
// every parent reference resolves to a declared node, every stochastic node
// carries a distribution, and the zero-lag subgraph is acyclic.
func (g *Network) Validate() error {
	for _, name := range g.order {
		n := g.nodes[name]
		if !n.IsTemporal() && n.CPD() == nil {
			return fmt.Errorf("%w: node %q has no distribution assigned", ErrInvalidNode, name)
		}
		for _, p := range n.Parents() {
			if _, ok := g.nodes[p.Name]; !ok {
				return fmt.Errorf("%w: node %q references %s", ErrUnknownParent, name, p)
			}
		}
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return err
	}
	return nil
}

// TopologicalOrder returns the nodes sorted so that every zero-lag parent
// precedes its children. Only lag-0 edges constrain the order: a parent with
// lag >= 1 was finalized on an earlier timestep and can never force an
// ordering within the current one. Nodes without mutual constraints keep
// their insertion order. A cycle among zero-lag edges returns ErrCycle naming
// the nodes involved.
func (g *Network) TopologicalOrder() ([]*Node, error) {
	// In-degree restricted to lag-0 edges whose parent actually exists;
	// dangling references are Validate's concern, not an ordering one.
	indegree := make(map[string]int, len(g.order))
	children := make(map[string][]string, len(g.order))
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, name := range g.order {
		for _, p := range g.nodes[name].Parents() {
			if p.Lag != 0 {
				continue
			}
			if _, ok := g.nodes[p.Name]; !ok {
				continue
			}
			indegree[name]++
			children[p.Name] = append(children[p.Name], name)
		}
	}

	ordered := make([]*Node, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(ordered) < len(g.order) {
		progressed := false
		for _, name := range g.order {
			if done[name] || indegree[name] > 0 {
				continue
			}
			done[name] = true
			ordered = append(ordered, g.nodes[name])
			for _, child := range children[name] {
				indegree[child]--
			}
			progressed = true
		}
		if !progressed {
			var remaining []string
			for _, name := range g.order {
				if !done[name] {
					remaining = append(remaining, name)
				}
			}
			return nil, fmt.Errorf("%w: involving %s", ErrCycle, strings.Join(remaining, ", "))
		}
	}
	return ordered, nil
}
