// Package simulation provides a scenario harness for end-to-end tests: it
// assembles a network from declarative specs, generates a series, and
// optionally round-trips the result through an isolated run store.
package simulation

import (
	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/sampler"
)

// Scenario defines one complete simulation experiment.
type Scenario struct {
	Name  string
	Nodes []NodeSpec
	Steps int

	// Options configures the Generate call. The zero value means integer
	// axis, no warm-up, zero replacement.
	Options sampler.GenerateOptions

	// Persist round-trips the frame through the run store before returning
	// it, so scenarios also exercise storage.
	Persist bool
}

// NodeSpec declares one node of the scenario's network.
type NodeSpec struct {
	Name      string
	Intercept float64
	NoiseStd  float64
	Parents   map[models.Parent]float64

	// Feature, when non-nil, makes the node temporal; the stochastic fields
	// are ignored.
	Feature models.TimeFeature
}

// Result captures a completed scenario.
type Result struct {
	Frame *sampler.Frame

	// RunID is set when the scenario persisted its frame.
	RunID string
}
