package simulation

import (
	"context"
	"testing"

	"github.com/nvandessel/dbnsim/internal/evaluator"
	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/sampler"
	"github.com/nvandessel/dbnsim/internal/store"
)

// Runner executes scenarios against a real sampler and an isolated SQLite
// run store.
type Runner struct {
	t     *testing.T
	store *store.RunStore
}

// NewRunner creates a runner with a store rooted in a temp directory.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunner: open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return &Runner{t: t, store: s}
}

// Run executes the scenario and returns the collected result. Assembly or
// generation failures fail the test immediately.
func (r *Runner) Run(scenario Scenario) Result {
	r.t.Helper()

	net := r.buildNetwork(scenario)
	frame, err := sampler.New(net).Generate(scenario.Steps, scenario.Options)
	if err != nil {
		r.t.Fatalf("scenario %s: Generate: %v", scenario.Name, err)
	}

	result := Result{Frame: frame}
	if scenario.Persist {
		ctx := context.Background()
		id, err := r.store.SaveRun(ctx, scenario.Name, frame)
		if err != nil {
			r.t.Fatalf("scenario %s: SaveRun: %v", scenario.Name, err)
		}
		loaded, err := r.store.LoadRun(ctx, id)
		if err != nil {
			r.t.Fatalf("scenario %s: LoadRun: %v", scenario.Name, err)
		}
		result.Frame = loaded
		result.RunID = id
	}
	return result
}

// buildNetwork assembles the scenario's node specs into a network.
func (r *Runner) buildNetwork(scenario Scenario) *models.Network {
	r.t.Helper()
	net := models.NewNetwork()
	for _, spec := range scenario.Nodes {
		node := r.buildNode(scenario.Name, spec)
		if err := net.Add(node); err != nil {
			r.t.Fatalf("scenario %s: Add(%s): %v", scenario.Name, spec.Name, err)
		}
	}
	return net
}

func (r *Runner) buildNode(scenarioName string, spec NodeSpec) *models.Node {
	r.t.Helper()
	if spec.Feature != nil {
		node, err := models.NewTemporal(spec.Name, spec.Feature)
		if err != nil {
			r.t.Fatalf("scenario %s: NewTemporal(%s): %v", scenarioName, spec.Name, err)
		}
		return node
	}

	node, err := models.New(spec.Name)
	if err != nil {
		r.t.Fatalf("scenario %s: New(%s): %v", scenarioName, spec.Name, err)
	}
	for p := range spec.Parents {
		if err := node.AddParent(p.Name, p.Lag); err != nil {
			r.t.Fatalf("scenario %s: AddParent(%s): %v", scenarioName, p, err)
		}
	}
	cpd, err := evaluator.NewLinearGaussian(spec.Parents, spec.Intercept, spec.NoiseStd)
	if err != nil {
		r.t.Fatalf("scenario %s: NewLinearGaussian(%s): %v", scenarioName, spec.Name, err)
	}
	if err := node.SetCPD(cpd); err != nil {
		r.t.Fatalf("scenario %s: SetCPD(%s): %v", scenarioName, spec.Name, err)
	}
	return node
}
