// Package sampler walks a network timestep by timestep and produces the
// generated time series. Within a timestep, nodes are evaluated in zero-lag
// topological order; lagged references resolve against already-finalized
// history, so the whole pass is strictly sequential.
package sampler

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/timeline"
)

// DefaultTimeColumn is the name of the time axis column when none is set.
const DefaultTimeColumn = "Time"

// GenerateOptions configures a single Generate call. The zero value is valid:
// integer axis, no warm-up values, zero replacement for pre-history lookups,
// and a randomly seeded source.
type GenerateOptions struct {
	// InitialValues seeds the first MaxLag rows per stochastic node. When
	// non-nil, every non-temporal node must be present with exactly MaxLag
	// values; temporal nodes are derived from the axis and must not be
	// supplied. The map is never mutated.
	InitialValues map[string][]float64

	// Replacement substitutes for parent lookups before timestep 0.
	Replacement float64

	// TimeColumn names the axis column. Defaults to DefaultTimeColumn.
	TimeColumn string

	// StartTime and Frequency switch the axis to calendar mode. Either both
	// are set or neither; setting only one is an argument error. TimeLayout
	// optionally pins the format StartTime is parsed with.
	StartTime  string
	Frequency  string
	TimeLayout string

	// ExcludeTemporal drops temporal node columns from the output. They still
	// participate in generation and downstream nodes see their values.
	ExcludeTemporal bool

	// Rand is the random source for stochastic draws. When nil, a freshly
	// seeded source is used; supply a seeded one for reproducible runs.
	Rand *rand.Rand
}

// Sequential generates time series from one network. It never mutates the
// network; a single value is safe to reuse across Generate calls, though each
// call must complete before the next starts.
type Sequential struct {
	net *models.Network
}

// New creates a sampler over net.
func New(net *models.Network) *Sequential {
	return &Sequential{net: net}
}

// Generate produces nSteps rows. It validates arguments and network structure
// up front; no partial output is ever returned.
func (s *Sequential) Generate(nSteps int, opts GenerateOptions) (*Frame, error) {
	if nSteps < 1 {
		return nil, fmt.Errorf("number of steps must be positive, got %d", nSteps)
	}
	timeColumn := opts.TimeColumn
	if timeColumn == "" {
		timeColumn = DefaultTimeColumn
	}
	if _, clash := s.net.Get(timeColumn); clash {
		return nil, fmt.Errorf("time column %q collides with a node name", timeColumn)
	}

	ticks, err := s.axis(nSteps, opts)
	if err != nil {
		return nil, err
	}

	if err := s.net.Validate(); err != nil {
		return nil, err
	}
	ordered, err := s.net.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	series := make(map[string][]float64, s.net.Len())
	for _, name := range s.net.Names() {
		series[name] = make([]float64, nSteps)
	}

	start := 0
	if opts.InitialValues != nil {
		if maxLag := s.net.MaxLag(); maxLag > nSteps {
			return nil, fmt.Errorf("number of steps %d is smaller than the warm-up window %d", nSteps, maxLag)
		}
		if err := s.seedWarmup(series, ticks, opts.InitialValues); err != nil {
			return nil, err
		}
		start = s.net.MaxLag()
	}

	for t := start; t < nSteps; t++ {
		for _, node := range ordered {
			var value float64
			if node.IsTemporal() {
				value, err = node.Feature().Evaluate(ticks[t])
				if err != nil {
					return nil, fmt.Errorf("evaluate temporal node %q: %w", node.Name(), err)
				}
			} else {
				parents := make(map[models.Parent]float64, len(node.Parents()))
				for _, p := range node.Parents() {
					lagged := t - p.Lag
					if lagged >= 0 {
						// Guaranteed available: same-timestep parents were
						// evaluated earlier along the zero-lag order, lagged
						// ones on a fully computed earlier timestep.
						parents[p] = series[p.Name][lagged]
					} else {
						parents[p] = opts.Replacement
					}
				}
				value = node.CPD().Evaluate(parents, rng)
			}
			series[node.Name()][t] = value
		}
	}

	columns := make([]string, 0, s.net.Len())
	data := make(map[string][]float64, s.net.Len())
	for _, node := range s.net.Nodes() {
		if opts.ExcludeTemporal && node.IsTemporal() {
			continue
		}
		columns = append(columns, node.Name())
		data[node.Name()] = series[node.Name()]
	}
	return NewFrame(timeColumn, ticks, columns, data)
}

// axis builds the time axis, enforcing that StartTime and Frequency are
// either both present or both absent.
func (s *Sequential) axis(nSteps int, opts GenerateOptions) ([]timeline.Tick, error) {
	switch {
	case opts.StartTime != "" && opts.Frequency == "":
		return nil, fmt.Errorf("start time given without a frequency")
	case opts.StartTime == "" && opts.Frequency != "":
		return nil, fmt.Errorf("frequency given without a start time")
	case opts.StartTime != "":
		return timeline.Calendar(nSteps, opts.StartTime, opts.Frequency, opts.TimeLayout)
	}
	return timeline.Steps(nSteps), nil
}

// seedWarmup fills the first MaxLag rows. Temporal nodes are derived from the
// axis; every other node must be supplied with exactly MaxLag values.
func (s *Sequential) seedWarmup(series map[string][]float64, ticks []timeline.Tick, initial map[string][]float64) error {
	maxLag := s.net.MaxLag()

	var missing, unknown []string
	for _, node := range s.net.Nodes() {
		if node.IsTemporal() {
			continue
		}
		if _, ok := initial[node.Name()]; !ok {
			missing = append(missing, node.Name())
		}
	}
	for name := range initial {
		node, ok := s.net.Get(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		// Temporal warm-up values are derived, not supplied; a caller entry
		// for one is ignored rather than trusted.
		if node.IsTemporal() {
			continue
		}
		if got := len(initial[name]); got != maxLag {
			return fmt.Errorf("expected %d initial value(s) for node %q, found %d", maxLag, name, got)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("initial values missing for node(s) %s", strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("initial values given for unknown node(s) %s", strings.Join(unknown, ", "))
	}

	for _, node := range s.net.Nodes() {
		if node.IsTemporal() {
			for t := 0; t < maxLag; t++ {
				value, err := node.Feature().Evaluate(ticks[t])
				if err != nil {
					return fmt.Errorf("derive warm-up for temporal node %q: %w", node.Name(), err)
				}
				series[node.Name()][t] = value
			}
			continue
		}
		copy(series[node.Name()][:maxLag], initial[node.Name()])
	}
	return nil
}
