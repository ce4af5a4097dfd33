// Package config loads declarative model definitions from YAML files and
// assembles them into networks, so the CLI can run a simulation without any
// code.
package config

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/dbnsim/internal/evaluator"
	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/sampler"
)

// Model is the root of a model-definition file.
type Model struct {
	// Name identifies the model in stored runs and output filenames.
	Name string `yaml:"name"`

	// Nodes declares the network's variables in order.
	Nodes []NodeSpec `yaml:"nodes"`

	// Generate holds the default generation settings for this model.
	Generate GenerateSpec `yaml:"generate"`
}

// NodeSpec declares one variable. Exactly one of CPD or Feature must be set;
// Feature makes the node temporal and forbids parents.
type NodeSpec struct {
	Name    string       `yaml:"name"`
	Parents []ParentSpec `yaml:"parents,omitempty"`
	CPD     *CPDSpec     `yaml:"cpd,omitempty"`
	Feature *FeatureSpec `yaml:"feature,omitempty"`
}

// ParentSpec declares one lagged parent edge together with its weight in the
// node's distribution.
type ParentSpec struct {
	Name   string  `yaml:"name"`
	Lag    int     `yaml:"lag"`
	Weight float64 `yaml:"weight"`
}

// CPDSpec configures a conditional distribution.
type CPDSpec struct {
	// Kind selects the distribution; "linear-gaussian" is the only kind.
	Kind     string  `yaml:"kind"`
	Mean     float64 `yaml:"mean"`
	NoiseStd float64 `yaml:"noise_std"`
}

// FeatureSpec configures a time feature.
type FeatureSpec struct {
	// Kind is one of "day-of-week", "day-of-month", "month-of-year" or
	// "periodic-cycle".
	Kind        string `yaml:"kind"`
	CycleLength int    `yaml:"cycle_length,omitempty"`
}

// GenerateSpec mirrors sampler.GenerateOptions in file form.
type GenerateSpec struct {
	Steps           int                  `yaml:"steps"`
	TimeColumn      string               `yaml:"time_column,omitempty"`
	StartTime       string               `yaml:"start_time,omitempty"`
	Frequency       string               `yaml:"frequency,omitempty"`
	TimeLayout      string               `yaml:"time_layout,omitempty"`
	Replacement     float64              `yaml:"replacement,omitempty"`
	ExcludeTemporal bool                 `yaml:"exclude_temporal,omitempty"`
	Seed            *uint64              `yaml:"seed,omitempty"`
	InitialValues   map[string][]float64 `yaml:"initial_values,omitempty"`
}

// Load reads and parses a model-definition file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = "model"
	}
	if len(m.Nodes) == 0 {
		return nil, fmt.Errorf("model file %s declares no nodes", path)
	}
	return &m, nil
}

// Build assembles the declared network.
func (m *Model) Build() (*models.Network, error) {
	net := models.NewNetwork()
	for _, spec := range m.Nodes {
		node, err := buildNode(spec)
		if err != nil {
			return nil, err
		}
		if err := net.Add(node); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Options translates the file's generate section into sampler options. A
// declared seed yields a deterministic random source.
func (m *Model) Options() sampler.GenerateOptions {
	opts := sampler.GenerateOptions{
		InitialValues:   m.Generate.InitialValues,
		Replacement:     m.Generate.Replacement,
		TimeColumn:      m.Generate.TimeColumn,
		StartTime:       m.Generate.StartTime,
		Frequency:       m.Generate.Frequency,
		TimeLayout:      m.Generate.TimeLayout,
		ExcludeTemporal: m.Generate.ExcludeTemporal,
	}
	if m.Generate.Seed != nil {
		opts.Rand = rand.New(rand.NewPCG(*m.Generate.Seed, *m.Generate.Seed))
	}
	return opts
}

func buildNode(spec NodeSpec) (*models.Node, error) {
	switch {
	case spec.Feature != nil && spec.CPD != nil:
		return nil, fmt.Errorf("node %q declares both a cpd and a feature", spec.Name)
	case spec.Feature != nil:
		if len(spec.Parents) > 0 {
			return nil, fmt.Errorf("temporal node %q cannot declare parents", spec.Name)
		}
		feature, err := buildFeature(spec.Name, *spec.Feature)
		if err != nil {
			return nil, err
		}
		return models.NewTemporal(spec.Name, feature)
	case spec.CPD == nil:
		return nil, fmt.Errorf("node %q declares neither a cpd nor a feature", spec.Name)
	}

	node, err := models.New(spec.Name)
	if err != nil {
		return nil, err
	}
	weights := make(map[models.Parent]float64, len(spec.Parents))
	for _, p := range spec.Parents {
		if err := node.AddParent(p.Name, p.Lag); err != nil {
			return nil, err
		}
		weights[models.Parent{Name: p.Name, Lag: p.Lag}] = p.Weight
	}

	if spec.CPD.Kind != "linear-gaussian" {
		return nil, fmt.Errorf("node %q: unknown cpd kind %q", spec.Name, spec.CPD.Kind)
	}
	cpd, err := evaluator.NewLinearGaussian(weights, spec.CPD.Mean, spec.CPD.NoiseStd)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", spec.Name, err)
	}
	if err := node.SetCPD(cpd); err != nil {
		return nil, err
	}
	return node, nil
}

func buildFeature(nodeName string, spec FeatureSpec) (models.TimeFeature, error) {
	switch spec.Kind {
	case "day-of-week":
		return evaluator.DayOfWeek{}, nil
	case "day-of-month":
		return evaluator.DayOfMonth{}, nil
	case "month-of-year":
		return evaluator.MonthOfYear{}, nil
	case "periodic-cycle":
		feature, err := evaluator.NewPointOfPeriodicCycle(spec.CycleLength)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nodeName, err)
		}
		return feature, nil
	}
	return nil, fmt.Errorf("node %q: unknown feature kind %q", nodeName, spec.Kind)
}
