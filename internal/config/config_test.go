package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/dbnsim/internal/sampler"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	return path
}

const demandModel = `
name: retail-demand
nodes:
  - name: dow
    feature:
      kind: day-of-week
  - name: demand
    parents:
      - { name: demand, lag: 1, weight: 0.8 }
      - { name: dow, lag: 0, weight: 1.5 }
    cpd:
      kind: linear-gaussian
      mean: 10
      noise_std: 0
generate:
  steps: 5
  start_time: "2024-01-01"
  frequency: daily
  seed: 7
  initial_values:
    demand: [20]
`

func TestLoadAndBuild(t *testing.T) {
	m, err := Load(writeModel(t, demandModel))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "retail-demand" {
		t.Errorf("expected name retail-demand, got %q", m.Name)
	}

	net, err := m.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if net.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", net.Len())
	}
	if net.MaxLag() != 1 {
		t.Errorf("expected max lag 1, got %d", net.MaxLag())
	}
	dow, ok := net.Get("dow")
	if !ok || !dow.IsTemporal() {
		t.Error("expected temporal node dow")
	}
	if err := net.Validate(); err != nil {
		t.Errorf("declared network should validate: %v", err)
	}
}

func TestEndToEndGenerate(t *testing.T) {
	m, err := Load(writeModel(t, demandModel))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	net, err := m.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	opts := m.Options()
	if opts.Rand == nil {
		t.Fatal("declared seed should yield a random source")
	}

	frame, err := sampler.New(net).Generate(m.Generate.Steps, opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if frame.Len() != 5 {
		t.Fatalf("expected 5 rows, got %d", frame.Len())
	}
	// Zero noise makes the demand path deterministic: warm-up 20, then
	// 10 + 0.8*prev + 1.5*dow on a calendar starting Monday 2024-01-01.
	if got := frame.Value("demand", 0); got != 20 {
		t.Errorf("row 0: expected warm-up 20, got %g", got)
	}
	if got := frame.Value("demand", 1); got != 10+0.8*20+1.5*2 {
		t.Errorf("row 1: expected %g, got %g", 10+0.8*20+1.5*2, got)
	}
	if got := frame.Value("dow", 0); got != 1 {
		t.Errorf("dow row 0: expected derived warm-up 1, got %g", got)
	}
}

func TestLoadRejectsBadModels(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "no nodes",
			content: "name: empty\n",
			errPart: "no nodes",
		},
		{
			name: "unknown cpd kind",
			content: `
nodes:
  - name: a
    cpd: { kind: student-t }
`,
			errPart: "unknown cpd kind",
		},
		{
			name: "unknown feature kind",
			content: `
nodes:
  - name: a
    feature: { kind: hour-of-day }
`,
			errPart: "unknown feature kind",
		},
		{
			name: "temporal with parents",
			content: `
nodes:
  - name: a
    parents: [{ name: b, lag: 0, weight: 1 }]
    feature: { kind: day-of-week }
`,
			errPart: "cannot declare parents",
		},
		{
			name: "neither cpd nor feature",
			content: `
nodes:
  - name: a
`,
			errPart: "neither",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Load(writeModel(t, tc.content))
			if err == nil {
				_, err = m.Build()
			}
			if err == nil || !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("expected error containing %q, got %v", tc.errPart, err)
			}
		})
	}
}
