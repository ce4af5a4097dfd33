package visualization

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/timeline"
)

type flatCPD struct{}

func (flatCPD) Evaluate(map[models.Parent]float64, *rand.Rand) float64 { return 0 }

type stepFeature struct{}

func (stepFeature) Evaluate(tick timeline.Tick) (float64, error) { return float64(tick.Step()), nil }

func testNetwork(t *testing.T) *models.Network {
	t.Helper()
	g := models.NewNetwork()

	a, err := models.New("a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.SetCPD(flatCPD{}); err != nil {
		t.Fatalf("SetCPD: %v", err)
	}

	b, err := models.New("b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.AddParent("a", 1); err != nil {
		t.Fatalf("AddParent: %v", err)
	}
	if err := b.AddParent("phase", 0); err != nil {
		t.Fatalf("AddParent: %v", err)
	}
	if err := b.SetCPD(flatCPD{}); err != nil {
		t.Fatalf("SetCPD: %v", err)
	}

	phase, err := models.NewTemporal("phase", stepFeature{})
	if err != nil {
		t.Fatalf("NewTemporal: %v", err)
	}

	for _, n := range []*models.Node{a, b, phase} {
		if err := g.Add(n); err != nil {
			t.Fatalf("Add(%s): %v", n.Name(), err)
		}
	}
	return g
}

func TestRenderDOT(t *testing.T) {
	dot := RenderDOT(testNetwork(t))

	if !strings.HasPrefix(dot, "digraph dbn {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	// Max lag 1 unrolls every node into two slices.
	for _, id := range []string{`"a@0"`, `"a@1"`, `"b@0"`, `"b@1"`, `"phase@0"`, `"phase@1"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("missing node copy %s", id)
		}
	}
	// Lagged edge crosses slices; zero-lag edge stays within one.
	if !strings.Contains(dot, `"a@0" -> "b@1"`) {
		t.Error("missing lagged edge a@0 -> b@1")
	}
	if !strings.Contains(dot, `"phase@0" -> "b@0"`) {
		t.Error("missing zero-lag edge phase@0 -> b@0")
	}
	// No edge may originate before slice 0.
	if strings.Contains(dot, `"a@-1"`) {
		t.Error("edge rendered from a negative slice")
	}
	if !strings.Contains(dot, "shape=ellipse") {
		t.Error("temporal node should render as an ellipse")
	}
}

func TestRenderJSON(t *testing.T) {
	doc := RenderJSON(testNetwork(t))

	if doc["max_lag"] != 1 {
		t.Errorf("expected max_lag 1, got %v", doc["max_lag"])
	}
	nodes := doc["nodes"].([]map[string]any)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	edges := doc["edges"].([]map[string]any)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	kinds := map[string]string{}
	for _, n := range nodes {
		kinds[n["name"].(string)] = n["kind"].(string)
	}
	if kinds["phase"] != "temporal" || kinds["a"] != "stochastic" {
		t.Errorf("unexpected node kinds: %v", kinds)
	}
}
