// Package visualization renders the network structure in text formats. The
// DOT output unrolls the network over time: one copy of every node per slice
// from 0 to the maximum lag, with lagged edges crossing slices.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/dbnsim/internal/models"
)

// RenderDOT produces a Graphviz DOT digraph of the time-unrolled network.
// Temporal nodes are drawn as ellipses, stochastic nodes as boxes; edge
// labels carry the lag.
func RenderDOT(net *models.Network) string {
	var b strings.Builder
	b.WriteString("digraph dbn {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	maxLag := net.MaxLag()
	for slice := 0; slice <= maxLag; slice++ {
		for _, node := range net.Nodes() {
			shape, color := "box", "steelblue"
			if node.IsTemporal() {
				shape, color = "ellipse", "goldenrod"
			}
			b.WriteString(fmt.Sprintf("  %q [label=%q, shape=%s, fillcolor=%q];\n",
				sliceID(node.Name(), slice), fmt.Sprintf("%s(t-%d)", node.Name(), maxLag-slice), shape, color))
		}
	}
	b.WriteString("\n")

	for _, node := range net.Nodes() {
		for _, p := range node.Parents() {
			for slice := 0; slice <= maxLag; slice++ {
				parentSlice := slice - p.Lag
				if parentSlice < 0 {
					continue
				}
				b.WriteString(fmt.Sprintf("  %q -> %q [label=\"lag %d\"];\n",
					sliceID(p.Name, parentSlice), sliceID(node.Name(), slice), p.Lag))
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func sliceID(name string, slice int) string {
	return fmt.Sprintf("%s@%d", name, slice)
}

// RenderJSON produces a plain document with nodes and edges arrays, one entry
// per declared edge (not unrolled).
func RenderJSON(net *models.Network) map[string]any {
	nodes := make([]map[string]any, 0, net.Len())
	edges := make([]map[string]any, 0)
	for _, node := range net.Nodes() {
		kind := "stochastic"
		if node.IsTemporal() {
			kind = "temporal"
		}
		nodes = append(nodes, map[string]any{
			"name": node.Name(),
			"kind": kind,
		})
		for _, p := range node.Parents() {
			edges = append(edges, map[string]any{
				"source": p.Name,
				"target": node.Name(),
				"lag":    p.Lag,
			})
		}
	}
	return map[string]any{
		"max_lag": net.MaxLag(),
		"nodes":   nodes,
		"edges":   edges,
	}
}
