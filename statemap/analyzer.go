package statemap

import (
	"github.com/olafglad/react-state-map-sub000/ir"
)

// Analyze runs one full synchronous pass over the given IR records: graph
// construction with the drilling propagator, role classification and the
// three heuristic detectors. The returned graph is complete and owned by the
// caller; no state is shared with later runs. Per-file collection failures
// belong to the run result and are attached via fileErrors.
func (a *Analyzer) Analyze(records []*ir.Component, fileErrors ...*FileError) *Graph {
	b := newBuilder(a.threshold)
	graph := b.build(records)
	b.classifyRoles()
	b.detectBundles()
	b.detectLeaks()
	b.trackRenames()
	graph.Errors = append(graph.Errors, fileErrors...)
	return graph
}
