package statemap

import (
	"fmt"
	"strings"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// contextNameSuffixes are stripped before comparing context names, so that
// ThemeContext, ThemeProvider and useThemeContext all refer to one context.
var contextNameSuffixes = []string{"context", "provider", "consumer"}

func normalizeContextName(name string) string {
	normalized := strings.ToLower(name)
	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range contextNameSuffixes {
			if len(normalized) > len(suffix) && strings.HasSuffix(normalized, suffix) {
				normalized = normalized[:len(normalized)-len(suffix)]
				stripped = true
			}
		}
	}
	return normalized
}

// contextNamesMatch compares two context names after normalization, with
// containment as a fallback for naming variance the suffix list misses.
func contextNamesMatch(a, b string) bool {
	na, nb := normalizeContextName(a), normalizeContextName(b)
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// LeakTarget is one child that received context-derived values as props.
type LeakTarget struct {
	ChildID string   `json:"childId" yaml:"childId"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ContextLeak reports a component that consumes a context and re-exposes its
// fields as ordinary props to children already inside the context's reach.
type ContextLeak struct {
	ContextName     string       `json:"contextName" yaml:"contextName"`
	ComponentID     string       `json:"componentId" yaml:"componentId"`
	ExtractedValues []string     `json:"extractedValues,omitempty" yaml:"extractedValues,omitempty"`
	Targets         []LeakTarget `json:"targets,omitempty" yaml:"targets,omitempty"`
	Severity        Severity     `json:"severity" yaml:"severity"`
	Suggestion      string       `json:"suggestion" yaml:"suggestion"`
}

// leakSeverity is a pure function of the number of leaked field names.
func leakSeverity(fieldCount int) Severity {
	switch {
	case fieldCount >= 5:
		return SeverityHigh
	case fieldCount >= 3:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// detectLeaks emits a ContextLeak for every component that both consumes a
// context and forwards its destructured fields (or the whole value) to a
// child lying within the same context's boundary. Unlike bundles, every
// severity is surfaced.
func (b *builder) detectLeaks() {
	for _, componentID := range b.order {
		record := b.recordOf[componentID]
		for _, use := range record.ContextConsumers {
			leak := b.collectLeak(componentID, record, use)
			if leak == nil {
				continue
			}
			b.graph.ContextLeaks = append(b.graph.ContextLeaks, leak)
			b.graph.Warnings = append(b.graph.Warnings, &Warning{
				FilePath: record.FilePath,
				Line:     use.Line,
				Code:     CodeContextLeak,
				Message:  fmt.Sprintf("context leak (%s severity): %s", leak.Severity, leak.Suggestion),
			})
		}
	}
}

func (b *builder) collectLeak(componentID string, record *ir.Component, use ir.ContextUse) *ContextLeak {
	fieldSet := map[string]bool{}
	for _, field := range use.Fields {
		fieldSet[field] = true
	}

	var leak *ContextLeak
	seen := map[string]bool{}
	for _, invocation := range record.ChildInvocations {
		childID, known := b.idByName[invocation.Callee]
		if !known || childID == componentID {
			continue
		}
		if !b.withinBoundary(use.Name, childID) {
			continue
		}
		var passed []string
		for _, arg := range invocation.Args {
			if arg.Kind != ir.ArgIdentifier {
				continue
			}
			if fieldSet[arg.Value] || (use.LocalName != "" && arg.Value == use.LocalName) {
				passed = append(passed, arg.Value)
			}
		}
		if len(passed) == 0 {
			continue
		}
		if leak == nil {
			leak = &ContextLeak{ContextName: use.Name, ComponentID: componentID}
		}
		leak.Targets = append(leak.Targets, LeakTarget{ChildID: childID, Fields: passed})
		for _, field := range passed {
			if !seen[field] {
				seen[field] = true
				leak.ExtractedValues = append(leak.ExtractedValues, field)
			}
		}
	}
	if leak == nil {
		return nil
	}
	leak.Severity = leakSeverity(len(leak.ExtractedValues))
	first := b.graph.Components[leak.Targets[0].ChildID]
	leak.Suggestion = fmt.Sprintf("%s already sits inside the %s boundary; let it consume %s directly instead of receiving %s as props from %s",
		first.Name, use.Name, use.Name, strings.Join(leak.ExtractedValues, ", "), record.Name)
	return leak
}

// withinBoundary reports whether the child lies inside the reach of a
// provider of the named context. When no provider for the context exists in
// the analyzed set the reach is unknown and treated as global, mirroring the
// builder's best-effort resolution fallback.
func (b *builder) withinBoundary(contextName, childID string) bool {
	matched := false
	for _, boundary := range b.graph.ContextBoundaries {
		if !contextNamesMatch(boundary.ContextName, contextName) {
			continue
		}
		matched = true
		if b.reach[boundary][childID] {
			return true
		}
	}
	return !matched
}
