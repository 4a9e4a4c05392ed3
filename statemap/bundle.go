package statemap

import (
	"fmt"
	"strings"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// SizeUnknown marks bundles whose field count is not statically visible.
const SizeUnknown = -1

// bundleSuffixes is the vocabulary of name endings that flag a bare reference
// as a probable multi-field aggregate.
var bundleSuffixes = []string{
	"data", "config", "options", "info", "value", "state",
	"props", "settings", "params", "context", "fields", "form",
}

// looksLikeBundle reports whether a bare reference name matches the bundle
// suffix vocabulary, case-insensitively.
func looksLikeBundle(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range bundleSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// PropBundle is a named multi-field prop value and the components that
// forward it without consuming any of its fields.
type PropBundle struct {
	Name           string   `json:"name" yaml:"name"`
	EstimatedSize  int      `json:"estimatedSize" yaml:"estimatedSize"`
	Fields         []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	PassThroughIDs []string `json:"passThroughIds,omitempty" yaml:"passThroughIds,omitempty"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`

	filePath string
	line     int
}

// bundleSeverity is a pure function of estimated size and pass-through count.
func bundleSeverity(size, passThroughs int) Severity {
	switch {
	case size >= 10 || passThroughs >= 3:
		return SeverityHigh
	case size >= 5 || passThroughs >= 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func bundleRecommendation(bundle *PropBundle) string {
	switch {
	case len(bundle.PassThroughIDs) >= 3:
		return fmt.Sprintf("%q travels through %d components untouched; move it into a context or a state-management store", bundle.Name, len(bundle.PassThroughIDs))
	case bundle.EstimatedSize >= 10:
		return fmt.Sprintf("%q aggregates %d fields; split it into smaller, purpose-specific props", bundle.Name, bundle.EstimatedSize)
	default:
		return fmt.Sprintf("review whether every field of %q is needed by its receivers", bundle.Name)
	}
}

// detectBundles scans child invocations for multi-field aggregates: inline
// object literals with statically visible fields, and bare references whose
// name matches the bundle suffix vocabulary (size unknown). Only medium and
// high findings reach the warning list; low-severity bundles stay in the
// bundle list for consumers that want them.
func (b *builder) detectBundles() {
	byName := map[string]*PropBundle{}
	var namesInOrder []string

	for _, componentID := range b.order {
		record := b.recordOf[componentID]
		for _, invocation := range record.ChildInvocations {
			if _, known := b.idByName[invocation.Callee]; !known {
				continue
			}
			for _, arg := range invocation.Args {
				var size int
				var fields []string
				switch {
				case arg.Kind == ir.ArgLiteralAggregate && len(arg.Fields) >= 1:
					// Spread members are unsized and do not add to the count.
					size = len(arg.Fields)
					fields = arg.Fields
				case arg.Kind == ir.ArgIdentifier && looksLikeBundle(arg.Value):
					size = SizeUnknown
				default:
					continue
				}
				bundle, ok := byName[arg.Name]
				if !ok {
					bundle = &PropBundle{
						Name:          arg.Name,
						EstimatedSize: size,
						Fields:        fields,
						filePath:      record.FilePath,
						line:          invocation.Line,
					}
					byName[arg.Name] = bundle
					namesInOrder = append(namesInOrder, arg.Name)
					continue
				}
				if size > bundle.EstimatedSize {
					bundle.EstimatedSize = size
				}
				if len(bundle.Fields) == 0 {
					bundle.Fields = fields
				}
			}
		}
	}

	for _, name := range namesInOrder {
		bundle := byName[name]
		// Only components the bundle actually reaches along an edge count;
		// same-named props in unrelated subtrees do not.
		receivers := map[string]bool{}
		for _, edge := range b.graph.Edges {
			if edge.Mechanism == MechanismProp && edge.PropName == name {
				receivers[edge.To] = true
			}
		}
		for _, componentID := range b.order {
			if !receivers[componentID] {
				continue
			}
			record := b.recordOf[componentID]
			if !record.HasProp(name) {
				continue
			}
			usage := record.Usage(name)
			if usage.Forwarded && !usage.Consumed {
				bundle.PassThroughIDs = append(bundle.PassThroughIDs, componentID)
			}
		}
		bundle.Severity = bundleSeverity(bundle.EstimatedSize, len(bundle.PassThroughIDs))
		bundle.Recommendation = bundleRecommendation(bundle)
		b.graph.Bundles = append(b.graph.Bundles, bundle)
		if bundle.Severity == SeverityLow {
			continue
		}
		b.graph.Warnings = append(b.graph.Warnings, &Warning{
			FilePath: bundle.filePath,
			Line:     bundle.line,
			Code:     CodePropBundle,
			Message:  fmt.Sprintf("prop bundle %q (%s severity): %s", bundle.Name, bundle.Severity, bundle.Recommendation),
		})
	}
}
