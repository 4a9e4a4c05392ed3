package statemap

import "github.com/olafglad/react-state-map-sub000/ir"

// Role labels how a component treats the props it receives.
type Role string

const (
	RolePassthrough Role = "passthrough"
	RoleConsumer    Role = "consumer"
	RoleTransformer Role = "transformer"
	RoleMixed       Role = "mixed"
)

// ComponentPropMetrics aggregates per-prop usage facts for one component.
// A prop may be both forwarded and consumed, but is never double counted
// between Consumed and Ignored.
type ComponentPropMetrics struct {
	ComponentID      string  `json:"componentId" yaml:"componentId"`
	Received         int     `json:"received" yaml:"received"`
	Consumed         int     `json:"consumed" yaml:"consumed"`
	Forwarded        int     `json:"forwarded" yaml:"forwarded"`
	Transformed      int     `json:"transformed" yaml:"transformed"`
	Ignored          int     `json:"ignored" yaml:"ignored"`
	PassthroughRatio float64 `json:"passthroughRatio" yaml:"passthroughRatio"`
	ConsumptionRatio float64 `json:"consumptionRatio" yaml:"consumptionRatio"`
	Role             Role    `json:"role" yaml:"role"`
}

// classifyComponent computes prop metrics and assigns a role. Components
// without declared props are excluded from metrics output entirely rather
// than given a degenerate role; for those it returns nil.
func classifyComponent(record *ir.Component, componentID string) *ComponentPropMetrics {
	total := len(record.DeclaredProps)
	if total == 0 {
		return nil
	}
	metrics := &ComponentPropMetrics{ComponentID: componentID, Received: total}
	for _, prop := range record.DeclaredProps {
		usage := record.Usage(prop.Name)
		if usage.Consumed {
			metrics.Consumed++
		}
		if usage.Forwarded {
			metrics.Forwarded++
		}
		if usage.Transformed {
			metrics.Transformed++
		}
		if !usage.Consumed && !usage.Forwarded && !usage.Transformed {
			metrics.Ignored++
		}
	}
	metrics.PassthroughRatio = float64(metrics.Forwarded) / float64(total)
	metrics.ConsumptionRatio = float64(metrics.Consumed) / float64(total)
	metrics.Role = classifyRole(metrics)
	return metrics
}

// classifyRole is a pure function of the aggregated counts and ratios.
func classifyRole(m *ComponentPropMetrics) Role {
	switch {
	case m.PassthroughRatio >= 0.7 && m.ConsumptionRatio < 0.3:
		return RolePassthrough
	case m.ConsumptionRatio > 0.7:
		return RoleConsumer
	case float64(m.Transformed) > float64(m.Forwarded)*0.5:
		return RoleTransformer
	default:
		return RoleMixed
	}
}

// classifyRoles emits metrics for every component that declares props.
func (b *builder) classifyRoles() {
	for _, componentID := range b.order {
		if metrics := classifyComponent(b.recordOf[componentID], componentID); metrics != nil {
			b.graph.ComponentMetrics = append(b.graph.ComponentMetrics, metrics)
		}
	}
}
