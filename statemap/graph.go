// Package statemap builds a directed state-flow graph from per-component IR
// records and derives anti-pattern reports from it: prop-drilling chains,
// forwarded prop bundles, context leaks and cross-component rename chains.
package statemap

import (
	"fmt"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// Mechanism tags how a state value travels along an edge.
type Mechanism string

const (
	// MechanismProp is an explicit parent-to-child prop.
	MechanismProp Mechanism = "prop"
	// MechanismContext is provider-to-consumer context delivery.
	MechanismContext Mechanism = "context"
	// MechanismHookBridge is delivery through a shared custom hook. No
	// builder pass emits it today; the tag is reserved in the serialization
	// vocabulary so consumers of emitted graphs can rely on the full
	// mechanism set.
	MechanismHookBridge Mechanism = "hook-bridge"
)

// Component is a graph node for one collected UI component. ReceivedState is
// appended by the builder during edge construction and is immutable
// afterwards.
type Component struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	FilePath         string   `json:"filePath" yaml:"filePath"`
	Line             int      `json:"line" yaml:"line"`
	Column           int      `json:"column" yaml:"column"`
	DeclaredState    []string `json:"declaredState,omitempty" yaml:"declaredState,omitempty"`
	ReceivedState    []string `json:"receivedState,omitempty" yaml:"receivedState,omitempty"`
	ProvidesContexts []string `json:"providesContexts,omitempty" yaml:"providesContexts,omitempty"`
	ConsumesContexts []string `json:"consumesContexts,omitempty" yaml:"consumesContexts,omitempty"`
	DeclaredProps    []string `json:"declaredProps,omitempty" yaml:"declaredProps,omitempty"`
}

// StateOrigin is a graph node for one state declaration. Virtual origins are
// synthesized by the builder for props whose provenance is unknown, scoped to
// component+prop so every edge stays attributable.
type StateOrigin struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Kind        ir.OriginKind `json:"kind" yaml:"kind"`
	ComponentID string        `json:"componentId" yaml:"componentId"`
	FilePath    string        `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Line        int           `json:"line,omitempty" yaml:"line,omitempty"`
	Virtual     bool          `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

// Edge is a directed state transfer between two components. Hops is raised,
// never lowered, as the drilling propagator discovers deeper chains.
type Edge struct {
	ID        string    `json:"id" yaml:"id"`
	From      string    `json:"from" yaml:"from"`
	To        string    `json:"to" yaml:"to"`
	OriginID  string    `json:"originId" yaml:"originId"`
	Mechanism Mechanism `json:"mechanism" yaml:"mechanism"`
	PropName  string    `json:"propName,omitempty" yaml:"propName,omitempty"`
	Hops      int       `json:"hops" yaml:"hops"`
}

// ContextBoundary is the reach of one context-providing component.
type ContextBoundary struct {
	ContextName string   `json:"contextName" yaml:"contextName"`
	ProviderID  string   `json:"providerId" yaml:"providerId"`
	ConsumerIDs []string `json:"consumerIds,omitempty" yaml:"consumerIds,omitempty"`
}

// DrillingPath is a materialized forwarding chain that crossed the drilling
// threshold. Hops is always len(Path)-1.
type DrillingPath struct {
	ID        string   `json:"id" yaml:"id"`
	OriginID  string   `json:"originId" yaml:"originId"`
	Path      []string `json:"path" yaml:"path"`
	PropNames []string `json:"propNames" yaml:"propNames"`
	Hops      int      `json:"hops" yaml:"hops"`
	Message   string   `json:"message" yaml:"message"`
}

// Graph is the serializable output of one analysis run. All cross-references
// are opaque ids resolved through the Components and StateNodes maps.
type Graph struct {
	Components        map[string]*Component   `json:"components" yaml:"components"`
	StateNodes        map[string]*StateOrigin `json:"stateNodes" yaml:"stateNodes"`
	Edges             []*Edge                 `json:"edges" yaml:"edges"`
	ContextBoundaries []*ContextBoundary      `json:"contextBoundaries,omitempty" yaml:"contextBoundaries,omitempty"`
	DrillingPaths     []*DrillingPath         `json:"drillingPaths,omitempty" yaml:"drillingPaths,omitempty"`
	ComponentMetrics  []*ComponentPropMetrics `json:"componentMetrics,omitempty" yaml:"componentMetrics,omitempty"`
	Bundles           []*PropBundle           `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	ContextLeaks      []*ContextLeak          `json:"contextLeaks,omitempty" yaml:"contextLeaks,omitempty"`
	PropChains        []*PropChain            `json:"propChains,omitempty" yaml:"propChains,omitempty"`
	Errors            []*FileError            `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings          []*Warning              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewGraph returns an empty graph with initialized registries.
func NewGraph() *Graph {
	return &Graph{
		Components: map[string]*Component{},
		StateNodes: map[string]*StateOrigin{},
		Edges:      []*Edge{},
	}
}

// Component returns a component node by id.
func (g *Graph) Component(id string) *Component {
	return g.Components[id]
}

// Origin returns a state origin node by id.
func (g *Graph) Origin(id string) *StateOrigin {
	return g.StateNodes[id]
}

// idAllocator mints opaque entity ids from a single monotonically increasing
// counter. Each run owns its own allocator so ids never leak across runs.
type idAllocator struct {
	next int
}

func (a *idAllocator) mint(prefix string) string {
	a.next++
	return fmt.Sprintf("%s%d", prefix, a.next)
}

func (a *idAllocator) componentID() string { return a.mint("c") }
func (a *idAllocator) originID() string    { return a.mint("s") }
func (a *idAllocator) edgeID() string      { return a.mint("e") }
func (a *idAllocator) pathID() string      { return a.mint("d") }
