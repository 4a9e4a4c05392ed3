// Package ir defines the per-component intermediate representation exchanged
// between the source collector and the statemap analysis engine. A Component
// is a normalized, language-neutral record of everything the engine needs to
// know about one UI component: declared state, context usage, declared props,
// child invocations and local aliasing.
package ir

// OriginKind discriminates how a piece of state came into existence.
type OriginKind string

const (
	// OriginLocalState is a useState declaration.
	OriginLocalState OriginKind = "local-state"
	// OriginReducerState is a useReducer declaration.
	OriginReducerState OriginKind = "reducer-state"
	// OriginContextValue is a value obtained from a context consumer.
	OriginContextValue OriginKind = "context-value"
	// OriginStoreSelector is a selector over an external store.
	OriginStoreSelector OriginKind = "external-store"
	// OriginCustomProvider is a value produced by a custom hook.
	OriginCustomProvider OriginKind = "custom-provider"
	// OriginProp marks a synthetic origin anchored to a received prop whose
	// real declaration could not be traced.
	OriginProp OriginKind = "synthesized-from-prop"
)

// ArgKind classifies a child-invocation argument expression.
type ArgKind string

const (
	// ArgIdentifier is a bare name reference.
	ArgIdentifier ArgKind = "identifier"
	// ArgLiteralAggregate is an inline object literal.
	ArgLiteralAggregate ArgKind = "literal-aggregate"
	// ArgSpread is a spread expression.
	ArgSpread ArgKind = "spread"
)

// RenameKind classifies how a local alias was introduced.
type RenameKind string

const (
	// RenameDestructure is `const { id: userId } = props`.
	RenameDestructure RenameKind = "destructure"
	// RenameAccessor is `const uid = props.userId`.
	RenameAccessor RenameKind = "accessor"
	// RenameAssignment is `const uid = userId`.
	RenameAssignment RenameKind = "assignment"
)

// StateDecl is a state origin declared by a component.
type StateDecl struct {
	Name string     `json:"name" yaml:"name"`
	Kind OriginKind `json:"kind" yaml:"kind"`
	Line int        `json:"line,omitempty" yaml:"line,omitempty"`
}

// ContextProvider records that a component provides a named context to its
// subtree, with a short summary of the provided value expression.
type ContextProvider struct {
	Name      string `json:"name" yaml:"name"`
	ValueExpr string `json:"valueExpr,omitempty" yaml:"valueExpr,omitempty"`
	Line      int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// ContextUse records that a component consumes a named context. LocalName is
// the variable holding the context value (empty when the value is
// destructured in place); Fields lists destructured field names.
type ContextUse struct {
	Name      string   `json:"name" yaml:"name"`
	LocalName string   `json:"localName,omitempty" yaml:"localName,omitempty"`
	Fields    []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Line      int      `json:"line,omitempty" yaml:"line,omitempty"`
}

// Prop is a declared component input.
type Prop struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Arg is one named argument of a child invocation. Name is the attribute
// name at the call site; Value is the referenced identifier for identifier
// arguments (equal to Name for shorthand usage). Fields is populated for
// literal aggregates with statically visible keys; HasSpread marks aggregates
// containing spread members whose size is therefore not fully known.
type Arg struct {
	Name      string   `json:"name" yaml:"name"`
	Kind      ArgKind  `json:"kind" yaml:"kind"`
	Value     string   `json:"value,omitempty" yaml:"value,omitempty"`
	Fields    []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	HasSpread bool     `json:"hasSpread,omitempty" yaml:"hasSpread,omitempty"`
}

// ChildInvocation is one child-element invocation inside a component body.
// Args is an ordered slice rather than a map so downstream id minting and
// warning emission stay deterministic.
type ChildInvocation struct {
	Callee string `json:"callee" yaml:"callee"`
	Args   []Arg  `json:"args,omitempty" yaml:"args,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// PropUsage captures how a declared prop is used inside the component body.
type PropUsage struct {
	Consumed    bool `json:"consumed" yaml:"consumed"`
	Forwarded   bool `json:"forwarded" yaml:"forwarded"`
	Transformed bool `json:"transformed" yaml:"transformed"`
}

// AliasSeed is a local rename observed while collecting a component:
// FromName is the nearer source name, ToName the new local name.
type AliasSeed struct {
	FromName string     `json:"fromName" yaml:"fromName"`
	ToName   string     `json:"toName" yaml:"toName"`
	Kind     RenameKind `json:"kind" yaml:"kind"`
	Line     int        `json:"line,omitempty" yaml:"line,omitempty"`
}

// Component is the normalized record for a single UI component.
type Component struct {
	Name             string               `json:"name" yaml:"name"`
	FilePath         string               `json:"filePath" yaml:"filePath"`
	Line             int                  `json:"line" yaml:"line"`
	Column           int                  `json:"column" yaml:"column"`
	DeclaredState    []StateDecl          `json:"declaredState,omitempty" yaml:"declaredState,omitempty"`
	ContextProviders []ContextProvider    `json:"contextProviders,omitempty" yaml:"contextProviders,omitempty"`
	ContextConsumers []ContextUse         `json:"contextConsumers,omitempty" yaml:"contextConsumers,omitempty"`
	DeclaredProps    []Prop               `json:"declaredProps,omitempty" yaml:"declaredProps,omitempty"`
	ChildInvocations []ChildInvocation    `json:"childInvocations,omitempty" yaml:"childInvocations,omitempty"`
	PropUsage        map[string]PropUsage `json:"propUsage,omitempty" yaml:"propUsage,omitempty"`
	AliasSeeds       []AliasSeed          `json:"aliasSeeds,omitempty" yaml:"aliasSeeds,omitempty"`
}

// HasProp reports whether name is one of the component's declared props.
func (c *Component) HasProp(name string) bool {
	for _, p := range c.DeclaredProps {
		if p.Name == name {
			return true
		}
	}
	return false
}

// DeclaresState reports whether name is one of the component's own state
// declarations.
func (c *Component) DeclaresState(name string) bool {
	for _, s := range c.DeclaredState {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Usage returns the usage facts for a prop, zero-valued when unknown.
func (c *Component) Usage(prop string) PropUsage {
	if c.PropUsage == nil {
		return PropUsage{}
	}
	return c.PropUsage[prop]
}
