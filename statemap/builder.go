package statemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// maxFixedPointPasses bounds the drilling propagator. Chains are finite
// (bounded by component count) so the loop converges on its own; the ceiling
// is a generous tunable, not a correctness requirement.
const maxFixedPointPasses = 10

// builder owns all mutable state of a single run: the arena, the id counter
// and the lookup indexes shared by the detector passes.
type builder struct {
	ids       *idAllocator
	graph     *Graph
	threshold int

	records  []*ir.Component
	recordOf map[string]*ir.Component // component id -> IR record
	idByName map[string]string        // component name -> id, first declaration wins
	order    []string                 // component ids in registration order

	declared   map[string]map[string]string   // component id -> state name -> origin id
	sameFile   map[string]map[string][]string // file path -> origin name -> declared origin ids
	received   map[string]map[string]string   // component id -> prop name -> origin id
	virtuals   map[string]string              // component id + "\x00" + prop -> virtual origin id
	edgeIndex  map[string]*Edge               // from/to/origin/prop -> prop edge
	children   map[string][]string            // component id -> child component ids
	childSeen  map[string]bool                // dedupe key for children
	originSeen []string                       // origin ids in mint order
	reach      map[*ContextBoundary]map[string]bool
}

func newBuilder(threshold int) *builder {
	return &builder{
		ids:       &idAllocator{},
		graph:     NewGraph(),
		threshold: threshold,
		recordOf:  map[string]*ir.Component{},
		idByName:  map[string]string{},
		declared:  map[string]map[string]string{},
		sameFile:  map[string]map[string][]string{},
		received:  map[string]map[string]string{},
		virtuals:  map[string]string{},
		edgeIndex: map[string]*Edge{},
		children:  map[string][]string{},
		childSeen: map[string]bool{},
		reach:     map[*ContextBoundary]map[string]bool{},
	}
}

// build constructs the component registry, the prop and context edge sets,
// runs the drilling propagator to a fixed point and materializes drilling
// paths.
func (b *builder) build(records []*ir.Component) *Graph {
	b.records = make([]*ir.Component, len(records))
	copy(b.records, records)
	sort.SliceStable(b.records, func(i, j int) bool {
		if b.records[i].FilePath != b.records[j].FilePath {
			return b.records[i].FilePath < b.records[j].FilePath
		}
		if b.records[i].Line != b.records[j].Line {
			return b.records[i].Line < b.records[j].Line
		}
		return b.records[i].Name < b.records[j].Name
	})

	b.registerComponents()
	b.buildPropEdges()
	b.buildContextEdges()
	b.propagate()
	b.pruneSupersededVirtuals()
	b.detectDrilling()
	return b.graph
}

func (b *builder) registerComponents() {
	for _, record := range b.records {
		id := b.ids.componentID()
		component := &Component{
			ID:       id,
			Name:     record.Name,
			FilePath: record.FilePath,
			Line:     record.Line,
			Column:   record.Column,
		}
		for _, use := range record.ContextConsumers {
			component.ConsumesContexts = append(component.ConsumesContexts, use.Name)
		}
		for _, provider := range record.ContextProviders {
			component.ProvidesContexts = append(component.ProvidesContexts, provider.Name)
		}
		for _, prop := range record.DeclaredProps {
			component.DeclaredProps = append(component.DeclaredProps, prop.Name)
		}
		b.graph.Components[id] = component
		b.recordOf[id] = record
		b.order = append(b.order, id)
		if _, taken := b.idByName[record.Name]; !taken {
			b.idByName[record.Name] = id
		}

		b.declared[id] = map[string]string{}
		for _, decl := range record.DeclaredState {
			origin := b.mintOrigin(decl.Name, decl.Kind, id, record.FilePath, decl.Line, false)
			component.DeclaredState = append(component.DeclaredState, origin.ID)
			b.declared[id][decl.Name] = origin.ID
			byName := b.sameFile[record.FilePath]
			if byName == nil {
				byName = map[string][]string{}
				b.sameFile[record.FilePath] = byName
			}
			byName[decl.Name] = append(byName[decl.Name], origin.ID)
		}
	}
}

func (b *builder) mintOrigin(name string, kind ir.OriginKind, componentID, filePath string, line int, virtual bool) *StateOrigin {
	origin := &StateOrigin{
		ID:          b.ids.originID(),
		Name:        name,
		Kind:        kind,
		ComponentID: componentID,
		FilePath:    filePath,
		Line:        line,
		Virtual:     virtual,
	}
	b.graph.StateNodes[origin.ID] = origin
	b.originSeen = append(b.originSeen, origin.ID)
	return origin
}

// resolveOrigin maps an invocation argument value to a state origin visible
// to the invoking component: its own declarations first, then props it has
// received, then - as a documented best-effort fallback - any origin declared
// under the same name in the same source file. Returns "" when nothing
// matches.
func (b *builder) resolveOrigin(componentID, name string) string {
	if originID, ok := b.declared[componentID][name]; ok {
		return originID
	}
	if originID, ok := b.received[componentID][name]; ok {
		return originID
	}
	record := b.recordOf[componentID]
	if ids := b.sameFile[record.FilePath][name]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func (b *builder) buildPropEdges() {
	for _, componentID := range b.order {
		record := b.recordOf[componentID]
		for _, invocation := range record.ChildInvocations {
			childID, ok := b.idByName[invocation.Callee]
			if !ok || childID == componentID {
				continue
			}
			b.linkChild(componentID, childID)
			for _, arg := range invocation.Args {
				if arg.Kind != ir.ArgIdentifier {
					continue
				}
				originID := b.resolveOrigin(componentID, arg.Value)
				if originID == "" {
					if record.HasProp(arg.Value) {
						originID = b.virtualOrigin(componentID, arg.Value)
					} else {
						// Unresolved references are common (constants, DOM
						// attributes) and are skipped, not reported.
						continue
					}
				}
				b.upsertEdge(componentID, childID, originID, arg.Name, 1)
			}
		}
	}
}

// virtualOrigin synthesizes an origin for a prop whose real declaration could
// not be traced, scoped to component+prop, so the forwarding chain keeps a
// traceable anchor.
func (b *builder) virtualOrigin(componentID, prop string) string {
	key := componentID + "\x00" + prop
	if id, ok := b.virtuals[key]; ok {
		return id
	}
	record := b.recordOf[componentID]
	origin := b.mintOrigin(prop, ir.OriginProp, componentID, record.FilePath, record.Line, true)
	b.virtuals[key] = origin.ID
	return origin.ID
}

func (b *builder) linkChild(parentID, childID string) {
	key := parentID + "\x00" + childID
	if b.childSeen[key] {
		return
	}
	b.childSeen[key] = true
	b.children[parentID] = append(b.children[parentID], childID)
}

// upsertEdge creates a prop edge or raises an existing edge's hop count.
// Hop counts never decrease. Returns true when anything changed.
func (b *builder) upsertEdge(fromID, toID, originID, propName string, hops int) bool {
	key := fromID + "\x00" + toID + "\x00" + originID + "\x00" + propName
	if edge, ok := b.edgeIndex[key]; ok {
		if hops > edge.Hops {
			edge.Hops = hops
			return true
		}
		return false
	}
	edge := &Edge{
		ID:        b.ids.edgeID(),
		From:      fromID,
		To:        toID,
		OriginID:  originID,
		Mechanism: MechanismProp,
		PropName:  propName,
		Hops:      hops,
	}
	b.edgeIndex[key] = edge
	b.graph.Edges = append(b.graph.Edges, edge)
	b.markReceived(toID, propName, originID)
	return true
}

func (b *builder) markReceived(componentID, propName, originID string) {
	byProp := b.received[componentID]
	if byProp == nil {
		byProp = map[string]string{}
		b.received[componentID] = byProp
	}
	if _, ok := byProp[propName]; !ok {
		byProp[propName] = originID
	}
	component := b.graph.Components[componentID]
	for _, existing := range component.ReceivedState {
		if existing == originID {
			return
		}
	}
	component.ReceivedState = append(component.ReceivedState, originID)
}

// buildContextEdges adds a zero-hop context edge from every providing
// component to every consumer of that context, and records one boundary per
// provider with its transitively reachable consumer set.
func (b *builder) buildContextEdges() {
	for _, providerID := range b.order {
		record := b.recordOf[providerID]
		for _, provided := range record.ContextProviders {
			origin := b.mintOrigin(provided.Name, ir.OriginContextValue, providerID, record.FilePath, provided.Line, false)
			boundary := &ContextBoundary{ContextName: provided.Name, ProviderID: providerID}
			inReach := b.descendants(providerID)
			for _, consumerID := range b.order {
				if consumerID == providerID || !inReach[consumerID] {
					continue
				}
				for _, consumed := range b.recordOf[consumerID].ContextConsumers {
					if !contextNamesMatch(provided.Name, consumed.Name) {
						continue
					}
					boundary.ConsumerIDs = append(boundary.ConsumerIDs, consumerID)
					edge := &Edge{
						ID:        b.ids.edgeID(),
						From:      providerID,
						To:        consumerID,
						OriginID:  origin.ID,
						Mechanism: MechanismContext,
						Hops:      0,
					}
					b.graph.Edges = append(b.graph.Edges, edge)
					break
				}
			}
			b.graph.ContextBoundaries = append(b.graph.ContextBoundaries, boundary)
			b.reach[boundary] = inReach
		}
	}
}

// descendants returns the set of components reachable from root through
// child invocations, root included.
func (b *builder) descendants(rootID string) map[string]bool {
	seen := map[string]bool{rootID: true}
	queue := []string{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range b.children[current] {
			if !seen[childID] {
				seen[childID] = true
				queue = append(queue, childID)
			}
		}
	}
	return seen
}

// propagate is the iterative drilling propagator. Each pass scans every
// invocation that re-exposes a received prop and extends the strongest
// incoming chain by one hop. The pass count is bounded; the loop normally
// stops as soon as a full pass makes no change.
func (b *builder) propagate() {
	for pass := 0; pass < maxFixedPointPasses; pass++ {
		changed := false
		for _, componentID := range b.order {
			record := b.recordOf[componentID]
			for _, invocation := range record.ChildInvocations {
				childID, ok := b.idByName[invocation.Callee]
				if !ok || childID == componentID {
					continue
				}
				for _, arg := range invocation.Args {
					if arg.Kind != ir.ArgIdentifier {
						continue
					}
					// Only props the component re-exposes without owning.
					if !record.HasProp(arg.Value) || record.DeclaresState(arg.Value) {
						continue
					}
					incoming := b.strongestIncoming(componentID, arg.Value)
					if incoming == nil {
						continue
					}
					if b.upsertEdge(componentID, childID, incoming.OriginID, arg.Name, incoming.Hops+1) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
}

// pruneSupersededVirtuals drops virtual origins whose provenance the
// propagator later resolved. Registration order can place a forwarding
// component before the parent that supplies the prop, so buildPropEdges
// anchors the forward to a virtual origin; once an incoming edge for the
// same prop carries a different origin, the virtual anchor and its edges are
// stale and are removed from the emitted graph.
func (b *builder) pruneSupersededVirtuals() {
	superseded := map[string]bool{}
	for key, virtualID := range b.virtuals {
		sep := strings.Index(key, "\x00")
		componentID, prop := key[:sep], key[sep+1:]
		for _, edge := range b.graph.Edges {
			if edge.Mechanism != MechanismProp || edge.To != componentID || edge.PropName != prop {
				continue
			}
			if edge.OriginID != virtualID {
				superseded[virtualID] = true
				break
			}
		}
	}
	if len(superseded) == 0 {
		return
	}
	kept := b.graph.Edges[:0]
	for _, edge := range b.graph.Edges {
		if !superseded[edge.OriginID] {
			kept = append(kept, edge)
		}
	}
	b.graph.Edges = kept
	for id := range superseded {
		delete(b.graph.StateNodes, id)
	}
	for _, component := range b.graph.Components {
		received := component.ReceivedState[:0]
		for _, originID := range component.ReceivedState {
			if !superseded[originID] {
				received = append(received, originID)
			}
		}
		component.ReceivedState = received
	}
}

// strongestIncoming returns the incoming prop edge for prop with the highest
// hop count, nil when the component has no incoming edge for that prop.
func (b *builder) strongestIncoming(componentID, prop string) *Edge {
	var strongest *Edge
	for _, edge := range b.graph.Edges {
		if edge.Mechanism != MechanismProp || edge.To != componentID || edge.PropName != prop {
			continue
		}
		if strongest == nil || edge.Hops > strongest.Hops {
			strongest = edge
		}
	}
	return strongest
}

// detectDrilling groups prop edges by origin, walks forward from each
// chain-starting edge and materializes every linear path whose length and
// pass-through count cross the configured threshold.
func (b *builder) detectDrilling() {
	edgesByOrigin := map[string][]*Edge{}
	for _, edge := range b.graph.Edges {
		if edge.Mechanism == MechanismProp {
			edgesByOrigin[edge.OriginID] = append(edgesByOrigin[edge.OriginID], edge)
		}
	}
	for _, originID := range b.originSeen {
		group := edgesByOrigin[originID]
		if len(group) == 0 {
			continue
		}
		targets := map[string]bool{}
		for _, edge := range group {
			targets[edge.To] = true
		}
		outgoing := map[string][]*Edge{}
		for _, edge := range group {
			outgoing[edge.From] = append(outgoing[edge.From], edge)
		}
		walked := map[string]bool{}
		for _, edge := range group {
			if targets[edge.From] || walked[edge.From] {
				continue
			}
			walked[edge.From] = true
			visited := map[string]bool{edge.From: true}
			b.walkChain(originID, outgoing, visited, []string{edge.From}, nil)
		}
	}
}

// walkChain extends the current path depth-first along same-origin edges,
// visiting each component at most once per walk, and emits one path per
// reachable leaf.
func (b *builder) walkChain(originID string, outgoing map[string][]*Edge, visited map[string]bool, path []string, props []string) {
	tip := path[len(path)-1]
	extended := false
	for _, edge := range outgoing[tip] {
		if visited[edge.To] {
			continue
		}
		visited[edge.To] = true
		b.walkChain(originID, outgoing, visited, append(path, edge.To), append(props, edge.PropName))
		delete(visited, edge.To)
		extended = true
	}
	if !extended && len(path) > 1 {
		b.emitChain(originID, path, props)
	}
}

func (b *builder) emitChain(originID string, path, props []string) {
	if len(path) < b.threshold {
		return
	}
	origin := b.graph.StateNodes[originID]
	passThrough := 0
	for i := 1; i < len(path)-1; i++ {
		if b.isPassThrough(path[i], originID, props[i-1]) {
			passThrough++
		}
	}
	required := b.threshold - 1
	if interior := len(path) - 2; interior < required {
		required = interior
	}
	if passThrough < required {
		return
	}
	names := make([]string, len(path))
	for i, componentID := range path {
		names[i] = b.graph.Components[componentID].Name
	}
	propNames := make([]string, len(props))
	copy(propNames, props)
	drilling := &DrillingPath{
		ID:        b.ids.pathID(),
		OriginID:  originID,
		Path:      names,
		PropNames: propNames,
		Hops:      len(path) - 1,
		Message: fmt.Sprintf("state %q drills through %d components (%s); %d of %d interior hops are pass-through",
			origin.Name, len(path), strings.Join(names, " -> "), passThrough, len(path)-2),
	}
	b.graph.DrillingPaths = append(b.graph.DrillingPaths, drilling)
	b.graph.Warnings = append(b.graph.Warnings, &Warning{
		FilePath: origin.FilePath,
		Line:     origin.Line,
		Code:     CodePropDrilling,
		Message:  drilling.Message,
	})
}

// isPassThrough reports whether a component both receives and re-emits the
// origin without declaring it and without consuming the carrying prop.
func (b *builder) isPassThrough(componentID, originID, prop string) bool {
	origin := b.graph.StateNodes[originID]
	if origin.ComponentID == componentID {
		return false
	}
	record := b.recordOf[componentID]
	if record.DeclaresState(prop) {
		return false
	}
	return !record.Usage(prop).Consumed
}
