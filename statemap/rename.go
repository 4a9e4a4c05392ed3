package statemap

import (
	"fmt"
	"strings"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// Rename is one observed aliasing event inside a component.
type Rename struct {
	FromName    string        `json:"fromName" yaml:"fromName"`
	ToName      string        `json:"toName" yaml:"toName"`
	ComponentID string        `json:"componentId" yaml:"componentId"`
	Kind        ir.RenameKind `json:"kind" yaml:"kind"`
	Line        int           `json:"line,omitempty" yaml:"line,omitempty"`
}

// PropChain stitches renames that share a root original name into one chain,
// ordered by first occurrence. Depth always equals len(Renames); FinalName is
// the ToName of the last rename. Chains of depth >= 2 are complex and
// surfaced distinctly from one-hop renames.
type PropChain struct {
	Original  string    `json:"original" yaml:"original"`
	Renames   []*Rename `json:"renames" yaml:"renames"`
	FinalName string    `json:"finalName" yaml:"finalName"`
	Depth     int       `json:"depth" yaml:"depth"`
	Complex   bool      `json:"complex,omitempty" yaml:"complex,omitempty"`
}

// trackRenames builds each component's local alias map from the collector's
// seeds, resolving every alias to its nearest traceable original prop name
// transitively at construction time, then merges the resulting rename events
// into per-original chains across the whole graph.
func (b *builder) trackRenames() {
	chains := map[string]*PropChain{}
	var rootsInOrder []string

	for _, componentID := range b.order {
		record := b.recordOf[componentID]
		aliases := map[string]string{}
		for _, seed := range record.AliasSeeds {
			root := seed.FromName
			if resolved, ok := aliases[seed.FromName]; ok {
				root = resolved
			}
			aliases[seed.ToName] = root

			chain, ok := chains[root]
			if !ok {
				chain = &PropChain{Original: root}
				chains[root] = chain
				rootsInOrder = append(rootsInOrder, root)
			}
			chain.Renames = append(chain.Renames, &Rename{
				FromName:    seed.FromName,
				ToName:      seed.ToName,
				ComponentID: componentID,
				Kind:        seed.Kind,
				Line:        seed.Line,
			})
		}
	}

	for _, root := range rootsInOrder {
		chain := chains[root]
		chain.Depth = len(chain.Renames)
		chain.FinalName = chain.Renames[len(chain.Renames)-1].ToName
		chain.Complex = chain.Depth >= 2
		b.graph.PropChains = append(b.graph.PropChains, chain)
		if !chain.Complex {
			continue
		}
		var hops []string
		for _, rename := range chain.Renames {
			hops = append(hops, rename.ToName)
		}
		first := b.graph.Components[chain.Renames[0].ComponentID]
		b.graph.Warnings = append(b.graph.Warnings, &Warning{
			FilePath: first.FilePath,
			Line:     chain.Renames[0].Line,
			Code:     CodePropRename,
			Message: fmt.Sprintf("prop %q is renamed %d times (%s); keep one name end to end",
				chain.Original, chain.Depth, chain.Original+" -> "+strings.Join(hops, " -> ")),
		})
	}
}
