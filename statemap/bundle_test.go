package statemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafglad/react-state-map-sub000/ir"
)

func TestBundleSeverity(t *testing.T) {
	testCases := []struct {
		size         int
		passThroughs int
		expect       Severity
	}{
		{size: 4, passThroughs: 0, expect: SeverityLow},
		{size: 5, passThroughs: 0, expect: SeverityMedium},
		{size: 9, passThroughs: 0, expect: SeverityMedium},
		{size: 10, passThroughs: 0, expect: SeverityHigh},
		{size: SizeUnknown, passThroughs: 1, expect: SeverityLow},
		{size: SizeUnknown, passThroughs: 2, expect: SeverityMedium},
		{size: SizeUnknown, passThroughs: 3, expect: SeverityHigh},
	}
	for _, testCase := range testCases {
		actual := bundleSeverity(testCase.size, testCase.passThroughs)
		assert.Equal(t, testCase.expect, actual, "size=%d passThroughs=%d", testCase.size, testCase.passThroughs)
	}
}

func TestLooksLikeBundle(t *testing.T) {
	for _, name := range []string{"formData", "userConfig", "OPTIONS", "pageInfo", "appState", "queryParams"} {
		assert.True(t, looksLikeBundle(name), name)
	}
	for _, name := range []string{"title", "onClick", "count", "datapoint"} {
		assert.False(t, looksLikeBundle(name), name)
	}
}

func TestAnalyzer_InlineObjectBundle(t *testing.T) {
	analyzer, err := New()
	require.NoError(t, err)

	graph := analyzer.Analyze([]*ir.Component{
		{
			Name:     "SignupForm",
			FilePath: "signup.jsx",
			Line:     1,
			ChildInvocations: []ir.ChildInvocation{
				{Callee: "FormFields", Line: 8, Args: []ir.Arg{
					{
						Name:   "formData",
						Kind:   ir.ArgLiteralAggregate,
						Fields: []string{"name", "email", "phone", "street", "city", "zip", "country"},
					},
				}},
			},
		},
		{
			Name:          "FormFields",
			FilePath:      "fields.jsx",
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "formData"}},
			PropUsage:     map[string]ir.PropUsage{"formData": {Consumed: true}},
		},
	})

	require.Len(t, graph.Bundles, 1)
	bundle := graph.Bundles[0]
	assert.Equal(t, "formData", bundle.Name)
	assert.Equal(t, 7, bundle.EstimatedSize)
	assert.Len(t, bundle.Fields, 7)
	assert.Empty(t, bundle.PassThroughIDs)
	assert.Equal(t, SeverityMedium, bundle.Severity)

	var bundleWarnings []*Warning
	for _, warning := range graph.Warnings {
		if warning.Code == CodePropBundle {
			bundleWarnings = append(bundleWarnings, warning)
		}
	}
	require.Len(t, bundleWarnings, 1)
	assert.Equal(t, "signup.jsx", bundleWarnings[0].FilePath)
	assert.Equal(t, 8, bundleWarnings[0].Line)
}

func TestAnalyzer_BareReferenceBundleWithPassThroughs(t *testing.T) {
	analyzer, err := New()
	require.NoError(t, err)

	forwarder := func(name, file, callee string) *ir.Component {
		return &ir.Component{
			Name:          name,
			FilePath:      file,
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "settings"}},
			PropUsage:     map[string]ir.PropUsage{"settings": {Forwarded: true}},
			ChildInvocations: []ir.ChildInvocation{
				{Callee: callee, Line: 3, Args: []ir.Arg{
					{Name: "settings", Kind: ir.ArgIdentifier, Value: "settings"},
				}},
			},
		}
	}

	graph := analyzer.Analyze([]*ir.Component{
		{
			Name:     "Root",
			FilePath: "a_root.jsx",
			Line:     1,
			DeclaredState: []ir.StateDecl{
				{Name: "settings", Kind: ir.OriginLocalState, Line: 2},
			},
			ChildInvocations: []ir.ChildInvocation{
				{Callee: "Outer", Line: 4, Args: []ir.Arg{
					{Name: "settings", Kind: ir.ArgIdentifier, Value: "settings"},
				}},
			},
		},
		forwarder("Outer", "b_outer.jsx", "Middle"),
		forwarder("Middle", "c_middle.jsx", "Inner"),
		{
			Name:          "Inner",
			FilePath:      "d_inner.jsx",
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "settings"}},
			PropUsage:     map[string]ir.PropUsage{"settings": {Consumed: true}},
		},
	})

	require.Len(t, graph.Bundles, 1)
	bundle := graph.Bundles[0]
	assert.Equal(t, "settings", bundle.Name)
	assert.Equal(t, SizeUnknown, bundle.EstimatedSize)
	assert.Len(t, bundle.PassThroughIDs, 2)
	assert.Equal(t, SeverityMedium, bundle.Severity)
}

func TestAnalyzer_BundlePassThroughsLimitedToReceivers(t *testing.T) {
	analyzer, err := New()
	require.NoError(t, err)

	forwarder := func(name, file, callee string) *ir.Component {
		return &ir.Component{
			Name:          name,
			FilePath:      file,
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "settings"}},
			PropUsage:     map[string]ir.PropUsage{"settings": {Forwarded: true}},
			ChildInvocations: []ir.ChildInvocation{
				{Callee: callee, Line: 3, Args: []ir.Arg{
					{Name: "settings", Kind: ir.ArgIdentifier, Value: "settings"},
				}},
			},
		}
	}

	// Stray declares a same-named forwarded prop in an unrelated subtree and
	// never receives this bundle; it must not count as a pass-through.
	graph := analyzer.Analyze([]*ir.Component{
		{
			Name:     "Root",
			FilePath: "a_root.jsx",
			Line:     1,
			DeclaredState: []ir.StateDecl{
				{Name: "settings", Kind: ir.OriginLocalState, Line: 2},
			},
			ChildInvocations: []ir.ChildInvocation{
				{Callee: "Outer", Line: 4, Args: []ir.Arg{
					{Name: "settings", Kind: ir.ArgIdentifier, Value: "settings"},
				}},
			},
		},
		forwarder("Outer", "b_outer.jsx", "Middle"),
		forwarder("Middle", "c_middle.jsx", "Inner"),
		{
			Name:          "Inner",
			FilePath:      "d_inner.jsx",
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "settings"}},
			PropUsage:     map[string]ir.PropUsage{"settings": {Consumed: true}},
		},
		{
			Name:          "Stray",
			FilePath:      "e_stray.jsx",
			Line:          1,
			DeclaredProps: []ir.Prop{{Name: "settings"}},
			PropUsage:     map[string]ir.PropUsage{"settings": {Forwarded: true}},
		},
	})

	require.Len(t, graph.Bundles, 1)
	bundle := graph.Bundles[0]
	require.Len(t, bundle.PassThroughIDs, 2)
	var names []string
	for _, id := range bundle.PassThroughIDs {
		names = append(names, graph.Component(id).Name)
	}
	assert.Equal(t, []string{"Outer", "Middle"}, names)
	assert.Equal(t, SeverityMedium, bundle.Severity)
}

func TestAnalyzer_BundleToUnknownCalleeIgnored(t *testing.T) {
	analyzer, err := New()
	require.NoError(t, err)

	graph := analyzer.Analyze([]*ir.Component{
		{
			Name:     "Host",
			FilePath: "host.jsx",
			Line:     1,
			ChildInvocations: []ir.ChildInvocation{
				{Callee: "ThirdPartyGrid", Line: 2, Args: []ir.Arg{
					{Name: "config", Kind: ir.ArgIdentifier, Value: "gridConfig"},
				}},
			},
		},
	})

	assert.Empty(t, graph.Bundles)
}
