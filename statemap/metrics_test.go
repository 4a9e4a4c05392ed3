package statemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafglad/react-state-map-sub000/ir"
)

func usageRecord(usages map[string]ir.PropUsage) *ir.Component {
	record := &ir.Component{Name: "Subject", FilePath: "subject.jsx", Line: 1, PropUsage: usages}
	for name := range usages {
		record.DeclaredProps = append(record.DeclaredProps, ir.Prop{Name: name})
	}
	return record
}

func TestClassifyRole(t *testing.T) {
	testCases := []struct {
		description string
		metrics     *ComponentPropMetrics
		expect      Role
	}{
		{
			description: "high passthrough with low consumption",
			metrics:     &ComponentPropMetrics{Received: 10, Forwarded: 7, Consumed: 2, PassthroughRatio: 0.7, ConsumptionRatio: 0.2},
			expect:      RolePassthrough,
		},
		{
			description: "dominant consumption",
			metrics:     &ComponentPropMetrics{Received: 10, Consumed: 8, ConsumptionRatio: 0.8},
			expect:      RoleConsumer,
		},
		{
			description: "consumption at exactly 0.7 is not a consumer",
			metrics:     &ComponentPropMetrics{Received: 10, Consumed: 7, Transformed: 1, ConsumptionRatio: 0.7},
			expect:      RoleTransformer,
		},
		{
			description: "transformed outweighs half of forwarded",
			metrics:     &ComponentPropMetrics{Received: 4, Forwarded: 2, Transformed: 2, PassthroughRatio: 0.5, ConsumptionRatio: 0},
			expect:      RoleTransformer,
		},
		{
			description: "balanced usage falls back to mixed",
			metrics:     &ComponentPropMetrics{Received: 4, Forwarded: 2, Consumed: 2, PassthroughRatio: 0.5, ConsumptionRatio: 0.5},
			expect:      RoleMixed,
		},
		{
			description: "forwarding everything while consuming too much is mixed",
			metrics:     &ComponentPropMetrics{Received: 2, Forwarded: 2, Consumed: 1, PassthroughRatio: 1, ConsumptionRatio: 0.5},
			expect:      RoleMixed,
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, classifyRole(testCase.metrics), testCase.description)
	}
}

func TestClassifyComponent(t *testing.T) {
	record := usageRecord(map[string]ir.PropUsage{
		"a": {Consumed: true},
		"b": {Forwarded: true},
		"c": {Forwarded: true, Consumed: true},
		"d": {Transformed: true},
		"e": {},
	})
	metrics := classifyComponent(record, "c1")
	require.NotNil(t, metrics)

	assert.Equal(t, 5, metrics.Received)
	assert.Equal(t, 2, metrics.Consumed)
	assert.Equal(t, 2, metrics.Forwarded)
	assert.Equal(t, 1, metrics.Transformed)
	assert.Equal(t, 1, metrics.Ignored)
	assert.LessOrEqual(t, metrics.Consumed+metrics.Ignored, metrics.Received)
	assert.InDelta(t, 0.4, metrics.PassthroughRatio, 1e-9)
	assert.InDelta(t, 0.4, metrics.ConsumptionRatio, 1e-9)
	assert.GreaterOrEqual(t, metrics.PassthroughRatio, 0.0)
	assert.LessOrEqual(t, metrics.PassthroughRatio, 1.0)
	assert.GreaterOrEqual(t, metrics.ConsumptionRatio, 0.0)
	assert.LessOrEqual(t, metrics.ConsumptionRatio, 1.0)
}

func TestClassifyComponent_NoPropsExcluded(t *testing.T) {
	assert.Nil(t, classifyComponent(&ir.Component{Name: "Static"}, "c1"))
}
