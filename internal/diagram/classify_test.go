package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		desc string
		want Strategy
	}{
		{"Graph of a sine wave", StrategyPlot},
		{"scatter PLOT of results", StrategyPlot},
		{"a circuit graph", StrategyPlot},
		{"Circuit with a battery and a lamp", StrategyCircuit},
		{"a right-angled TRIANGLE", StrategyGeometry},
		{"circuit with a square switch", StrategyCircuit},
		{"animal cell", StrategyBiology},
		{"the human heart organ", StrategyBiology},
		{"oxygen atom", StrategyChemistry},
		{"combustion reaction of methane", StrategyChemistry},
		{"a map of Europe", StrategyText},
		{"", StrategyText},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.desc))
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// "rectangle" 含有子串 "angle"
	assert.Equal(t, StrategyGeometry, Classify("a rectangle"))
	assert.Equal(t, StrategyGeometry, Classify("plant cell inside a circle"))
	assert.Equal(t, StrategyBiology, Classify("plant cell molecule"))
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "chemistry", StrategyChemistry.String())
	assert.Equal(t, "Strategy(42)", Strategy(42).String())

	text, err := StrategyPlot.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "plot", string(text))
}
