package diagram

import (
	"fmt"
	"strings"
)

type Strategy int

const (
	StrategyText Strategy = iota
	StrategyPlot
	StrategyCircuit
	StrategyGeometry
	StrategyBiology
	StrategyChemistry
)

var strategyNames = map[Strategy]string{
	StrategyText:      "text",
	StrategyPlot:      "plot",
	StrategyCircuit:   "circuit",
	StrategyGeometry:  "geometry",
	StrategyBiology:   "biology",
	StrategyChemistry: "chemistry",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// rule 顺序即优先级，先命中者胜出
type rule struct {
	keywords []string
	strategy Strategy
}

var rules = []rule{
	{[]string{"graph", "plot", "curve"}, StrategyPlot},
	{[]string{"circuit"}, StrategyCircuit},
	{[]string{"triangle", "square", "circle", "angle"}, StrategyGeometry},
	{[]string{"cell", "organ", "plant", "animal"}, StrategyBiology},
	{[]string{"molecule", "atom", "compound", "reaction"}, StrategyChemistry},
}

// Classify picks the drawing strategy for a description. Matching is a
// case-insensitive substring test and the first matching rule wins.
func Classify(description string) Strategy {
	lower := strings.ToLower(description)
	for _, r := range rules {
		if containsAny(lower, r.keywords...) {
			return r.strategy
		}
	}
	return StrategyText
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
