package router_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
	"github.com/zeebo/assert"
)

var twoHopRoute = models.Route{
	SourceChain: "ethereum",
	TargetChain: "polkadot",
	Hops: []models.Hop{
		{FromChain: "ethereum", ToChain: "sentium", BridgeType: models.BridgeNative, Cost: 50000, TimeMs: 5000},
		{FromChain: "sentium", ToChain: "polkadot", BridgeType: models.BridgeNative, Cost: 30000, TimeMs: 3000},
	},
	EstimatedCost:   80000,
	EstimatedTimeMs: 8000,
	ConfidenceScore: 0.97,
}

var oneHopRoute = models.Route{
	SourceChain: "ethereum",
	TargetChain: "polkadot",
	Hops: []models.Hop{
		{FromChain: "ethereum", ToChain: "polkadot", BridgeType: models.BridgeLiquidity, Cost: 80000, TimeMs: 8000},
	},
	EstimatedCost:   80000,
	EstimatedTimeMs: 8000,
	ConfidenceScore: 0.90,
}

// countingScorer scores routes from a fixed list and counts invocations.
type countingScorer struct {
	scores []float64
	calls  int
}

func (c *countingScorer) ScoreRoute(models.Route) (float64, error) {
	score := c.scores[c.calls%len(c.scores)]
	c.calls++
	return score, nil
}

func TestCostFunctionScenario(t *testing.T) {
	// Equal financial and time components; only confidence differs.
	highConfidence := router.CostFunction(twoHopRoute)
	lowConfidence := router.CostFunction(oneHopRoute)

	// 0.4*0.8 + 0.3*0.008 + 0.3*0.03 vs ... + 0.3*0.10
	assert.True(t, lowConfidence > highConfidence)
	assert.True(t, math.Abs(highConfidence-(0.4*0.8+0.3*0.008+0.3*0.03)) < 1e-12)
	assert.True(t, math.Abs(lowConfidence-(0.4*0.8+0.3*0.008+0.3*0.10)) < 1e-12)
}

func TestHeuristicPrefersHighConfidence(t *testing.T) {
	sel := router.NewSelector(router.HeuristicScorer{}, nil)

	best, err := sel.Optimize([]models.Route{oneHopRoute, twoHopRoute})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(best.Hops))
	assert.Equal(t, 0.97, best.ConfidenceScore)
}

func TestOptimizeEmpty(t *testing.T) {
	sel := router.NewSelector(router.HeuristicScorer{}, nil)

	_, err := sel.Optimize(nil)
	assert.True(t, errors.Is(err, router.ErrNoRoutes))
}

func TestOptimizeSingleSkipsScorer(t *testing.T) {
	probe := &countingScorer{scores: []float64{1}}
	sel := router.NewSelector(probe, nil)

	best, err := sel.Optimize([]models.Route{twoHopRoute})
	assert.NoError(t, err)
	assert.DeepEqual(t, twoHopRoute, best)
	assert.Equal(t, 0, probe.calls)
}

func TestOptimizePicksMaxScore(t *testing.T) {
	probe := &countingScorer{scores: []float64{0.2, 0.9}}
	sel := router.NewSelector(probe, nil)

	best, err := sel.Optimize([]models.Route{twoHopRoute, oneHopRoute})
	assert.NoError(t, err)
	assert.DeepEqual(t, oneHopRoute, best)
	assert.Equal(t, 2, probe.calls)
}

func TestOptimizeTieBreaksByInputOrder(t *testing.T) {
	probe := &countingScorer{scores: []float64{0.5, 0.5}}
	sel := router.NewSelector(probe, nil)

	best, err := sel.Optimize([]models.Route{oneHopRoute, twoHopRoute})
	assert.NoError(t, err)
	assert.DeepEqual(t, oneHopRoute, best)
}
