package router

import (
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/shopspring/decimal"
)

// Heuristic cost weights: financial cost, transfer time, reliability penalty.
var (
	costWeightFinancial = decimal.NewFromFloat(0.4)
	costWeightTime      = decimal.NewFromFloat(0.3)
	costWeightPenalty   = decimal.NewFromFloat(0.3)

	costNormFinancial = decimal.NewFromInt(100000)
	costNormTime      = decimal.NewFromInt(1000000)
)

// CostFunction computes the non-learned baseline cost of a route:
// 0.4*cost/1e5 + 0.3*time_ms/1e6 + 0.3*(1 - confidence). Lower is better.
// Callers comparing against the learned scorer's higher-is-better convention
// should transform it, e.g. HeuristicScore.
func CostFunction(route models.Route) float64 {
	financial := decimal.NewFromFloat(route.EstimatedCost).Div(costNormFinancial)
	timeCost := decimal.NewFromFloat(route.EstimatedTimeMs).Div(costNormTime)
	penalty := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(route.ConfidenceScore))

	total := costWeightFinancial.Mul(financial).
		Add(costWeightTime.Mul(timeCost)).
		Add(costWeightPenalty.Mul(penalty))

	f, _ := total.Float64()
	return f
}

// HeuristicScore maps the heuristic cost onto the scorer's higher-is-better
// scale via 1/(1+cost).
func HeuristicScore(route models.Route) float64 {
	return 1.0 / (1.0 + CostFunction(route))
}
