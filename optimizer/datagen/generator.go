// Package datagen produces synthetic labeled routes for illustration and
// testing. Production training would use historical routing data instead.
package datagen

import (
	"math/rand"

	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/nn"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
)

// Generator emits random routes labeled with the heuristic score, from a
// seeded source so fixtures are reproducible.
type Generator struct {
	rng    *rand.Rand
	chains []string
}

// New creates a Generator over the given chain names. Routes always connect
// distinct chains, so at least two names are required for useful output.
func New(seed int64, chains []string) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), chains: chains}
}

// Examples generates n labeled routes. Each route has 1-3 hops between
// distinct consecutive chains, random bridge types, hop costs in
// [10000,100000), hop times in [1000,60000) ms and a confidence score in
// [0.85,0.99); the label is 1/(1+cost_function(route)).
func (g *Generator) Examples(n int) []nn.Example {
	examples := make([]nn.Example, 0, n)

	for i := 0; i < n; i++ {
		route := g.route()
		examples = append(examples, nn.Example{
			Route:  route,
			Target: router.HeuristicScore(route),
		})
	}

	return examples
}

func (g *Generator) route() models.Route {
	numHops := 1 + g.rng.Intn(3)
	hops := make([]models.Hop, 0, numHops)

	current := g.chains[g.rng.Intn(len(g.chains))]
	totalCost := 0.0
	totalTime := 0.0

	for i := 0; i < numHops; i++ {
		next := g.nextChain(current)
		hop := models.Hop{
			FromChain:  current,
			ToChain:    next,
			BridgeType: models.BridgeTypes[g.rng.Intn(len(models.BridgeTypes))],
			Cost:       float64(10000 + g.rng.Intn(90000)),
			TimeMs:     float64(1000 + g.rng.Intn(59000)),
		}
		hops = append(hops, hop)
		totalCost += hop.Cost
		totalTime += hop.TimeMs
		current = next
	}

	return models.Route{
		SourceChain:     hops[0].FromChain,
		TargetChain:     hops[numHops-1].ToChain,
		Hops:            hops,
		EstimatedCost:   totalCost,
		EstimatedTimeMs: totalTime,
		ConfidenceScore: 0.85 + g.rng.Float64()*0.14,
	}
}

func (g *Generator) nextChain(current string) string {
	for {
		candidate := g.chains[g.rng.Intn(len(g.chains))]
		if candidate != current {
			return candidate
		}
	}
}
