package datagen_test

import (
	"testing"

	"github.com/sentium-labs/bridge-optimizer/optimizer/datagen"
	"github.com/zeebo/assert"
)

var chains = []string{"ethereum", "polkadot", "bitcoin", "cosmos", "sentium"}

func TestExamplesReproducible(t *testing.T) {
	a := datagen.New(42, chains).Examples(20)
	b := datagen.New(42, chains).Examples(20)

	assert.Equal(t, len(a), len(b))
	for i := range a {
		assert.DeepEqual(t, a[i].Route, b[i].Route)
		assert.Equal(t, a[i].Target, b[i].Target)
	}
}

func TestExamplesValidRoutes(t *testing.T) {
	examples := datagen.New(7, chains).Examples(50)
	assert.Equal(t, 50, len(examples))

	for _, ex := range examples {
		assert.NoError(t, ex.Route.Validate())
		assert.True(t, len(ex.Route.Hops) >= 1 && len(ex.Route.Hops) <= 3)
		assert.True(t, ex.Target > 0 && ex.Target <= 1)

		// Consecutive hops chain together and never self-loop.
		for i, hop := range ex.Route.Hops {
			assert.True(t, hop.FromChain != hop.ToChain)
			if i > 0 {
				assert.Equal(t, ex.Route.Hops[i-1].ToChain, hop.FromChain)
			}
		}
	}
}

func TestExamplesAggregatesMatchHops(t *testing.T) {
	examples := datagen.New(3, chains).Examples(25)

	for _, ex := range examples {
		cost, timeMs := 0.0, 0.0
		for _, hop := range ex.Route.Hops {
			cost += hop.Cost
			timeMs += hop.TimeMs
		}
		assert.Equal(t, cost, ex.Route.EstimatedCost)
		assert.Equal(t, timeMs, ex.Route.EstimatedTimeMs)
	}
}
