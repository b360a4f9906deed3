package graph

import (
	"errors"
	"sort"

	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyRoute is returned when a route with zero hops reaches the builder;
// such a route has no defined graph.
var ErrEmptyRoute = errors.New("graph: route has no hops")

// Builder converts routes into their graph representation using the chain
// registry for node features.
type Builder struct {
	registry models.ChainRegistry
}

// NewBuilder creates a Builder over the given registry.
func NewBuilder(registry models.ChainRegistry) *Builder {
	return &Builder{registry: registry}
}

// nodeOrder returns the node-index assignment for a set of chain names:
// lexicographic order. This is the single definition of node ordering; every
// build of the same route yields identical node indices.
func nodeOrder(chains map[string]struct{}) []string {
	names := make([]string, 0, len(chains))
	for name := range chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the directed multigraph for a route: one node per distinct
// chain, one edge per hop in input order. The result is self-contained and
// safe to use after the route is discarded.
func (b *Builder) Build(route models.Route) (*RouteGraph, error) {
	if len(route.Hops) == 0 {
		return nil, ErrEmptyRoute
	}

	chains := make(map[string]struct{}, len(route.Hops)+1)
	for _, hop := range route.Hops {
		chains[hop.FromChain] = struct{}{}
		chains[hop.ToChain] = struct{}{}
	}

	nodes := nodeOrder(chains)
	nodeIdx := make(map[string]int, len(nodes))
	for i, name := range nodes {
		nodeIdx[name] = i
	}

	features := mat.NewDense(len(nodes), NodeFeatureDim, nil)
	for i, name := range nodes {
		vec := EncodeChain(b.registry, name)
		features.SetRow(i, vec[:])
	}

	edges := make([]Edge, 0, len(route.Hops))
	for _, hop := range route.Hops {
		edges = append(edges, Edge{
			From:     nodeIdx[hop.FromChain],
			To:       nodeIdx[hop.ToChain],
			Features: encodeHop(hop),
		})
	}

	return &RouteGraph{Nodes: nodes, NodeFeatures: features, Edges: edges}, nil
}

// encodeHop builds the edge feature vector: normalized cost, normalized time,
// and the bridge-type one-hot. An unrecognized bridge type leaves the one-hot
// all zero, mirroring the unknown-chain policy.
func encodeHop(hop models.Hop) [EdgeFeatureDim]float64 {
	var features [EdgeFeatureDim]float64
	features[0] = hop.Cost / 1e5
	features[1] = hop.TimeMs / 1e6
	for i, bt := range models.BridgeTypes {
		if hop.BridgeType == bt {
			features[2+i] = 1.0
			break
		}
	}
	return features
}
