package graph

import (
	"gonum.org/v1/gonum/mat"
)

// Edge is one hop of a route, referencing node indices within its graph.
// Multiple edges between the same node pair are allowed (multigraph).
type Edge struct {
	From     int
	To       int
	Features [EdgeFeatureDim]float64
}

// RouteGraph is the node/edge representation of a single route. It is built
// fresh per scoring call and immutable once built. Node order is the
// lexicographic order of the distinct chain names, so identical routes always
// produce identical graphs.
type RouteGraph struct {
	// Nodes holds the chain names in node-index order.
	Nodes []string
	// NodeFeatures is a len(Nodes) x NodeFeatureDim matrix.
	NodeFeatures *mat.Dense
	Edges        []Edge
}

// NumNodes returns the number of distinct chains in the graph.
func (g *RouteGraph) NumNodes() int { return len(g.Nodes) }

// NumEdges returns the number of hops in the graph.
func (g *RouteGraph) NumEdges() int { return len(g.Edges) }

// Batch stacks several route graphs into one block-diagonal graph so a single
// forward pass scores all of them. GraphIndex assigns every node row to the
// graph it came from.
type Batch struct {
	// NodeFeatures is a totalNodes x NodeFeatureDim matrix.
	NodeFeatures *mat.Dense
	// GraphIndex maps node row -> graph ordinal within the batch.
	GraphIndex []int
	NumGraphs  int
	edges      []Edge // node indices offset into the stacked rows
}

// NewBatch concatenates the given graphs. Edges keep their within-graph
// endpoints shifted by the running node offset, so propagation never crosses
// graph boundaries.
func NewBatch(graphs []*RouteGraph) *Batch {
	total := 0
	for _, g := range graphs {
		total += g.NumNodes()
	}

	features := mat.NewDense(total, NodeFeatureDim, nil)
	index := make([]int, total)
	var edges []Edge

	offset := 0
	for gi, g := range graphs {
		for i := 0; i < g.NumNodes(); i++ {
			features.SetRow(offset+i, g.NodeFeatures.RawRowView(i))
			index[offset+i] = gi
		}
		for _, e := range g.Edges {
			edges = append(edges, Edge{From: offset + e.From, To: offset + e.To, Features: e.Features})
		}
		offset += g.NumNodes()
	}

	return &Batch{
		NodeFeatures: features,
		GraphIndex:   index,
		NumGraphs:    len(graphs),
		edges:        edges,
	}
}

// NumNodes returns the total node count across the batch.
func (b *Batch) NumNodes() int { return len(b.GraphIndex) }

// Propagator returns the neighbor-aggregation operator P: a row-normalized
// adjacency matrix with self-loops. Row v averages node v's own features with
// those of every in-neighbor, counting parallel edges once each, so
// P·X computes one mean-aggregation step for all nodes at once.
func (b *Batch) Propagator() *mat.Dense {
	n := b.NumNodes()
	p := mat.NewDense(n, n, nil)

	indeg := make([]int, n)
	for _, e := range b.edges {
		indeg[e.To]++
	}

	for v := 0; v < n; v++ {
		p.Set(v, v, 1.0/float64(indeg[v]+1))
	}
	for _, e := range b.edges {
		w := 1.0 / float64(indeg[e.To]+1)
		p.Set(e.To, e.From, p.At(e.To, e.From)+w)
	}

	return p
}

// PoolMatrix returns the graph-level mean-pooling operator M
// (NumGraphs x totalNodes): M·H yields the elementwise mean of each graph's
// node vectors. The mean is invariant to node ordering within a graph.
func (b *Batch) PoolMatrix() *mat.Dense {
	counts := make([]int, b.NumGraphs)
	for _, gi := range b.GraphIndex {
		counts[gi]++
	}

	m := mat.NewDense(b.NumGraphs, b.NumNodes(), nil)
	for v, gi := range b.GraphIndex {
		m.Set(gi, v, 1.0/float64(counts[gi]))
	}
	return m
}
