package nn

import (
	"math/rand"

	"github.com/sentium-labs/bridge-optimizer/optimizer/graph"
	"gonum.org/v1/gonum/mat"
)

// Mode selects whether stochastic regularization is active for one forward
// pass. It is a call parameter, never scorer state, so concurrent inference
// calls cannot race a mode toggle.
type Mode int

const (
	// Inference disables dropout; the forward pass is a pure deterministic
	// function of the batch and the current parameters.
	Inference Mode = iota
	// Training enables inverted dropout after layers 1 and 2 and inside the
	// head. Training-mode calls require exclusive access to the scorer.
	Training
)

// DefaultDropout is the fraction of activations zeroed during training.
const DefaultDropout = 0.2

// Scorer maps a route graph to a scalar desirability score via three
// neighbor-aggregation layers, graph-level mean pooling and a small
// feed-forward head. Higher scores mean more desirable routes.
type Scorer struct {
	params  *Parameters
	dropout float64
	rng     *rand.Rand
}

// ScorerOption configures a Scorer.
type ScorerOption func(*scorerConfig)

type scorerConfig struct {
	seed    int64
	dropout float64
}

// WithSeed fixes the seed used for weight initialization and dropout
// sampling, making training runs reproducible.
func WithSeed(seed int64) ScorerOption {
	return func(c *scorerConfig) { c.seed = seed }
}

// WithDropout overrides the training-mode dropout rate.
func WithDropout(rate float64) ScorerOption {
	return func(c *scorerConfig) { c.dropout = rate }
}

// NewScorer creates a Scorer with freshly initialized parameters.
func NewScorer(opts ...ScorerOption) *Scorer {
	cfg := scorerConfig{seed: 1, dropout: DefaultDropout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scorer{
		params:  NewParameters(cfg.seed),
		dropout: cfg.dropout,
		rng:     rand.New(rand.NewSource(cfg.seed)),
	}
}

// Params exposes the current parameters, primarily for checkpointing.
func (s *Scorer) Params() *Parameters { return s.params }

// SetParams replaces the scorer's parameters, e.g. after a checkpoint load.
func (s *Scorer) SetParams(p *Parameters) { s.params = p }

// Score runs single-graph inference and returns the scalar score.
func (s *Scorer) Score(g *graph.RouteGraph) float64 {
	out := s.Forward(graph.NewBatch([]*graph.RouteGraph{g}), Inference)
	return out.At(0, 0)
}

// Forward scores every graph in the batch and returns a NumGraphs x 1 matrix
// of predictions. With mode Inference the result depends only on the batch
// contents and the current parameters.
func (s *Scorer) Forward(b *graph.Batch, mode Mode) *mat.Dense {
	cache := s.forward(b, mode)
	return cache.out
}

// forwardCache keeps every intermediate the backward pass needs. Inference
// calls fill the same struct; the unused masks stay nil.
type forwardCache struct {
	batch *graph.Batch
	prop  *mat.Dense // propagation operator P
	pool  *mat.Dense // mean-pooling operator M

	px1 *mat.Dense // P * X
	s1  *mat.Dense // pre-activation of layer 1
	h1  *mat.Dense // relu(s1), after dropout in training
	m1  *mat.Dense // dropout mask 1

	px2 *mat.Dense
	s2  *mat.Dense
	h2  *mat.Dense
	m2  *mat.Dense

	px3 *mat.Dense
	s3  *mat.Dense
	h3  *mat.Dense // relu(s3), no dropout before pooling

	pooled *mat.Dense // M * h3
	t1     *mat.Dense // pre-activation of head layer 1
	z1     *mat.Dense // relu(t1), after dropout in training
	m4     *mat.Dense

	out *mat.Dense // NumGraphs x 1
}

func (s *Scorer) forward(b *graph.Batch, mode Mode) *forwardCache {
	c := &forwardCache{batch: b}
	c.prop = b.Propagator()
	c.pool = b.PoolMatrix()
	p := s.params

	// Layer 1: aggregate, project, rectify, dropout.
	c.px1 = matMul(c.prop, b.NodeFeatures)
	c.s1 = affine(c.px1, p.ConvW1, p.ConvB1)
	c.h1 = relu(c.s1)
	if mode == Training {
		c.m1 = s.dropoutMask(c.h1)
		c.h1 = matMulElem(c.h1, c.m1)
	}

	// Layer 2.
	c.px2 = matMul(c.prop, c.h1)
	c.s2 = affine(c.px2, p.ConvW2, p.ConvB2)
	c.h2 = relu(c.s2)
	if mode == Training {
		c.m2 = s.dropoutMask(c.h2)
		c.h2 = matMulElem(c.h2, c.m2)
	}

	// Layer 3 keeps its rectification but feeds pooling directly.
	c.px3 = matMul(c.prop, c.h2)
	c.s3 = affine(c.px3, p.ConvW3, p.ConvB3)
	c.h3 = relu(c.s3)

	// Graph-level mean pooling, then the scoring head.
	c.pooled = matMul(c.pool, c.h3)
	c.t1 = affine(c.pooled, p.HeadW1, p.HeadB1)
	c.z1 = relu(c.t1)
	if mode == Training {
		c.m4 = s.dropoutMask(c.z1)
		c.z1 = matMulElem(c.z1, c.m4)
	}
	c.out = affine(c.z1, p.HeadW2, p.HeadB2)

	return c
}

// dropoutMask samples an inverted-dropout mask: kept entries carry 1/(1-p) so
// activation expectations match between training and inference.
func (s *Scorer) dropoutMask(like *mat.Dense) *mat.Dense {
	rows, cols := like.Dims()
	scale := 1.0 / (1.0 - s.dropout)
	data := make([]float64, rows*cols)
	for i := range data {
		if s.rng.Float64() >= s.dropout {
			data[i] = scale
		}
	}
	return mat.NewDense(rows, cols, data)
}

func matMul(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

func matMulElem(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.MulElem(a, b)
	return &out
}

// affine computes x*w + b with the 1-row bias broadcast over every row.
func affine(x, w, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(x, w)
	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, out.At(i, j)+b.At(0, j))
		}
	}
	return &out
}

func relu(x *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, x)
	return &out
}

// reluGrad zeroes grad entries where the pre-activation was not positive.
func reluGrad(grad, pre *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(i, j int, v float64) float64 {
		if pre.At(i, j) > 0 {
			return v
		}
		return 0
	}, grad)
	return &out
}
