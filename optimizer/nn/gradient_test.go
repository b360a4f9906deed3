package nn

import (
	"math"
	"testing"

	"github.com/sentium-labs/bridge-optimizer/optimizer/graph"
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
)

func trainBatch(t *testing.T) *graph.Batch {
	t.Helper()
	builder := graph.NewBuilder(models.DefaultRegistry())

	twoHop := models.Route{
		SourceChain: "ethereum",
		TargetChain: "polkadot",
		Hops: []models.Hop{
			{FromChain: "ethereum", ToChain: "sentium", BridgeType: models.BridgeNative, Cost: 50000, TimeMs: 5000},
			{FromChain: "sentium", ToChain: "polkadot", BridgeType: models.BridgeNative, Cost: 30000, TimeMs: 3000},
		},
	}
	oneHop := models.Route{
		SourceChain: "ethereum",
		TargetChain: "polkadot",
		Hops: []models.Hop{
			{FromChain: "ethereum", ToChain: "polkadot", BridgeType: models.BridgeLiquidity, Cost: 80000, TimeMs: 8000},
		},
	}

	g1, err := builder.Build(twoHop)
	if err != nil {
		t.Fatalf("build two-hop graph: %v", err)
	}
	g2, err := builder.Build(oneHop)
	if err != nil {
		t.Fatalf("build one-hop graph: %v", err)
	}

	return graph.NewBatch([]*graph.RouteGraph{g1, g2})
}

func TestMSELossNonNegative(t *testing.T) {
	s := NewScorer(WithSeed(11))
	batch := trainBatch(t)

	out := s.Forward(batch, Inference)
	loss, _ := mseLoss(out, []float64{0.5, 0.25})
	if loss < 0 {
		t.Fatalf("expected non-negative loss, got %v", loss)
	}

	// Perfect predictions give zero loss.
	loss, grad := mseLoss(out, []float64{out.At(0, 0), out.At(1, 0)})
	if loss != 0 {
		t.Fatalf("expected zero loss on exact targets, got %v", loss)
	}
	if grad.At(0, 0) != 0 || grad.At(1, 0) != 0 {
		t.Fatal("expected zero gradient on exact targets")
	}
}

// TestBackwardMatchesNumericalGradient compares the analytic gradients of
// every parameter group against central finite differences. Dropout rate 0
// keeps the training-mode forward pass deterministic.
func TestBackwardMatchesNumericalGradient(t *testing.T) {
	s := NewScorer(WithSeed(3), WithDropout(0))
	batch := trainBatch(t)
	targets := []float64{0.4, 0.7}

	lossAt := func() float64 {
		out := s.Forward(batch, Training)
		loss, _ := mseLoss(out, targets)
		return loss
	}

	cache := s.forward(batch, Training)
	_, dOut := mseLoss(cache.out, targets)
	grads := s.backward(cache, dOut)

	const eps = 1e-6
	const tol = 1e-5

	pg := s.params.groups()
	gg := grads.groups()

	for i, p := range pg {
		rows, cols := p.w.Dims()
		// Probe the corners of each group rather than every entry.
		probes := [][2]int{{0, 0}, {rows - 1, cols - 1}, {rows / 2, cols / 2}}

		for _, probe := range probes {
			r, c := probe[0], probe[1]
			orig := p.w.At(r, c)

			p.w.Set(r, c, orig+eps)
			up := lossAt()
			p.w.Set(r, c, orig-eps)
			down := lossAt()
			p.w.Set(r, c, orig)

			numeric := (up - down) / (2 * eps)
			analytic := gg[i].w.At(r, c)

			if math.Abs(numeric-analytic) > tol {
				t.Errorf("group %s entry (%d,%d): analytic %v, numeric %v", p.name, r, c, analytic, numeric)
			}
		}
	}
}

func TestAdamStepMovesParameters(t *testing.T) {
	s := NewScorer(WithSeed(3), WithDropout(0))
	batch := trainBatch(t)

	before := s.params.ConvW1.At(0, 0)

	cache := s.forward(batch, Training)
	_, dOut := mseLoss(cache.out, []float64{0.9, 0.1})
	grads := s.backward(cache, dOut)

	opt := newAdam(0.01)
	opt.update(s.params, grads)

	if s.params.ConvW1.At(0, 0) == before && grads.convW1.At(0, 0) != 0 {
		t.Fatal("expected Adam update to change parameters with non-zero gradient")
	}
}
