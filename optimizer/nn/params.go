package nn

import (
	"math"
	"math/rand"

	"github.com/sentium-labs/bridge-optimizer/optimizer/graph"
	"gonum.org/v1/gonum/mat"
)

const (
	// InputDim is the node feature width the first layer consumes.
	InputDim = graph.NodeFeatureDim
	// HiddenDim is the width of the message-passing layers.
	HiddenDim = 64
	// HeadDim is the width of the hidden layer of the scoring head.
	HeadDim = 32
)

// Parameters holds every learned weight group of the scorer: three
// message-passing layers and the two-layer feed-forward head. It is owned by
// one Scorer and mutated only through training updates or checkpoint loads.
type Parameters struct {
	ConvW1 *mat.Dense // InputDim x HiddenDim
	ConvB1 *mat.Dense // 1 x HiddenDim
	ConvW2 *mat.Dense // HiddenDim x HiddenDim
	ConvB2 *mat.Dense // 1 x HiddenDim
	ConvW3 *mat.Dense // HiddenDim x HiddenDim
	ConvB3 *mat.Dense // 1 x HiddenDim
	HeadW1 *mat.Dense // HiddenDim x HeadDim
	HeadB1 *mat.Dense // 1 x HeadDim
	HeadW2 *mat.Dense // HeadDim x 1
	HeadB2 *mat.Dense // 1 x 1
}

// group pairs a parameter matrix with its stable checkpoint name.
type group struct {
	name string
	w    *mat.Dense
}

func (p *Parameters) groups() []group {
	return []group{
		{"conv1.weight", p.ConvW1},
		{"conv1.bias", p.ConvB1},
		{"conv2.weight", p.ConvW2},
		{"conv2.bias", p.ConvB2},
		{"conv3.weight", p.ConvW3},
		{"conv3.bias", p.ConvB3},
		{"head1.weight", p.HeadW1},
		{"head1.bias", p.HeadB1},
		{"head2.weight", p.HeadW2},
		{"head2.bias", p.HeadB2},
	}
}

// NewParameters initializes all weight groups with Glorot-uniform values drawn
// from a seeded generator, so two instances built with the same seed start
// from identical weights. Biases start at zero.
func NewParameters(seed int64) *Parameters {
	rng := rand.New(rand.NewSource(seed))
	return &Parameters{
		ConvW1: glorot(rng, InputDim, HiddenDim),
		ConvB1: mat.NewDense(1, HiddenDim, nil),
		ConvW2: glorot(rng, HiddenDim, HiddenDim),
		ConvB2: mat.NewDense(1, HiddenDim, nil),
		ConvW3: glorot(rng, HiddenDim, HiddenDim),
		ConvB3: mat.NewDense(1, HiddenDim, nil),
		HeadW1: glorot(rng, HiddenDim, HeadDim),
		HeadB1: mat.NewDense(1, HeadDim, nil),
		HeadW2: glorot(rng, HeadDim, 1),
		HeadB2: mat.NewDense(1, 1, nil),
	}
}

func glorot(rng *rand.Rand, fanIn, fanOut int) *mat.Dense {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return mat.NewDense(fanIn, fanOut, data)
}
