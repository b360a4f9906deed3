package nn

import "gonum.org/v1/gonum/mat"

// gradients mirrors Parameters group-for-group.
type gradients struct {
	convW1, convB1 *mat.Dense
	convW2, convB2 *mat.Dense
	convW3, convB3 *mat.Dense
	headW1, headB1 *mat.Dense
	headW2, headB2 *mat.Dense
}

func (g *gradients) groups() []group {
	return []group{
		{"conv1.weight", g.convW1},
		{"conv1.bias", g.convB1},
		{"conv2.weight", g.convW2},
		{"conv2.bias", g.convB2},
		{"conv3.weight", g.convW3},
		{"conv3.bias", g.convB3},
		{"head1.weight", g.headW1},
		{"head1.bias", g.headB1},
		{"head2.weight", g.headW2},
		{"head2.bias", g.headB2},
	}
}

// mseLoss returns the mean squared error between predictions and targets
// along with the gradient of the loss w.r.t. the predictions.
func mseLoss(pred *mat.Dense, targets []float64) (float64, *mat.Dense) {
	n, _ := pred.Dims()
	grad := mat.NewDense(n, 1, nil)
	loss := 0.0
	for i := 0; i < n; i++ {
		diff := pred.At(i, 0) - targets[i]
		loss += diff * diff
		grad.Set(i, 0, 2*diff/float64(n))
	}
	return loss / float64(n), grad
}

// backward propagates dOut (gradient w.r.t. the predictions) through the
// cached forward pass and returns gradients for every parameter group.
func (s *Scorer) backward(c *forwardCache, dOut *mat.Dense) *gradients {
	p := s.params
	g := &gradients{}

	// Head layer 2: out = z1*W + b.
	g.headW2 = matMul(transpose(c.z1), dOut)
	g.headB2 = colSums(dOut)
	dZ1 := matMul(dOut, transpose(p.HeadW2))

	// Head layer 1 with dropout and rectification.
	if c.m4 != nil {
		dZ1 = matMulElem(dZ1, c.m4)
	}
	dT1 := reluGrad(dZ1, c.t1)
	g.headW1 = matMul(transpose(c.pooled), dT1)
	g.headB1 = colSums(dT1)
	dPooled := matMul(dT1, transpose(p.HeadW1))

	// Pooling is linear: distribute each graph gradient over its nodes.
	dH3 := matMul(transpose(c.pool), dPooled)

	// Layer 3.
	dS3 := reluGrad(dH3, c.s3)
	g.convW3 = matMul(transpose(c.px3), dS3)
	g.convB3 = colSums(dS3)
	dH2 := matMul(transpose(c.prop), matMul(dS3, transpose(p.ConvW3)))

	// Layer 2.
	if c.m2 != nil {
		dH2 = matMulElem(dH2, c.m2)
	}
	dS2 := reluGrad(dH2, c.s2)
	g.convW2 = matMul(transpose(c.px2), dS2)
	g.convB2 = colSums(dS2)
	dH1 := matMul(transpose(c.prop), matMul(dS2, transpose(p.ConvW2)))

	// Layer 1. Node features are inputs, so no gradient flows past it.
	if c.m1 != nil {
		dH1 = matMulElem(dH1, c.m1)
	}
	dS1 := reluGrad(dH1, c.s1)
	g.convW1 = matMul(transpose(c.px1), dS1)
	g.convB1 = colSums(dS1)

	return g
}

func transpose(a *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(a.T())
	return &out
}

// colSums reduces a matrix to a single row holding its column sums, matching
// the 1 x n bias shape.
func colSums(a *mat.Dense) *mat.Dense {
	rows, cols := a.Dims()
	out := mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += a.At(i, j)
		}
		out.Set(0, j, sum)
	}
	return out
}
