package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// adam implements the Adam adaptive gradient-descent update with the usual
// defaults (beta1=0.9, beta2=0.999, eps=1e-8).
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	step  int
	m     map[string]*mat.Dense // first-moment estimates per group
	v     map[string]*mat.Dense // second-moment estimates per group
}

func newAdam(lr float64) *adam {
	return &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     make(map[string]*mat.Dense),
		v:     make(map[string]*mat.Dense),
	}
}

// update applies one bias-corrected Adam step to every parameter group in
// place.
func (a *adam) update(params *Parameters, grads *gradients) {
	a.step++
	pg := params.groups()
	gg := grads.groups()

	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, pGroup := range pg {
		w := pGroup.w
		grad := gg[i].w
		rows, cols := w.Dims()

		m, ok := a.m[pGroup.name]
		if !ok {
			m = mat.NewDense(rows, cols, nil)
			a.m[pGroup.name] = m
		}
		v, ok := a.v[pGroup.name]
		if !ok {
			v = mat.NewDense(rows, cols, nil)
			a.v[pGroup.name] = v
		}

		for r := 0; r < rows; r++ {
			for col := 0; col < cols; col++ {
				g := grad.At(r, col)
				mv := a.beta1*m.At(r, col) + (1-a.beta1)*g
				vv := a.beta2*v.At(r, col) + (1-a.beta2)*g*g
				m.Set(r, col, mv)
				v.Set(r, col, vv)

				mHat := mv / c1
				vHat := vv / c2
				w.Set(r, col, w.At(r, col)-a.lr*mHat/(math.Sqrt(vHat)+a.eps))
			}
		}
	}
}
