package mlp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// adam carries the optimiser moments and per-batch gradient accumulators,
// one entry per layer, shaped like the corresponding parameters.
type adam struct {
	lr, beta1, beta2, eps float64
	t                     int

	gradW []*mat.Dense
	gradB []*mat.VecDense
	mW    []*mat.Dense
	vW    []*mat.Dense
	mB    []*mat.VecDense
	vB    []*mat.VecDense
}

func newAdam(n *Net, cfg TrainConfig) *adam {
	opt := &adam{
		lr:    cfg.LearningRate,
		beta1: cfg.Beta1,
		beta2: cfg.Beta2,
		eps:   cfg.Eps,
	}
	for l := range n.weights {
		raw := n.weights[l].RawMatrix()
		opt.gradW = append(opt.gradW, mat.NewDense(raw.Rows, raw.Cols, nil))
		opt.mW = append(opt.mW, mat.NewDense(raw.Rows, raw.Cols, nil))
		opt.vW = append(opt.vW, mat.NewDense(raw.Rows, raw.Cols, nil))
		opt.gradB = append(opt.gradB, mat.NewVecDense(raw.Rows, nil))
		opt.mB = append(opt.mB, mat.NewVecDense(raw.Rows, nil))
		opt.vB = append(opt.vB, mat.NewVecDense(raw.Rows, nil))
	}
	return opt
}

func (o *adam) zeroGrads() {
	for l := range o.gradW {
		o.gradW[l].Zero()
		o.gradB[l].Zero()
	}
}

// step applies one bias-corrected Adam update using the accumulated
// gradients averaged over batchSize samples.
func (o *adam) step(n *Net, batchSize int) {
	if batchSize <= 0 {
		return
	}
	o.t++
	invBatch := 1 / float64(batchSize)
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))

	for l := range n.weights {
		o.update(n.weights[l].RawMatrix().Data, o.gradW[l].RawMatrix().Data,
			o.mW[l].RawMatrix().Data, o.vW[l].RawMatrix().Data, invBatch, c1, c2)
		o.update(n.biases[l].RawVector().Data, o.gradB[l].RawVector().Data,
			o.mB[l].RawVector().Data, o.vB[l].RawVector().Data, invBatch, c1, c2)
	}
}

func (o *adam) update(param, grad, m, v []float64, invBatch, c1, c2 float64) {
	for i := range param {
		g := grad[i] * invBatch
		m[i] = o.beta1*m[i] + (1-o.beta1)*g
		v[i] = o.beta2*v[i] + (1-o.beta2)*g*g
		mHat := m[i] / c1
		vHat := v[i] / c2
		param[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
	}
}
