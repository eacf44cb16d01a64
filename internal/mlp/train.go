package mlp

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"adjgen/internal/dataset"
	"adjgen/internal/logger"
)

// TrainConfig holds the optimisation hyperparameters. Zero values are
// replaced with the defaults the original pipeline used.
type TrainConfig struct {
	Epochs    int
	BatchSize int

	LearningRate float64 // Adam step size (default 1e-3)
	Beta1        float64 // default 0.9
	Beta2        float64 // default 0.999
	Eps          float64 // default 1e-8

	ValFrac  float64 // fraction of pairs held out (default 0.1)
	Seed     int64
	LogEvery int // epochs between progress logs (default 10)
}

func (c *TrainConfig) setDefaults() {
	if c.Epochs <= 0 {
		c.Epochs = 120
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 1e-3
	}
	if c.Beta1 <= 0 {
		c.Beta1 = 0.9
	}
	if c.Beta2 <= 0 {
		c.Beta2 = 0.999
	}
	if c.Eps <= 0 {
		c.Eps = 1e-8
	}
	if c.ValFrac <= 0 || c.ValFrac >= 1 {
		c.ValFrac = 0.1
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 10
	}
}

// Result summarises a completed training run.
type Result struct {
	TrainLoss   float64
	ValLoss     float64
	ValAccuracy float64
	TrainPairs  int
	ValPairs    int
}

// ErrEmptyDataset is returned when Train is handed no pairs.
var ErrEmptyDataset = errors.New("mlp: empty training dataset")

// Train fits the network to the pairs with mini-batch Adam on the sparse
// categorical cross-entropy objective. The tail ValFrac of the (already
// shuffled) pairs is held out for validation.
func (n *Net) Train(pairs []dataset.Pair, cfg TrainConfig, log logger.Logger) (Result, error) {
	if len(pairs) == 0 {
		return Result{}, ErrEmptyDataset
	}
	cfg.setDefaults()
	if log == nil {
		log = logger.Default()
	}

	xs := make([]*mat.VecDense, len(pairs))
	ys := make([]int, len(pairs))
	for i, p := range pairs {
		if len(p.Features) != n.cfg.InputDim {
			return Result{}, errors.New("mlp: feature width does not match network input")
		}
		if p.Target < 0 || p.Target >= n.cfg.OutputDim {
			return Result{}, errors.New("mlp: target outside output range")
		}
		data := make([]float64, len(p.Features))
		for j, v := range p.Features {
			data[j] = float64(v)
		}
		xs[i] = mat.NewVecDense(len(data), data)
		ys[i] = p.Target
	}

	split := len(pairs) - int(float64(len(pairs))*cfg.ValFrac)
	if split <= 0 {
		split = len(pairs)
	}
	trainX, trainY := xs[:split], ys[:split]
	valX, valY := xs[split:], ys[split:]

	opt := newAdam(n, cfg)
	rng := rand.New(rand.NewSource(cfg.Seed))
	order := make([]int, len(trainX))
	for i := range order {
		order[i] = i
	}

	scratch := newBackpropState(n)
	var epochLoss float64
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var lossSum float64
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, len(order))
			batch := order[start:end]

			opt.zeroGrads()
			for _, idx := range batch {
				lossSum += scratch.accumulate(n, opt, trainX[idx], trainY[idx])
			}
			opt.step(n, len(batch))
		}
		epochLoss = lossSum / float64(len(trainX))

		if epoch%cfg.LogEvery == 0 || epoch == cfg.Epochs {
			valLoss, valAcc := n.evaluate(valX, valY)
			log.Info("epoch complete",
				"epoch", epoch,
				"train_loss", round4(epochLoss),
				"val_loss", round4(valLoss),
				"val_acc", round4(valAcc),
			)
		}
	}

	valLoss, valAcc := n.evaluate(valX, valY)
	return Result{
		TrainLoss:   epochLoss,
		ValLoss:     valLoss,
		ValAccuracy: valAcc,
		TrainPairs:  len(trainX),
		ValPairs:    len(valX),
	}, nil
}

// evaluate returns mean cross-entropy and accuracy over a held-out set.
// An empty set yields zeros.
func (n *Net) evaluate(xs []*mat.VecDense, ys []int) (loss, acc float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var correct int
	for i, x := range xs {
		probs := n.Forward(x.RawVector().Data)
		loss += -math.Log(math.Max(probs[ys[i]], 1e-12))
		best := 0
		for j, p := range probs {
			if p > probs[best] {
				best = j
			}
		}
		if best == ys[i] {
			correct++
		}
	}
	return loss / float64(len(xs)), float64(correct) / float64(len(xs))
}

// backpropState holds per-sample forward activations and deltas so the inner
// loop does not allocate.
type backpropState struct {
	zs     []*mat.VecDense // pre-activation per layer
	as     []*mat.VecDense // post-activation per layer (as[0] is unused)
	deltas []*mat.VecDense
	probs  []float64
}

func newBackpropState(n *Net) *backpropState {
	s := &backpropState{probs: make([]float64, n.cfg.OutputDim)}
	for l := range n.weights {
		rows := n.weights[l].RawMatrix().Rows
		s.zs = append(s.zs, mat.NewVecDense(rows, nil))
		s.as = append(s.as, mat.NewVecDense(rows, nil))
		s.deltas = append(s.deltas, mat.NewVecDense(rows, nil))
	}
	return s
}

// accumulate runs one forward/backward pass, adds the gradients into opt, and
// returns the sample's cross-entropy loss.
func (s *backpropState) accumulate(n *Net, opt *adam, x *mat.VecDense, y int) float64 {
	last := len(n.weights) - 1

	// Forward, caching activations.
	a := x
	for l := range n.weights {
		s.zs[l].MulVec(n.weights[l], a)
		s.zs[l].AddVec(s.zs[l], n.biases[l])
		if l < last {
			s.as[l].CopyVec(s.zs[l])
			reluInPlace(s.as[l])
			a = s.as[l]
		}
	}
	softmax64(s.probs, s.zs[last].RawVector().Data)
	loss := -math.Log(math.Max(s.probs[y], 1e-12))

	// Output delta: probs - onehot(y).
	d := s.deltas[last].RawVector().Data
	copy(d, s.probs)
	d[y] -= 1

	// Backward through hidden layers.
	for l := last; l >= 0; l-- {
		prev := x
		if l > 0 {
			prev = s.as[l-1]
		}
		opt.gradW[l].RankOne(opt.gradW[l], 1, s.deltas[l], prev)
		opt.gradB[l].AddVec(opt.gradB[l], s.deltas[l])

		if l > 0 {
			s.deltas[l-1].MulVec(n.weights[l].T(), s.deltas[l])
			// ReLU gate: zero the delta where the forward pre-activation was
			// not positive.
			zd := s.zs[l-1].RawVector().Data
			dd := s.deltas[l-1].RawVector().Data
			for i, z := range zd {
				if z <= 0 {
					dd[i] = 0
				}
			}
		}
	}
	return loss
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
