// Package mlp trains the small fully-connected next-character classifier.
//
// The architecture follows the original exporter's contract: a stack of
// ReLU hidden layers over a one-hot-plus-position input, with a softmax
// output over the vocabulary. Training runs in float64 on gonum matrices;
// the exported artifact stores float32 weights for the embedded consumer.
package mlp

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"adjgen/pkg/wmf"
)

// Config describes the network shape.
type Config struct {
	InputDim  int
	OutputDim int
	Width     int // neurons per hidden layer
	Depth     int // number of hidden layers
	Seed      int64
}

// Net is a feed-forward classifier. Layer l computes z = W*a + b with W
// shaped (out x in); hidden layers apply ReLU, the output layer softmax.
type Net struct {
	cfg     Config
	weights []*mat.Dense
	biases  []*mat.VecDense
}

// New constructs a network with He-initialised weights and zero biases.
func New(cfg Config) (*Net, error) {
	if cfg.InputDim <= 0 || cfg.OutputDim <= 0 {
		return nil, fmt.Errorf("mlp: input/output dims must be positive, got %d/%d", cfg.InputDim, cfg.OutputDim)
	}
	if cfg.Width <= 0 && cfg.Depth > 0 {
		return nil, fmt.Errorf("mlp: width must be positive with %d hidden layers", cfg.Depth)
	}
	if cfg.Depth < 0 {
		return nil, fmt.Errorf("mlp: depth must be non-negative, got %d", cfg.Depth)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := &Net{cfg: cfg}

	in := cfg.InputDim
	for l := 0; l < cfg.Depth; l++ {
		n.weights = append(n.weights, heInit(rng, cfg.Width, in))
		n.biases = append(n.biases, mat.NewVecDense(cfg.Width, nil))
		in = cfg.Width
	}
	n.weights = append(n.weights, heInit(rng, cfg.OutputDim, in))
	n.biases = append(n.biases, mat.NewVecDense(cfg.OutputDim, nil))
	return n, nil
}

func heInit(rng *rand.Rand, out, in int) *mat.Dense {
	data := make([]float64, out*in)
	scale := math.Sqrt(2 / float64(in))
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(out, in, data)
}

// Config returns the network shape.
func (n *Net) Config() Config { return n.cfg }

// Forward returns the probability distribution over the output classes for a
// single input vector. The result always sums to 1.
func (n *Net) Forward(x []float64) []float64 {
	if len(x) != n.cfg.InputDim {
		panic(fmt.Sprintf("mlp: input length %d, want %d", len(x), n.cfg.InputDim))
	}
	a := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for l := range n.weights {
		z := mat.NewVecDense(n.weights[l].RawMatrix().Rows, nil)
		z.MulVec(n.weights[l], a)
		z.AddVec(z, n.biases[l])
		if l < len(n.weights)-1 {
			reluInPlace(z)
		}
		a = z
	}
	probs := make([]float64, a.Len())
	softmax64(probs, a.RawVector().Data)
	return probs
}

// Layer is the export view of one dense layer: float32 weights in row-major
// (out x in) order plus bias, with the fused activation the consumer applies.
type Layer struct {
	InDim      int
	OutDim     int
	Activation wmf.Activation
	W          []float32
	B          []float32
}

// Layers converts the trained float64 parameters to the float32 export form.
func (n *Net) Layers() []Layer {
	out := make([]Layer, len(n.weights))
	for l, w := range n.weights {
		raw := w.RawMatrix()
		layer := Layer{
			InDim:      raw.Cols,
			OutDim:     raw.Rows,
			Activation: wmf.ActReLU,
			W:          make([]float32, raw.Rows*raw.Cols),
			B:          make([]float32, raw.Rows),
		}
		if l == len(n.weights)-1 {
			layer.Activation = wmf.ActSoftmax
		}
		for i := 0; i < raw.Rows; i++ {
			for j := 0; j < raw.Cols; j++ {
				layer.W[i*raw.Cols+j] = float32(w.At(i, j))
			}
		}
		bias := n.biases[l].RawVector().Data
		for i := range bias {
			layer.B[i] = float32(bias[i])
		}
		out[l] = layer
	}
	return out
}

func reluInPlace(v *mat.VecDense) {
	data := v.RawVector().Data
	for i, x := range data {
		if x < 0 {
			data[i] = 0
		}
	}
}

// softmax64 writes the numerically stable softmax of src into dst.
func softmax64(dst, src []float64) {
	maxVal := src[0]
	for _, v := range src[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for i, v := range src {
		e := math.Exp(v - maxVal)
		dst[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range dst {
		dst[i] *= inv
	}
}
