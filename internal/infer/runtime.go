// Package infer loads an exported WMF artifact and runs forward passes over
// it. The runtime mirrors the embedded consumer: fused dense+ReLU kernels in
// float32 with a numerically stable softmax on the output layer.
package infer

import (
	"fmt"

	"adjgen/internal/tensor"
	"adjgen/pkg/wmf"
)

type layer struct {
	w    tensor.Mat
	b    []float32
	relu bool
}

// Runtime is a loaded, read-only model. It is stateless between calls apart
// from scratch buffers, so a single Runtime serves any number of sequential
// queries.
type Runtime struct {
	info   *wmf.ModelInfo
	layers []layer

	inDim  int
	outDim int

	// ping-pong activation buffers sized for the widest layer
	bufA []float32
	bufB []float32
}

// Load opens a WMF artifact, validates its structure, and copies the weights
// into the runtime. The file handle is released before returning.
func Load(path string) (*Runtime, error) {
	f, err := wmf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("infer: open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	infoSec := f.Section(wmf.SectionModelInfo)
	if infoSec == nil {
		return nil, fmt.Errorf("%w: missing model info section", wmf.ErrCorruptFile)
	}
	info, err := wmf.ParseModelInfo(f.SectionData(infoSec))
	if err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}

	idxSec := f.Section(wmf.SectionLayerIndex)
	if idxSec == nil {
		return nil, fmt.Errorf("%w: missing layer index section", wmf.ErrCorruptFile)
	}
	weightsSec := f.Section(wmf.SectionWeights)
	if weightsSec == nil {
		return nil, fmt.Errorf("%w: missing weights section", wmf.ErrCorruptFile)
	}
	weights := f.SectionData(weightsSec)

	entries, err := wmf.ParseLayerIndex(f.SectionData(idxSec), uint64(len(weights)))
	if err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}

	rt := &Runtime{
		info:   info,
		inDim:  int(info.InputDim),
		outDim: int(info.VocabSize),
	}

	expectIn := rt.inDim
	maxWidth := rt.inDim
	for i, e := range entries {
		if int(e.InDim) != expectIn {
			return nil, fmt.Errorf("%w: layer %d input dim %d, want %d", wmf.ErrCorruptFile, i, e.InDim, expectIn)
		}
		w, err := tensor.NewMatFromRaw(int(e.OutDim), int(e.InDim), weights[e.WeightOff:e.WeightOff+e.WeightSize])
		if err != nil {
			return nil, fmt.Errorf("infer: layer %d weights: %w", i, err)
		}
		bMat, err := tensor.NewMatFromRaw(1, int(e.OutDim), weights[e.BiasOff:e.BiasOff+e.BiasSize])
		if err != nil {
			return nil, fmt.Errorf("infer: layer %d bias: %w", i, err)
		}

		relu := e.Activation == wmf.ActReLU
		if i == len(entries)-1 {
			if e.Activation != wmf.ActSoftmax {
				return nil, fmt.Errorf("%w: output layer activation %s, want softmax", wmf.ErrCorruptFile, e.Activation)
			}
			relu = false
		} else if e.Activation == wmf.ActSoftmax {
			return nil, fmt.Errorf("%w: softmax on non-output layer %d", wmf.ErrCorruptFile, i)
		}

		rt.layers = append(rt.layers, layer{w: w, b: bMat.Data, relu: relu})
		expectIn = int(e.OutDim)
		if expectIn > maxWidth {
			maxWidth = expectIn
		}
	}
	if expectIn != rt.outDim {
		return nil, fmt.Errorf("%w: output dim %d, want %d", wmf.ErrCorruptFile, expectIn, rt.outDim)
	}

	rt.bufA = make([]float32, maxWidth)
	rt.bufB = make([]float32, maxWidth)
	return rt, nil
}

// Info returns the artifact metadata.
func (r *Runtime) Info() *wmf.ModelInfo { return r.info }

// InputDim returns the expected feature vector length.
func (r *Runtime) InputDim() int { return r.inDim }

// OutputDim returns the vocabulary size of the output distribution.
func (r *Runtime) OutputDim() int { return r.outDim }

// Probs runs one forward pass and writes the output probability distribution
// into dst. dst must have length OutputDim, in length InputDim. The result
// sums to 1. Probs is not safe for concurrent use on a single Runtime.
func (r *Runtime) Probs(dst, in []float32) error {
	if len(in) != r.inDim {
		return fmt.Errorf("infer: input length %d, want %d", len(in), r.inDim)
	}
	if len(dst) != r.outDim {
		return fmt.Errorf("infer: output length %d, want %d", len(dst), r.outDim)
	}

	cur, next := r.bufA, r.bufB
	copy(cur[:len(in)], in)
	x := cur[:len(in)]
	for _, l := range r.layers {
		out := next[:l.w.R]
		tensor.MatVecBias(out, &l.w, x, l.b, l.relu)
		cur, next = next, cur
		x = out
	}
	tensor.Softmax(dst, x)
	return nil
}
