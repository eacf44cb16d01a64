package mlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adjgen/internal/vocab"
	"adjgen/pkg/wmf"
)

func testNet(t *testing.T) *Net {
	t.Helper()
	n, err := New(Config{
		InputDim:  vocab.InputDim,
		OutputDim: vocab.Size,
		Width:     16,
		Depth:     2,
		Seed:      1,
	})
	require.NoError(t, err)
	return n
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()
	_, err := New(Config{InputDim: 0, OutputDim: 28, Width: 8, Depth: 1})
	assert.Error(t, err)
	_, err = New(Config{InputDim: 29, OutputDim: 0, Width: 8, Depth: 1})
	assert.Error(t, err)
	_, err = New(Config{InputDim: 29, OutputDim: 28, Width: 0, Depth: 2})
	assert.Error(t, err)
	_, err = New(Config{InputDim: 29, OutputDim: 28, Width: 8, Depth: -1})
	assert.Error(t, err)

	// Depth 0 is a plain softmax regression and is legal.
	_, err = New(Config{InputDim: 29, OutputDim: 28, Depth: 0})
	assert.NoError(t, err)
}

func TestForwardIsDistribution(t *testing.T) {
	t.Parallel()
	n := testNet(t)
	x := make([]float64, vocab.InputDim)
	x[3] = 1
	x[vocab.InputDim-1] = 0.2

	probs := n.Forward(x)
	require.Len(t, probs, vocab.Size)

	var sum float64
	for _, p := range probs {
		assert.Greater(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestForwardDeterministicBySeed(t *testing.T) {
	t.Parallel()
	a := testNet(t)
	b := testNet(t)
	x := make([]float64, vocab.InputDim)
	x[5] = 1

	assert.Equal(t, a.Forward(x), b.Forward(x))
}

func TestLayersShape(t *testing.T) {
	t.Parallel()
	n := testNet(t)
	layers := n.Layers()
	require.Len(t, layers, 3) // 2 hidden + output

	assert.Equal(t, vocab.InputDim, layers[0].InDim)
	assert.Equal(t, 16, layers[0].OutDim)
	assert.Equal(t, wmf.ActReLU, layers[0].Activation)

	assert.Equal(t, 16, layers[1].InDim)
	assert.Equal(t, wmf.ActReLU, layers[1].Activation)

	last := layers[2]
	assert.Equal(t, 16, last.InDim)
	assert.Equal(t, vocab.Size, last.OutDim)
	assert.Equal(t, wmf.ActSoftmax, last.Activation)
	assert.Len(t, last.W, 16*vocab.Size)
	assert.Len(t, last.B, vocab.Size)
}
