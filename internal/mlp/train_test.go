package mlp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adjgen/internal/dataset"
	"adjgen/internal/logger"
	"adjgen/internal/vocab"
)

func trainPairs(t *testing.T, words []string) []dataset.Pair {
	t.Helper()
	return dataset.Build(vocab.New(), words, 7)
}

func TestTrainEmptyDataset(t *testing.T) {
	t.Parallel()
	n := testNet(t)
	_, err := n.Train(nil, TrainConfig{}, logger.Default())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestTrainRejectsBadPairs(t *testing.T) {
	t.Parallel()
	n := testNet(t)

	bad := []dataset.Pair{{Features: make([]float32, 3), Target: 1}}
	_, err := n.Train(bad, TrainConfig{Epochs: 1}, logger.Default())
	assert.Error(t, err)

	bad = []dataset.Pair{{Features: make([]float32, vocab.InputDim), Target: vocab.Size}}
	_, err = n.Train(bad, TrainConfig{Epochs: 1}, logger.Default())
	assert.Error(t, err)
}

func TestTrainReducesLoss(t *testing.T) {
	t.Parallel()
	pairs := trainPairs(t, []string{"blue", "bold", "bright", "brave", "broad"})
	var buf bytes.Buffer
	log := logger.Setup(&buf, "error", "text")

	n := testNet(t)
	before := meanLoss(n, pairs)

	res, err := n.Train(pairs, TrainConfig{
		Epochs:    80,
		BatchSize: 8,
		ValFrac:   0.1,
		Seed:      3,
	}, log)
	require.NoError(t, err)

	assert.Less(t, res.TrainLoss, before, "training should reduce cross-entropy")
	assert.Greater(t, res.TrainPairs, 0)
}

// TestTrainMemorisesSingleWord checks that the model can overfit one word:
// after enough epochs the argmax continuation of "blue" is recovered exactly.
func TestTrainMemorisesSingleWord(t *testing.T) {
	t.Parallel()
	v := vocab.New()
	pairs := trainPairs(t, []string{"blue"})
	var buf bytes.Buffer
	log := logger.Setup(&buf, "error", "text")

	n, err := New(Config{
		InputDim:  vocab.InputDim,
		OutputDim: vocab.Size,
		Width:     32,
		Depth:     1,
		Seed:      5,
	})
	require.NoError(t, err)

	_, err = n.Train(pairs, TrainConfig{
		Epochs:    400,
		BatchSize: 8,
		Seed:      5,
	}, log)
	require.NoError(t, err)

	seq := v.Encode("blue")
	feat := make([]float32, vocab.InputDim)
	x := make([]float64, vocab.InputDim)
	for i := 0; i+1 < len(seq); i++ {
		v.Features(feat, seq[i], i)
		for j, f := range feat {
			x[j] = float64(f)
		}
		probs := n.Forward(x)
		best := 0
		for j, p := range probs {
			if p > probs[best] {
				best = j
			}
		}
		assert.Equal(t, seq[i+1], best, "position %d", i)
	}
}

// meanLoss computes cross-entropy over all pairs with the current weights.
func meanLoss(n *Net, pairs []dataset.Pair) float64 {
	x := make([]float64, vocab.InputDim)
	var loss float64
	for _, p := range pairs {
		for j, f := range p.Features {
			x[j] = float64(f)
		}
		probs := n.Forward(x)
		loss += -math.Log(math.Max(probs[p.Target], 1e-12))
	}
	return loss / float64(len(pairs))
}
