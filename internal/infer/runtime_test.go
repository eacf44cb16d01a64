package infer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adjgen/internal/mlp"
	"adjgen/internal/vocab"
	"adjgen/pkg/wmf"
)

func exportTestModel(t *testing.T) (string, *mlp.Net) {
	t.Helper()
	n, err := mlp.New(mlp.Config{
		InputDim:  vocab.InputDim,
		OutputDim: vocab.Size,
		Width:     12,
		Depth:     2,
		Seed:      21,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "adjective_model.wmf")
	info := &wmf.ModelInfo{
		Name:       "adjective_model_test",
		BuildID:    uuid.NewString(),
		MaxWordLen: vocab.MaxWordLen,
		SeqLen:     vocab.SeqLen,
	}
	require.NoError(t, mlp.Export(n, path, info))
	return path, n
}

func TestLoadAndProbsMatchTrainingNet(t *testing.T) {
	t.Parallel()
	path, n := exportTestModel(t)

	rt, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, vocab.InputDim, rt.InputDim())
	assert.Equal(t, vocab.Size, rt.OutputDim())
	require.NotNil(t, rt.Info())
	assert.Equal(t, "adjective_model_test", rt.Info().Name)
	assert.NotEmpty(t, rt.Info().BuildID)

	v := vocab.New()
	feat := make([]float32, vocab.InputDim)
	x := make([]float64, vocab.InputDim)
	probs := make([]float32, vocab.Size)

	for pos := 0; pos < vocab.SeqLen; pos++ {
		for sym := 0; sym < vocab.Size; sym++ {
			v.Features(feat, sym, pos)
			require.NoError(t, rt.Probs(probs, feat))

			var sum float64
			for _, p := range probs {
				sum += float64(p)
			}
			assert.InDelta(t, 1.0, sum, 1e-5)

			for j, f := range feat {
				x[j] = float64(f)
			}
			want := n.Forward(x)
			for i := range probs {
				// float32 storage and kernels introduce small drift
				if math.Abs(float64(probs[i])-want[i]) > 1e-4 {
					t.Fatalf("prob[%d] = %v, want %v (sym %d pos %d)", i, probs[i], want[i], sym, pos)
				}
			}
		}
	}
}

func TestProbsValidatesShapes(t *testing.T) {
	t.Parallel()
	path, _ := exportTestModel(t)
	rt, err := Load(path)
	require.NoError(t, err)

	err = rt.Probs(make([]float32, vocab.Size), make([]float32, 5))
	assert.Error(t, err)
	err = rt.Probs(make([]float32, 5), make([]float32, vocab.InputDim))
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.wmf"))
	assert.Error(t, err)
}

func TestLoadRejectsCorruptArtifact(t *testing.T) {
	t.Parallel()
	path, _ := exportTestModel(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	copy(data[0:4], "XXXX")
	bad := filepath.Join(t.TempDir(), "bad.wmf")
	require.NoError(t, os.WriteFile(bad, data, 0o644))

	_, err = Load(bad)
	assert.ErrorIs(t, err, wmf.ErrInvalidMagic)
}

func TestLoadRejectsTruncatedWeights(t *testing.T) {
	t.Parallel()
	path, _ := exportTestModel(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "short.wmf")
	require.NoError(t, os.WriteFile(bad, data[:len(data)/2], 0o644))

	_, err = Load(bad)
	assert.Error(t, err)
}
