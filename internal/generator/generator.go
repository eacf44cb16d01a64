// Package generator produces words by sampling the trained model one
// character at a time.
package generator

import (
	"fmt"
	"math"
	"math/rand"

	"adjgen/internal/vocab"
)

// logFloor keeps log() finite on zero probabilities during temperature
// reweighting. Must match the embedded consumer.
const logFloor = 1e-10

// Scorer is the trained model's exposed operation: a stateless forward pass
// mapping a fixed-shape feature vector to a probability distribution over
// the vocabulary.
type Scorer interface {
	Probs(dst, in []float32) error
	InputDim() int
	OutputDim() int
}

// Config controls sampling behaviour.
type Config struct {
	// Temperature reweights the model's distribution before sampling:
	// below 1 sharpens, above 1 flattens, 1 leaves it untouched. Must be
	// positive.
	Temperature float64
	Seed        int64
}

// Generator runs the autoregressive sampling loop. Not safe for concurrent
// use; create one per goroutine.
type Generator struct {
	v      *vocab.Vocabulary
	scorer Scorer
	rng    *rand.Rand
	temp   float64

	feat  []float32
	probs []float32
}

// New validates the scorer's shape against the vocabulary and returns a
// ready generator.
func New(v *vocab.Vocabulary, scorer Scorer, cfg Config) (*Generator, error) {
	if cfg.Temperature <= 0 {
		return nil, fmt.Errorf("generator: temperature must be positive, got %v", cfg.Temperature)
	}
	if got := scorer.InputDim(); got != vocab.InputDim {
		return nil, fmt.Errorf("generator: scorer input dim %d, want %d", got, vocab.InputDim)
	}
	if got := scorer.OutputDim(); got != vocab.Size {
		return nil, fmt.Errorf("generator: scorer output dim %d, want %d", got, vocab.Size)
	}
	return &Generator{
		v:      v,
		scorer: scorer,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		temp:   cfg.Temperature,
		feat:   make([]float32, vocab.InputDim),
		probs:  make([]float32, vocab.Size),
	}, nil
}

// Generate samples one word. The loop starts from the start symbol and runs
// at most vocab.MaxWordLen iterations, so termination is guaranteed even if
// the end symbol is never drawn. Sampling the start symbol mid-word skips the
// iteration without emitting a letter; the iteration still counts against the
// length bound, matching the original pipeline.
func (g *Generator) Generate() (string, error) {
	cur := vocab.StartIdx
	word := make([]byte, 0, vocab.MaxWordLen)

	for pos := 0; pos < vocab.MaxWordLen; pos++ {
		g.v.Features(g.feat, cur, pos)
		if err := g.scorer.Probs(g.probs, g.feat); err != nil {
			return "", fmt.Errorf("generator: score: %w", err)
		}
		if g.temp != 1.0 {
			reweight(g.probs, g.temp)
		}

		cur = g.sample(g.probs)
		if g.v.IsEnd(cur) {
			break
		}
		if g.v.IsStart(cur) {
			continue
		}
		if c, ok := g.v.Letter(cur); ok {
			word = append(word, c)
		}
	}
	return string(word), nil
}

// reweight applies temperature scaling in place: p_i' ∝ exp(log(p_i+eps)/T).
// Relative ranking is preserved for any positive temperature, and the result
// is renormalised to sum to 1.
func reweight(p []float32, temp float64) {
	maxLogP := math.Inf(-1)
	logs := make([]float64, len(p))
	for i, v := range p {
		lp := math.Log(float64(v)+logFloor) / temp
		logs[i] = lp
		if lp > maxLogP {
			maxLogP = lp
		}
	}
	var sum float64
	for i, lp := range logs {
		e := math.Exp(lp - maxLogP)
		logs[i] = e
		sum += e
	}
	for i, e := range logs {
		p[i] = float32(e / sum)
	}
}

// sample draws an index from the distribution. A distribution with no
// positive mass is a logic error in the scorer, not a recoverable condition.
func (g *Generator) sample(p []float32) int {
	var total float64
	for _, v := range p {
		total += float64(v)
	}
	if total <= 0 {
		panic("generator: scorer returned a distribution with no positive mass")
	}

	r := g.rng.Float64() * total
	var c float64
	for i, v := range p {
		c += float64(v)
		if r <= c {
			return i
		}
	}
	return len(p) - 1
}
