// Package dataset turns a newline-delimited word list into supervised
// next-character training pairs.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"adjgen/internal/vocab"
)

// ErrNoWords indicates the input file contained no usable words. Training on
// an empty dataset is refused up front rather than producing a degenerate
// model.
var ErrNoWords = errors.New("dataset: no usable words in input")

// Pair is one supervised training example: the feature vector for the current
// symbol and the index of the symbol that follows it.
type Pair struct {
	Features []float32
	Target   int
}

// Load reads a newline-delimited word list. Words are trimmed and lowercased;
// only purely alphabetic words of at most vocab.MaxWordLen letters are kept.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || len(w) > vocab.MaxWordLen || !isAlpha(w) {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWords, path)
	}
	return words, nil
}

// Build encodes every word and emits one pair per adjacent position in the
// encoded sequence: features are the one-hot of symbol i with the trailing
// position scalar i/SeqLen, the target is symbol i+1. Pairs never cross word
// boundaries. The full dataset is shuffled with the seeded rng so training
// order is decoupled from word order while staying reproducible.
func Build(v *vocab.Vocabulary, words []string, seed int64) []Pair {
	var pairs []Pair
	for _, w := range words {
		seq := v.Encode(strings.ToLower(w))
		for i := 0; i+1 < len(seq); i++ {
			feat := make([]float32, vocab.InputDim)
			v.Features(feat, seq[i], i)
			pairs = append(pairs, Pair{Features: feat, Target: seq[i+1]})
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	return pairs
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
