package vocab

import (
	"strings"
	"testing"
)

func TestEncodeStartEndInvariant(t *testing.T) {
	t.Parallel()
	v := New()
	words := []string{"a", "blue", "bright", "beautiful", "unstoppable", "x"}
	for _, w := range words {
		seq := v.Encode(w)
		if len(seq) < 2 {
			t.Fatalf("Encode(%q): sequence too short: %v", w, seq)
		}
		if seq[0] != StartIdx {
			t.Fatalf("Encode(%q): first index = %d, want start %d", w, seq[0], StartIdx)
		}
		if seq[len(seq)-1] != EndIdx {
			t.Fatalf("Encode(%q): last index = %d, want end %d", w, seq[len(seq)-1], EndIdx)
		}
	}
}

func TestEncodeLength(t *testing.T) {
	t.Parallel()
	v := New()
	tests := []struct {
		word string
		want int
	}{
		{"", 2},
		{"a", 3},
		{"blue", 6},
		{"wonderful", 11}, // exactly MaxWordLen letters
		{"unstoppable", 11},
		{strings.Repeat("z", 40), 11},
	}
	for _, tc := range tests {
		if got := len(v.Encode(tc.word)); got != tc.want {
			t.Fatalf("Encode(%q) length = %d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestEncodeTruncatesToMaxLetters(t *testing.T) {
	t.Parallel()
	v := New()
	seq := v.Encode("unstoppable") // 11 letters
	letters := v.Decode(seq)
	if len(letters) != MaxWordLen {
		t.Fatalf("truncated letter count = %d, want %d", len(letters), MaxWordLen)
	}
	if letters != "unstoppab" {
		t.Fatalf("truncated letters = %q, want %q", letters, "unstoppab")
	}
}

func TestIndexLetterRoundTrip(t *testing.T) {
	t.Parallel()
	v := New()
	for c := byte('a'); c <= 'z'; c++ {
		idx, ok := v.Index(c)
		if !ok {
			t.Fatalf("Index(%q) not found", c)
		}
		got, ok := v.Letter(idx)
		if !ok || got != c {
			t.Fatalf("Letter(Index(%q)) = %q, %v", c, got, ok)
		}
	}
	if _, ok := v.Index('A'); ok {
		t.Fatal("uppercase byte should not be in the vocabulary")
	}
	if _, ok := v.Index('-'); ok {
		t.Fatal("punctuation should not be in the vocabulary")
	}
}

func TestMarkersAreNotLetters(t *testing.T) {
	t.Parallel()
	v := New()
	if _, ok := v.Letter(StartIdx); ok {
		t.Fatal("start marker must not decode to a letter")
	}
	if _, ok := v.Letter(EndIdx); ok {
		t.Fatal("end marker must not decode to a letter")
	}
	if !v.IsStart(StartIdx) || !v.IsEnd(EndIdx) {
		t.Fatal("marker predicates disagree with indices")
	}
}

func TestFeatures(t *testing.T) {
	t.Parallel()
	v := New()
	dst := make([]float32, InputDim)
	idx, _ := v.Index('b')
	v.Features(dst, idx, 3)

	var ones int
	for i := 0; i < Size; i++ {
		if dst[i] == 1 {
			ones++
			if i != idx {
				t.Fatalf("one-hot set at %d, want %d", i, idx)
			}
		} else if dst[i] != 0 {
			t.Fatalf("non-binary one-hot entry at %d: %v", i, dst[i])
		}
	}
	if ones != 1 {
		t.Fatalf("one-hot count = %d, want 1", ones)
	}
	if want := float32(3) / float32(SeqLen); dst[InputDim-1] != want {
		t.Fatalf("position scalar = %v, want %v", dst[InputDim-1], want)
	}
}
