// Package vocab defines the fixed character vocabulary shared by the dataset
// builder, the exporter, and the generator.
//
// The vocabulary is 28 ordered symbols: a start marker at index 0, the 26
// lowercase ASCII letters at indices 1..26, and an end marker at index 27.
// The ordering is part of the trained artifact's contract and must never
// change between training and inference.
package vocab

const (
	// MaxWordLen is the maximum number of letters in a word, not counting
	// the start/end markers. Longer words are truncated silently.
	MaxWordLen = 9

	// SeqLen is the model's fixed sequence length: MaxWordLen letter slots
	// plus the leading start marker. Position scalars are normalized by it.
	SeqLen = MaxWordLen + 1

	// Size is the number of symbols: 26 letters + start + end.
	Size = 28

	// InputDim is the model input width: a one-hot symbol plus one trailing
	// normalized-position scalar.
	InputDim = Size + 1

	StartIdx = 0
	EndIdx   = Size - 1
)

const (
	startSym = '^'
	endSym   = '$'
)

// Vocabulary is the immutable symbol<->index bijection. Construct it once at
// process start with New.
type Vocabulary struct {
	symbols [Size]byte
	index   [256]int8 // -1 for bytes outside the vocabulary
}

// New builds the fixed vocabulary.
func New() *Vocabulary {
	v := &Vocabulary{}
	for i := range v.index {
		v.index[i] = -1
	}
	v.symbols[StartIdx] = startSym
	v.symbols[EndIdx] = endSym
	v.index[startSym] = StartIdx
	v.index[endSym] = EndIdx
	for c := byte('a'); c <= 'z'; c++ {
		idx := int(c-'a') + 1
		v.symbols[idx] = c
		v.index[c] = int8(idx)
	}
	return v
}

// Encode maps a lowercase alphabetic word to its index sequence. The word is
// truncated to MaxWordLen letters first; the result always begins with the
// start index and ends with the end index, so len = min(len(word), MaxWordLen)+2.
// Truncation is silent by contract.
func (v *Vocabulary) Encode(word string) []int {
	if len(word) > MaxWordLen {
		word = word[:MaxWordLen]
	}
	seq := make([]int, 0, len(word)+2)
	seq = append(seq, StartIdx)
	for i := 0; i < len(word); i++ {
		idx, ok := v.Index(word[i])
		if !ok {
			continue
		}
		seq = append(seq, idx)
	}
	return append(seq, EndIdx)
}

// Decode returns the letters of an index sequence, dropping start/end markers
// and out-of-range indices.
func (v *Vocabulary) Decode(seq []int) string {
	out := make([]byte, 0, len(seq))
	for _, idx := range seq {
		if c, ok := v.Letter(idx); ok {
			out = append(out, c)
		}
	}
	return string(out)
}

// Letter returns the letter for an index, or false for the start/end markers
// and out-of-range indices.
func (v *Vocabulary) Letter(idx int) (byte, bool) {
	if idx <= StartIdx || idx >= EndIdx {
		return 0, false
	}
	return v.symbols[idx], true
}

// Symbol returns the display symbol for any valid index, including markers.
func (v *Vocabulary) Symbol(idx int) (byte, bool) {
	if idx < 0 || idx >= Size {
		return 0, false
	}
	return v.symbols[idx], true
}

// Index returns the vocabulary index for a byte, or false if the byte is not
// part of the vocabulary.
func (v *Vocabulary) Index(c byte) (int, bool) {
	idx := v.index[c]
	if idx < 0 {
		return 0, false
	}
	return int(idx), true
}

func (v *Vocabulary) IsStart(idx int) bool { return idx == StartIdx }
func (v *Vocabulary) IsEnd(idx int) bool   { return idx == EndIdx }

// Features writes the model input for observing symbol idx at position pos:
// a one-hot over the vocabulary with the final element holding pos/SeqLen.
// dst must have length InputDim. The same layout is used for training pairs
// and for generation, and is part of the artifact contract.
func (v *Vocabulary) Features(dst []float32, idx, pos int) {
	if len(dst) != InputDim {
		panic("vocab: feature buffer must have length InputDim")
	}
	for i := range dst {
		dst[i] = 0
	}
	if idx >= 0 && idx < Size {
		dst[idx] = 1
	}
	dst[InputDim-1] = float32(pos) / float32(SeqLen)
}
