package tensor

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestMatVecBiasMatchesNaive(t *testing.T) {
	t.Parallel()
	m := NewMat(5, 7)
	FillRand(&m, 11)
	x := make([]float32, 7)
	bias := make([]float32, 5)
	for i := range x {
		x[i] = float32(i) * 0.3
	}
	for i := range bias {
		bias[i] = float32(i) - 2
	}

	got := make([]float32, 5)
	MatVecBias(got, &m, x, bias, false)

	for i := 0; i < m.R; i++ {
		want := bias[i]
		for j := 0; j < m.C; j++ {
			want += x[j] * m.Row(i)[j]
		}
		if math.Abs(float64(got[i]-want)) > 1e-5 {
			t.Fatalf("row %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestMatVecBiasReLU(t *testing.T) {
	t.Parallel()
	m := NewMatFromData(2, 1, []float32{1, -1})
	dst := make([]float32, 2)
	MatVecBias(dst, &m, []float32{3}, nil, true)
	if dst[0] != 3 || dst[1] != 0 {
		t.Fatalf("relu output = %v, want [3 0]", dst)
	}
}

func TestNewMatFromRaw(t *testing.T) {
	t.Parallel()
	vals := []float32{0.5, -1.25, 3, 0}
	raw := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	m, err := NewMatFromRaw(2, 2, raw)
	if err != nil {
		t.Fatalf("NewMatFromRaw: %v", err)
	}
	for i, v := range vals {
		if m.Data[i] != v {
			t.Fatalf("element %d = %v, want %v", i, m.Data[i], v)
		}
	}

	if _, err := NewMatFromRaw(2, 2, raw[:12]); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSoftmax(t *testing.T) {
	t.Parallel()
	src := []float32{1, 2, 3, 4}
	dst := make([]float32, 4)
	Softmax(dst, src)

	var sum float32
	for i, v := range dst {
		if v <= 0 || v >= 1 {
			t.Fatalf("probability %d = %v out of (0,1)", i, v)
		}
		if i > 0 && dst[i] <= dst[i-1] {
			t.Fatal("softmax must preserve ordering")
		}
		sum += v
	}
	if math.Abs(float64(sum-1)) > 1e-6 {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}

	// Large values must not overflow.
	Softmax(dst, []float32{1000, 1000, 1000, 1000})
	for _, v := range dst {
		if math.Abs(float64(v-0.25)) > 1e-6 {
			t.Fatalf("uniform softmax = %v", dst)
		}
	}
}
