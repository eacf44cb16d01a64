// Package tensor provides the small float32 matrix kernels used by the
// inference runtime. Weights are row-major, one row per output neuron, which
// keeps the forward pass a sequence of cache-friendly dot products.
package tensor

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
)

// Mat is a dense row-major matrix of float32 values. R rows, C columns;
// Stride is the element distance between row starts (equal to C here).
// Indexing beyond bounds panics via the underlying slice.
type Mat struct {
	R, C   int
	Stride int
	Data   []float32
}

// NewMat allocates a zeroed matrix.
func NewMat(r, c int) Mat {
	if r < 0 || c < 0 {
		panic("tensor: negative dimension for matrix")
	}
	return Mat{R: r, C: c, Stride: c, Data: make([]float32, r*c)}
}

// NewMatFromData wraps existing data. The data length must equal r*c.
func NewMatFromData(r, c int, data []float32) Mat {
	if r*c != len(data) {
		panic("tensor: data length mismatch")
	}
	return Mat{R: r, C: c, Stride: c, Data: data}
}

// NewMatFromRaw decodes little-endian float32 bytes into a matrix. The raw
// slice must contain exactly r*c elements.
func NewMatFromRaw(r, c int, raw []byte) (Mat, error) {
	if r < 0 || c < 0 {
		return Mat{}, fmt.Errorf("tensor: negative dimension for matrix")
	}
	if len(raw) != r*c*4 {
		return Mat{}, fmt.Errorf("tensor: raw length %d does not match %dx%d f32", len(raw), r, c)
	}
	m := NewMat(r, c)
	for i := range m.Data {
		m.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return m, nil
}

// Row returns a view of the i-th row. Modifications write through.
func (m *Mat) Row(i int) []float32 {
	if i < 0 || i >= m.R {
		panic("tensor: row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.C]
}

// FillRand fills the matrix with reproducible pseudo-random values in a small
// range around zero. Identical seeds produce identical matrices.
func FillRand(m *Mat, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = (rng.Float32() - 0.5) * 0.02
	}
}
