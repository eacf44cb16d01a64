package tensor

import "math"

// MatVecBias computes dst = m*x + bias, optionally applying a fused ReLU.
// dst must have length m.R, x length m.C, bias length m.R (bias may be nil).
// The inner product is unrolled four wide, matching the embedded consumer's
// fully-connected kernel so both produce comparable results.
func MatVecBias(dst []float32, m *Mat, x, bias []float32, relu bool) {
	if len(dst) != m.R {
		panic("tensor: dst length mismatch")
	}
	if len(x) != m.C {
		panic("tensor: input length mismatch")
	}
	if bias != nil && len(bias) != m.R {
		panic("tensor: bias length mismatch")
	}
	for i := 0; i < m.R; i++ {
		row := m.Row(i)
		var acc float32
		if bias != nil {
			acc = bias[i]
		}
		j := 0
		for ; j+3 < len(row); j += 4 {
			acc += x[j]*row[j] + x[j+1]*row[j+1] + x[j+2]*row[j+2] + x[j+3]*row[j+3]
		}
		for ; j < len(row); j++ {
			acc += x[j] * row[j]
		}
		if relu && acc < 0 {
			acc = 0
		}
		dst[i] = acc
	}
}

// Softmax writes the numerically stable softmax of src into dst in place of
// its previous contents. dst and src may alias. An all-equal input yields the
// uniform distribution; the output always sums to 1 for finite input.
func Softmax(dst, src []float32) {
	if len(dst) != len(src) {
		panic("tensor: softmax length mismatch")
	}
	if len(src) == 0 {
		return
	}
	maxVal := src[0]
	for _, v := range src[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float32
	for i, v := range src {
		e := exp32(v - maxVal)
		dst[i] = e
		sum += e
	}
	if sum > 0 {
		inv := 1 / sum
		for i := range dst {
			dst[i] *= inv
		}
	}
}

func exp32(x float32) float32 {
	return float32(math.Exp(float64(x)))
}
