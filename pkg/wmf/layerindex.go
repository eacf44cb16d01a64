package wmf

import (
	"encoding/binary"
	"fmt"
)

// Activation identifies the fused activation applied after a dense layer.
type Activation uint32

const (
	ActNone Activation = iota
	ActReLU
	// ActSoftmax marks the output layer. The stored weights produce logits;
	// consumers apply a numerically stable softmax themselves.
	ActSoftmax
)

func (a Activation) String() string {
	switch a {
	case ActNone:
		return "none"
	case ActReLU:
		return "relu"
	case ActSoftmax:
		return "softmax"
	default:
		return fmt.Sprintf("activation(%d)", uint32(a))
	}
}

// LayerEntry describes one dense layer inside the Weights section. Offsets
// and sizes are in bytes, relative to the start of SectionWeights. Weights
// are row-major float32 [OutDim x InDim]; bias is float32 [OutDim].
type LayerEntry struct {
	InDim      uint32
	OutDim     uint32
	Activation Activation
	WeightOff  uint64
	WeightSize uint64
	BiasOff    uint64
	BiasSize   uint64
}

const layerEntrySize = 4 + 4 + 4 + 4 + 8*4 // trailing u32 pad keeps 8-byte stride

// EncodeLayerIndex serialises the layer table into a SectionLayerIndex payload.
func EncodeLayerIndex(layers []LayerEntry) ([]byte, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("wmf: empty layer index")
	}
	out := make([]byte, 8+len(layers)*layerEntrySize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(layers)))
	// out[4:8] reserved, zero
	for i, l := range layers {
		if l.InDim == 0 || l.OutDim == 0 {
			return nil, fmt.Errorf("wmf: layer %d has zero dimension", i)
		}
		if l.WeightSize != uint64(l.InDim)*uint64(l.OutDim)*4 {
			return nil, fmt.Errorf("wmf: layer %d weight size %d does not match %dx%d f32", i, l.WeightSize, l.OutDim, l.InDim)
		}
		if l.BiasSize != uint64(l.OutDim)*4 {
			return nil, fmt.Errorf("wmf: layer %d bias size %d does not match %d f32", i, l.BiasSize, l.OutDim)
		}
		b := out[8+i*layerEntrySize:]
		binary.LittleEndian.PutUint32(b[0:4], l.InDim)
		binary.LittleEndian.PutUint32(b[4:8], l.OutDim)
		binary.LittleEndian.PutUint32(b[8:12], uint32(l.Activation))
		// b[12:16] padding
		binary.LittleEndian.PutUint64(b[16:24], l.WeightOff)
		binary.LittleEndian.PutUint64(b[24:32], l.WeightSize)
		binary.LittleEndian.PutUint64(b[32:40], l.BiasOff)
		binary.LittleEndian.PutUint64(b[40:48], l.BiasSize)
	}
	return out, nil
}

// ParseLayerIndex decodes a SectionLayerIndex payload and bounds-checks every
// entry against the given Weights section size.
func ParseLayerIndex(data []byte, weightsSize uint64) ([]LayerEntry, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: layer index too small", ErrCorruptFile)
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	if count == 0 {
		return nil, fmt.Errorf("%w: empty layer index", ErrCorruptFile)
	}
	want := 8 + int(count)*layerEntrySize
	if len(data) < want {
		return nil, fmt.Errorf("%w: layer index truncated", ErrCorruptFile)
	}

	layers := make([]LayerEntry, count)
	for i := range layers {
		b := data[8+i*layerEntrySize:]
		l := LayerEntry{
			InDim:      binary.LittleEndian.Uint32(b[0:4]),
			OutDim:     binary.LittleEndian.Uint32(b[4:8]),
			Activation: Activation(binary.LittleEndian.Uint32(b[8:12])),
			WeightOff:  binary.LittleEndian.Uint64(b[16:24]),
			WeightSize: binary.LittleEndian.Uint64(b[24:32]),
			BiasOff:    binary.LittleEndian.Uint64(b[32:40]),
			BiasSize:   binary.LittleEndian.Uint64(b[40:48]),
		}
		if l.InDim == 0 || l.OutDim == 0 {
			return nil, fmt.Errorf("%w: layer %d has zero dimension", ErrCorruptFile, i)
		}
		if l.WeightSize != uint64(l.InDim)*uint64(l.OutDim)*4 {
			return nil, fmt.Errorf("%w: layer %d weight size mismatch", ErrCorruptFile, i)
		}
		if l.BiasSize != uint64(l.OutDim)*4 {
			return nil, fmt.Errorf("%w: layer %d bias size mismatch", ErrCorruptFile, i)
		}
		if end := l.WeightOff + l.WeightSize; end < l.WeightOff || end > weightsSize {
			return nil, fmt.Errorf("%w: layer %d weights out of bounds", ErrCorruptFile, i)
		}
		if end := l.BiasOff + l.BiasSize; end < l.BiasOff || end > weightsSize {
			return nil, fmt.Errorf("%w: layer %d bias out of bounds", ErrCorruptFile, i)
		}
		layers[i] = l
	}
	return layers, nil
}
