package mlp

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"adjgen/pkg/wmf"
)

const weightAlign = 64

// Export serialises the trained network to a WMF container at path. The
// shape fields of info are filled in from the network; provenance fields
// (name, build ID, timestamps, training stats) are the caller's.
func Export(n *Net, path string, info *wmf.ModelInfo) error {
	if info == nil {
		return fmt.Errorf("mlp: export requires model info")
	}
	layers := n.Layers()
	if len(layers) == 0 {
		return fmt.Errorf("mlp: network has no layers")
	}

	info.VocabSize = uint32(n.cfg.OutputDim)
	info.InputDim = uint32(n.cfg.InputDim)
	info.Width = uint32(n.cfg.Width)
	info.Depth = uint32(n.cfg.Depth)

	entries := make([]wmf.LayerEntry, len(layers))
	var blob []byte
	alignTo := func(n int) {
		for len(blob)%n != 0 {
			blob = append(blob, 0)
		}
	}
	appendF32 := func(vals []float32) (off, size uint64) {
		alignTo(weightAlign)
		off = uint64(len(blob))
		for _, v := range vals {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			blob = append(blob, b[:]...)
		}
		return off, uint64(len(vals) * 4)
	}

	for i, l := range layers {
		wOff, wSize := appendF32(l.W)
		bOff, bSize := appendF32(l.B)
		entries[i] = wmf.LayerEntry{
			InDim:      uint32(l.InDim),
			OutDim:     uint32(l.OutDim),
			Activation: l.Activation,
			WeightOff:  wOff,
			WeightSize: wSize,
			BiasOff:    bOff,
			BiasSize:   bSize,
		}
	}

	infoData, err := wmf.EncodeModelInfo(info)
	if err != nil {
		return fmt.Errorf("mlp: encode model info: %w", err)
	}
	indexData, err := wmf.EncodeLayerIndex(entries)
	if err != nil {
		return fmt.Errorf("mlp: encode layer index: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mlp: create artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	w, err := wmf.NewWriter(f)
	if err != nil {
		return fmt.Errorf("mlp: new writer: %w", err)
	}
	if err := w.AddFlags(wmf.FlagWeightsAligned64); err != nil {
		return err
	}
	if err := w.WriteSection(wmf.SectionModelInfo, 1, infoData); err != nil {
		return fmt.Errorf("mlp: write model info: %w", err)
	}
	if err := w.WriteSection(wmf.SectionLayerIndex, 1, indexData); err != nil {
		return fmt.Errorf("mlp: write layer index: %w", err)
	}
	if err := w.WriteSection(wmf.SectionWeights, 1, blob); err != nil {
		return fmt.Errorf("mlp: write weights: %w", err)
	}
	if err := w.Finalise(); err != nil {
		return fmt.Errorf("mlp: finalise artifact: %w", err)
	}
	return f.Close()
}
