package wmf

import (
	"testing"
	"time"
)

func testModelInfo() *ModelInfo {
	return &ModelInfo{
		Name:       "adjective_model",
		BuildID:    "deadbeef-0000-4000-8000-000000000000",
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		VocabSize:  28,
		InputDim:   29,
		MaxWordLen: 9,
		SeqLen:     10,
		Width:      48,
		Depth:      2,
		Epochs:     120,
		BatchSize:  64,
		TrainWords: 1000,
		TrainPairs: 8400,
		TrainLoss:  1.8231,
		ValLoss:    1.901,
	}
}

func TestModelInfoRoundTrip(t *testing.T) {
	t.Parallel()
	mi := testModelInfo()
	data, err := EncodeModelInfo(mi)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := ParseModelInfo(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *got != *mi {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, mi)
	}
}

func TestEncodeModelInfoShapeContract(t *testing.T) {
	t.Parallel()
	mi := testModelInfo()
	mi.InputDim = 30 // must be VocabSize+1
	if _, err := EncodeModelInfo(mi); err == nil {
		t.Fatal("expected shape contract error")
	}
}

func TestParseModelInfoRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, err := ParseModelInfo([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseModelInfo([]byte(`{"version":9,"model":{}}`)); err == nil {
		t.Fatal("expected version error")
	}
}

func TestLayerIndexRoundTrip(t *testing.T) {
	t.Parallel()
	layers := []LayerEntry{
		{InDim: 29, OutDim: 48, Activation: ActReLU, WeightOff: 0, WeightSize: 29 * 48 * 4, BiasOff: 29 * 48 * 4, BiasSize: 48 * 4},
		{InDim: 48, OutDim: 28, Activation: ActSoftmax, WeightOff: 5760, WeightSize: 48 * 28 * 4, BiasOff: 5760 + 48*28*4, BiasSize: 28 * 4},
	}
	weightsSize := layers[1].BiasOff + layers[1].BiasSize

	data, err := EncodeLayerIndex(layers)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := ParseLayerIndex(data, weightsSize)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != len(layers) {
		t.Fatalf("layer count = %d, want %d", len(got), len(layers))
	}
	for i := range layers {
		if got[i] != layers[i] {
			t.Fatalf("layer %d mismatch:\n got %+v\nwant %+v", i, got[i], layers[i])
		}
	}
}

func TestParseLayerIndexBoundsCheck(t *testing.T) {
	t.Parallel()
	layers := []LayerEntry{
		{InDim: 4, OutDim: 2, Activation: ActSoftmax, WeightOff: 0, WeightSize: 32, BiasOff: 32, BiasSize: 8},
	}
	data, err := EncodeLayerIndex(layers)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Weights section one byte too small for the bias payload.
	if _, err := ParseLayerIndex(data, 39); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
