package wmf

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const modelInfoVersionV1 uint32 = 1

// ModelInfo is the SectionModelInfo payload: provenance and shape metadata
// for the trained model. It is stored as JSON so embedded consumers can skip
// it entirely and tooling can read it without the weight decoder.
type ModelInfo struct {
	Name      string    `json:"name"`
	BuildID   string    `json:"build_id"`
	CreatedAt time.Time `json:"created_at"`

	// Shape contract. InputDim = VocabSize + 1 (trailing position scalar);
	// the output distribution is over VocabSize symbols.
	VocabSize  uint32 `json:"vocab_size"`
	InputDim   uint32 `json:"input_dim"`
	MaxWordLen uint32 `json:"max_word_len"`
	SeqLen     uint32 `json:"seq_len"`

	// Training provenance.
	Width      uint32 `json:"width"`
	Depth      uint32 `json:"depth"`
	Epochs     uint32 `json:"epochs"`
	BatchSize  uint32 `json:"batch_size"`
	TrainWords uint32 `json:"train_words"`
	TrainPairs uint32 `json:"train_pairs"`

	TrainLoss float64 `json:"train_loss,omitempty"`
	ValLoss   float64 `json:"val_loss,omitempty"`
}

type modelInfoEnvelope struct {
	Version uint32    `json:"version"`
	Model   ModelInfo `json:"model"`
}

// EncodeModelInfo serialises mi into a SectionModelInfo payload.
func EncodeModelInfo(mi *ModelInfo) ([]byte, error) {
	if mi == nil {
		return nil, errors.New("wmf: nil ModelInfo")
	}
	if mi.InputDim != mi.VocabSize+1 {
		return nil, fmt.Errorf("wmf: input dim %d does not match vocab size %d + 1", mi.InputDim, mi.VocabSize)
	}
	return json.Marshal(modelInfoEnvelope{
		Version: modelInfoVersionV1,
		Model:   *mi,
	})
}

// ParseModelInfo decodes a SectionModelInfo payload.
func ParseModelInfo(data []byte) (*ModelInfo, error) {
	var env modelInfoEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wmf: modelinfo: %w", err)
	}
	if env.Version != modelInfoVersionV1 {
		return nil, fmt.Errorf("wmf: modelinfo: unsupported version %d", env.Version)
	}
	mi := env.Model
	if mi.VocabSize == 0 || mi.InputDim != mi.VocabSize+1 {
		return nil, fmt.Errorf("%w: modelinfo shape contract violated", ErrCorruptFile)
	}
	return &mi, nil
}
