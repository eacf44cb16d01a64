// Package wmf implements the Word Model Format.
//
// WMF is a single-file, memory-mappable container for the trained adjective
// model. It carries structure and data only: a fixed little-endian header, a
// set of 8-byte aligned sections, and a trailing section directory. Consumers
// decide runtime behaviour; the file never implies it.
package wmf

// Format constants. These must never change within a major version.
const (
	// MagicWMF is the file magic for all WMF containers, encoded as "WMF\0".
	MagicWMF = "WMF\x00"

	// CurrentMajor changes only on breaking format changes.
	CurrentMajor uint16 = 1

	// CurrentMinor may add new optional sections or fields.
	CurrentMinor uint16 = 0

	// FlagWeightsAligned64 marks files whose weight payloads are 64-byte
	// aligned, allowing aligned vector loads on embedded targets.
	FlagWeightsAligned64 uint64 = 1 << 0
)

type SectionType uint32

const (
	SectionModelInfo  SectionType = 0x0001
	SectionLayerIndex SectionType = 0x0002
	SectionWeights    SectionType = 0x0003
)

func (t SectionType) String() string {
	switch t {
	case SectionModelInfo:
		return "model_info"
	case SectionLayerIndex:
		return "layer_index"
	case SectionWeights:
		return "weights"
	default:
		return "unknown"
	}
}

type Header struct {
	Magic            [4]byte
	Major            uint16
	Minor            uint16
	HeaderSize       uint32
	SectionCount     uint32
	SectionDirOffset uint64
	FileSize         uint64
	Flags            uint64
}

type Section struct {
	Type    uint32
	Version uint32
	Offset  uint64
	Size    uint64
}

func (h *Header) Valid() bool {
	if string(h.Magic[:]) != MagicWMF {
		return false
	}
	if h.HeaderSize < wmfHeaderSize {
		return false
	}
	if h.SectionCount == 0 {
		return false
	}
	return true
}

func (h *Header) Compatible() bool {
	return h.Major == CurrentMajor
}

// End returns the first byte past the section payload.
func (s *Section) End() uint64 {
	return s.Offset + s.Size
}
