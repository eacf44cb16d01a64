package wmf

import (
	"errors"
	"io"
	"os"
	"sort"
)

const writerPadBufSize = 4096

// Writer builds a WMF file section by section.
//
// Space for the header is reserved up front and patched during Finalise.
// Sections may be written in any order; each section type at most once.
type Writer struct {
	f        *os.File
	sections []Section
	seen     map[SectionType]struct{}
	closed   bool

	flags  uint64
	padBuf []byte
}

// NewWriter creates a WMF writer targeting the given file. The file is
// truncated and header space is reserved.
func NewWriter(f *os.File) (*Writer, error) {
	if f == nil {
		return nil, errors.New("wmf: nil file")
	}

	// Always produce a file whose on-disk size matches header.FileSize.
	if err := f.Truncate(0); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	w := &Writer{
		f:      f,
		seen:   make(map[SectionType]struct{}),
		padBuf: make([]byte, writerPadBufSize),
	}

	if err := w.writeZeros(wmfHeaderSize); err != nil {
		return nil, err
	}
	// Keep the first section aligned for consumers that cast payloads.
	if err := w.alignTo(wmfAlign); err != nil {
		return nil, err
	}
	return w, nil
}

// AddFlags sets format-level flag bits recorded in the header.
func (w *Writer) AddFlags(flags uint64) error {
	if w.closed {
		return errors.New("wmf: writer already finalised")
	}
	w.flags |= flags
	return nil
}

// WriteSection writes a section payload and records it in the section table.
func (w *Writer) WriteSection(typ SectionType, version uint32, data []byte) error {
	if w.closed {
		return errors.New("wmf: writer already finalised")
	}
	if _, ok := w.seen[typ]; ok {
		return errors.New("wmf: duplicate section type")
	}

	if err := w.alignTo(wmfAlign); err != nil {
		return err
	}
	offset, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		if err := writeFull(w.f, data); err != nil {
			return err
		}
	}

	w.sections = append(w.sections, Section{
		Type:    uint32(typ),
		Version: version,
		Offset:  uint64(offset),
		Size:    uint64(len(data)),
	})
	w.seen[typ] = struct{}{}
	return nil
}

// Finalise writes the section directory and patches the header.
// The writer must not be used afterwards.
func (w *Writer) Finalise() error {
	if w.closed {
		return errors.New("wmf: writer already finalised")
	}
	w.closed = true

	// Deterministic directory ordering.
	sort.Slice(w.sections, func(i, j int) bool {
		return w.sections[i].Type < w.sections[j].Type
	})

	if err := w.alignTo(wmfAlign); err != nil {
		return err
	}
	sectionDirOffset, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	var secBuf [wmfSectionSize]byte
	for i := range w.sections {
		if !encodeSection(secBuf[:], w.sections[i]) {
			return errors.New("wmf: encode section failed")
		}
		if err := writeFull(w.f, secBuf[:]); err != nil {
			return err
		}
	}

	fileSize, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := w.f.Truncate(fileSize); err != nil {
		return err
	}

	var header Header
	copy(header.Magic[:], MagicWMF)
	header.Major = CurrentMajor
	header.Minor = CurrentMinor
	header.HeaderSize = wmfHeaderSize
	header.SectionCount = uint32(len(w.sections))
	header.SectionDirOffset = uint64(sectionDirOffset)
	header.FileSize = uint64(fileSize)
	header.Flags = w.flags

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	var hdrBuf [wmfHeaderSize]byte
	if !encodeHeader(hdrBuf[:], header) {
		return errors.New("wmf: encode header failed")
	}
	if err := writeFull(w.f, hdrBuf[:]); err != nil {
		return err
	}
	return w.f.Sync()
}

func (w *Writer) alignTo(n int64) error {
	if n <= 1 {
		return nil
	}
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	mod := pos % n
	if mod == 0 {
		return nil
	}
	return w.writeZeros(int(n - mod))
}

func (w *Writer) writeZeros(n int) error {
	for n > 0 {
		toWrite := min(n, len(w.padBuf))
		if err := writeFull(w.f, w.padBuf[:toWrite]); err != nil {
			return err
		}
		n -= toWrite
	}
	return nil
}

func writeFull(f *os.File, p []byte) error {
	for len(p) > 0 {
		n, err := f.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
