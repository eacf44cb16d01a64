package wmf

import "errors"

var (
	ErrInvalidMagic     = errors.New("invalid WMF magic")
	ErrUnsupportedMajor = errors.New("unsupported WMF major version")
	ErrCorruptFile      = errors.New("corrupt WMF file")
)
