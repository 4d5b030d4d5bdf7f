package model

import "fmt"

// DType tags the element type a piano roll (or flat array member) is
// stored with on disk.
type DType uint8

const (
	DTypeBool DType = iota
	DTypeUint8
	DTypeInt16

	// used by auxiliary members only, never by piano rolls
	DTypeInt32
	DTypeFloat64
)

var dtypeNames = map[DType]string{
	DTypeBool:    "bool",
	DTypeUint8:   "uint8",
	DTypeInt16:   "int16",
	DTypeInt32:   "int32",
	DTypeFloat64: "float64",
}

func (d DType) String() string {
	if name, ok := dtypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// ParseDType maps a name from the info document back to its tag.
func ParseDType(name string) (DType, bool) {
	for d, n := range dtypeNames {
		if n == name {
			return d, true
		}
	}
	return 0, false
}

// Size returns the number of bytes one element occupies on disk.
func (d DType) Size() int {
	switch d {
	case DTypeBool, DTypeUint8:
		return 1
	case DTypeInt16:
		return 2
	case DTypeInt32:
		return 4
	case DTypeFloat64:
		return 8
	}
	return 0
}

// Bounds returns the inclusive range of values the dtype can hold when
// used for piano-roll data.
func (d DType) Bounds() (min, max int32) {
	switch d {
	case DTypeBool:
		return 0, 1
	case DTypeUint8:
		return 0, 255
	case DTypeInt16:
		return -32768, 32767
	case DTypeInt32:
		return -2147483648, 2147483647
	}
	return 0, 0
}

// PianorollDType reports whether the tag is one a track matrix may be
// declared with.
func PianorollDType(d DType) bool {
	return d == DTypeBool || d == DTypeUint8 || d == DTypeInt16
}
