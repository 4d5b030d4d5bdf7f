// Package array reads and writes the flat numeric-array members an
// archive is made of. Every member starts with a fixed header (magic,
// element-type tag, element count) followed by a little-endian payload,
// so each member is self-describing.
package array

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/George-Ogden/pypianoroll/model"
)

// Magic opens every array member.
var Magic = [4]byte{'P', 'R', 'A', '1'}

const headerSize = 4 + 1 + 8

func writeHeader(w io.Writer, dt model.DType, count int) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(dt)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint64(count))
}

func readHeader(r io.Reader) (model.DType, int, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, fmt.Errorf("truncated header: %v", err)
	}
	if [4]byte(buf[:4]) != Magic {
		return 0, 0, fmt.Errorf("bad magic % X", buf[:4])
	}
	dt := model.DType(buf[4])
	count := binary.LittleEndian.Uint64(buf[5:])
	if count > math.MaxInt32 {
		return 0, 0, fmt.Errorf("implausible element count %d", count)
	}
	return dt, int(count), nil
}

// WriteValues packs int32 values at the width of the given dtype. The
// caller is responsible for having range-checked the values first.
func WriteValues(w io.Writer, dt model.DType, vals []int32) error {
	if err := writeHeader(w, dt, len(vals)); err != nil {
		return err
	}
	switch dt {
	case model.DTypeBool, model.DTypeUint8:
		buf := make([]byte, len(vals))
		for i, v := range vals {
			buf[i] = byte(v)
		}
		_, err := w.Write(buf)
		return err
	case model.DTypeInt16:
		buf := make([]byte, 2*len(vals))
		for i, v := range vals {
			binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(v)))
		}
		_, err := w.Write(buf)
		return err
	case model.DTypeInt32:
		buf := make([]byte, 4*len(vals))
		for i, v := range vals {
			binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
		}
		_, err := w.Write(buf)
		return err
	}
	return fmt.Errorf("cannot write %v values", dt)
}

// ReadValues is the inverse of WriteValues. The member's own tag must
// match the expected dtype.
func ReadValues(r io.Reader, want model.DType) ([]int32, error) {
	dt, count, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if dt != want {
		return nil, fmt.Errorf("element type %v, want %v", dt, want)
	}
	buf, err := readPayload(r, count*dt.Size())
	if err != nil {
		return nil, err
	}
	vals := make([]int32, count)
	switch dt {
	case model.DTypeBool, model.DTypeUint8:
		for i := range vals {
			vals[i] = int32(buf[i])
		}
	case model.DTypeInt16:
		for i := range vals {
			vals[i] = int32(int16(binary.LittleEndian.Uint16(buf[2*i:])))
		}
	case model.DTypeInt32:
		for i := range vals {
			vals[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
		}
	default:
		return nil, fmt.Errorf("cannot read %v values", dt)
	}
	return vals, nil
}

// WriteFloat64 packs a tempo-style real-valued sequence.
func WriteFloat64(w io.Writer, vals []float64) error {
	if err := writeHeader(w, model.DTypeFloat64, len(vals)); err != nil {
		return err
	}
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func ReadFloat64(r io.Reader) ([]float64, error) {
	dt, count, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if dt != model.DTypeFloat64 {
		return nil, fmt.Errorf("element type %v, want %v", dt, model.DTypeFloat64)
	}
	buf, err := readPayload(r, count*8)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, count)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return vals, nil
}

// WriteBool packs a downbeat-style boolean sequence.
func WriteBool(w io.Writer, vals []bool) error {
	if err := writeHeader(w, model.DTypeBool, len(vals)); err != nil {
		return err
	}
	buf := make([]byte, len(vals))
	for i, v := range vals {
		if v {
			buf[i] = 1
		}
	}
	_, err := w.Write(buf)
	return err
}

func ReadBool(r io.Reader) ([]bool, error) {
	dt, count, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if dt != model.DTypeBool {
		return nil, fmt.Errorf("element type %v, want %v", dt, model.DTypeBool)
	}
	buf, err := readPayload(r, count)
	if err != nil {
		return nil, err
	}
	vals := make([]bool, count)
	for i, b := range buf {
		vals[i] = b != 0
	}
	return vals, nil
}

func readPayload(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("truncated payload: %v", err)
	}
	// a well-formed member ends exactly at the payload
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("trailing bytes after payload")
	}
	return buf, nil
}
