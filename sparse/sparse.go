// Package sparse converts dense piano-roll matrices to and from
// compressed-sparse-column form. Piano rolls are pitch-sparse per time
// slice and consumers slice by the fixed 128-wide pitch axis, so columns
// are the compression unit.
package sparse

import (
	"fmt"
	"math"

	"github.com/George-Ogden/pypianoroll/model"
)

// Encode produces the CSC triple for one matrix. Every value must fit
// the declared dtype; track is only used to label the error.
func Encode(p model.Pianoroll, dt model.DType, track int) (model.CSCMatrix, error) {
	var blank model.CSCMatrix
	if !model.PianorollDType(dt) {
		return blank, fmt.Errorf("%v is not a piano-roll dtype", dt)
	}
	if len(p.Data) != p.Rows*p.Cols {
		return blank, fmt.Errorf("matrix data length %d does not match shape (%d, %d)",
			len(p.Data), p.Rows, p.Cols)
	}

	min, max := dt.Bounds()
	csc := model.CSCMatrix{
		Indptr: make([]int32, p.Cols+1),
		Rows:   p.Rows,
		Cols:   p.Cols,
		DType:  dt,
	}
	for col := 0; col < p.Cols; col++ {
		for row := 0; row < p.Rows; row++ {
			v := p.At(row, col)
			if v == 0 {
				continue
			}
			if v < min || v > max {
				return blank, &model.DataRangeError{Track: track, Value: v, DType: dt}
			}
			csc.Data = append(csc.Data, v)
			csc.Indices = append(csc.Indices, int32(row))
		}
		csc.Indptr[col+1] = int32(len(csc.Data))
	}
	return csc, nil
}

// Decode materializes the dense matrix a triple describes, refusing any
// internally inconsistent input.
func Decode(csc model.CSCMatrix) (model.Pianoroll, error) {
	var blank model.Pianoroll
	if err := validate(csc); err != nil {
		return blank, err
	}

	p := model.Pianoroll{
		Rows: csc.Rows,
		Cols: csc.Cols,
		Data: make([]int32, csc.Rows*csc.Cols),
	}
	for col := 0; col < csc.Cols; col++ {
		for k := csc.Indptr[col]; k < csc.Indptr[col+1]; k++ {
			p.Set(int(csc.Indices[k]), col, csc.Data[k])
		}
	}
	return p, nil
}

func validate(csc model.CSCMatrix) error {
	if csc.Rows < 0 || csc.Cols < 0 {
		return corrupt(RoleShape, "negative shape (%d, %d)", csc.Rows, csc.Cols)
	}
	// the array members cap element counts at int32, so a shape whose
	// dense form exceeds that can never come from a genuine archive and
	// must not reach the allocator
	if csc.Cols > 0 && csc.Rows > math.MaxInt32/csc.Cols {
		return corrupt(RoleShape, "shape (%d, %d) describes more than %d cells",
			csc.Rows, csc.Cols, math.MaxInt32)
	}
	if len(csc.Indptr) != csc.Cols+1 {
		return corrupt(RoleIndptr, "indptr has %d entries, want %d", len(csc.Indptr), csc.Cols+1)
	}
	if csc.Indptr[0] != 0 {
		return corrupt(RoleIndptr, "indptr starts at %d, want 0", csc.Indptr[0])
	}
	for col := 0; col < csc.Cols; col++ {
		if csc.Indptr[col+1] < csc.Indptr[col] {
			return corrupt(RoleIndptr, "indptr decreases at column %d", col)
		}
	}
	nnz := int(csc.Indptr[csc.Cols])
	if len(csc.Data) != nnz || len(csc.Indices) != nnz {
		return corrupt(RoleData, "indptr promises %d entries but data has %d and indices has %d",
			nnz, len(csc.Data), len(csc.Indices))
	}
	for k, row := range csc.Indices {
		if row < 0 || int(row) >= csc.Rows {
			return corrupt(RoleIndices, "indices[%d] = %d outside [0, %d)", k, row, csc.Rows)
		}
	}
	return nil
}

// Role names label which part of a triple a corruption error implicates;
// they double as the csc member suffixes in an archive.
const (
	RoleData    = "data"
	RoleIndices = "indices"
	RoleIndptr  = "indptr"
	RoleShape   = "shape"
)

func corrupt(role, format string, args ...any) error {
	return &model.StructuralCorruptionError{Member: role, Reason: fmt.Sprintf(format, args...)}
}
