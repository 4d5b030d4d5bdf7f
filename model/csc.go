package model

// CSCMatrix is the compressed-sparse-column form of one piano roll,
// produced fresh for every save and discarded once written. Data holds
// the nonzero values in column-major order, Indices the row of each
// value, and Indptr[j]..Indptr[j+1] delimit column j's slice of both.
type CSCMatrix struct {
	Data    []int32
	Indices []int32
	Indptr  []int32
	Rows    int
	Cols    int
	DType   DType
}

// NNZ returns the number of stored nonzero entries.
func (c CSCMatrix) NNZ() int {
	return len(c.Data)
}
