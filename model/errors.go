package model

import "fmt"

// DataRangeError reports a piano-roll value that cannot be represented
// by the track's declared dtype.
type DataRangeError struct {
	Track int
	Value int32
	DType DType
}

func (e *DataRangeError) Error() string {
	return fmt.Sprintf("track %d: value %d does not fit in dtype %v", e.Track, e.Value, e.DType)
}

// SchemaError reports a required info-document field that is absent or
// cannot be decoded at all.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("info document: field %q %s", e.Field, e.Reason)
}

// ValidationError reports an info-document field that decoded fine but
// holds a semantically invalid value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("info document: field %q %s", e.Field, e.Reason)
}

// StructuralCorruptionError reports an internally inconsistent CSC
// triple or a damaged array member.
type StructuralCorruptionError struct {
	Member string
	Reason string
}

func (e *StructuralCorruptionError) Error() string {
	if e.Member == "" {
		return "corrupt sparse matrix: " + e.Reason
	}
	return fmt.Sprintf("corrupt member %q: %s", e.Member, e.Reason)
}

// TrackCountMismatchError reports an archive whose member triples do not
// match the info document's track records.
type TrackCountMismatchError struct {
	Members int
	Records int
}

func (e *TrackCountMismatchError) Error() string {
	return fmt.Sprintf("archive holds %d track member triples but info document lists %d tracks",
		e.Members, e.Records)
}

// IncompleteTrackError reports a track triple with a missing CSC role
// member.
type IncompleteTrackError struct {
	Track int
	Role  string
}

func (e *IncompleteTrackError) Error() string {
	return fmt.Sprintf("track %d: missing csc %s member", e.Track, e.Role)
}

// LengthMismatchError reports tempo and downbeat members of unequal
// length.
type LengthMismatchError struct {
	TempoLen    int
	DownbeatLen int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("tempo has %d steps but downbeat has %d", e.TempoLen, e.DownbeatLen)
}
