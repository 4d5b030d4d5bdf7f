// Package meta assembles and parses the info document: the structured
// text member holding everything about a multitrack that is not a
// numeric array. Tempo, downbeat and the piano rolls themselves are
// deliberately excluded; they travel as raw binary members.
package meta

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/model"
)

// TrackRecord is one track's descriptive state plus what the reader
// needs to rebuild its dense matrix from the CSC members.
type TrackRecord struct {
	Name    string
	Program uint8
	IsDrum  bool
	DType   model.DType
	Rows    int
	Cols    int
}

// Info is the parsed form of the document. Track record order matches
// the archive index of the member triples.
type Info struct {
	SchemaVersion int
	Resolution    int
	Name          string
	Tracks        []TrackRecord
}

type infoDoc struct {
	SchemaVersion int        `yaml:"schema_version"`
	Resolution    int        `yaml:"resolution"`
	Name          string     `yaml:"name,omitempty"`
	Tracks        []trackDoc `yaml:"tracks"`
}

type trackDoc struct {
	Name    string `yaml:"name"`
	Program int    `yaml:"program"`
	IsDrum  bool   `yaml:"is_drum"`
	DType   string `yaml:"dtype"`
	Shape   []int  `yaml:"shape,flow"`
}

// Assemble renders the info document for a multitrack.
func Assemble(m *model.Multitrack) ([]byte, error) {
	doc := infoDoc{
		SchemaVersion: constants.SchemaVersion,
		Resolution:    m.Resolution,
		Name:          m.Name,
		Tracks:        make([]trackDoc, 0, len(m.Tracks)),
	}
	for _, track := range m.Tracks {
		doc.Tracks = append(doc.Tracks, trackDoc{
			Name:    track.Name,
			Program: int(track.Program),
			IsDrum:  track.IsDrum,
			DType:   track.DType.String(),
			Shape:   []int{track.Pianoroll.Rows, track.Pianoroll.Cols},
		})
	}
	return yaml.Marshal(doc)
}

// rawInfo mirrors infoDoc with pointers so absent required fields are
// distinguishable from zero values. Unknown extra fields are ignored by
// the decoder, which is what keeps old readers working on newer
// documents.
type rawInfo struct {
	SchemaVersion *int        `yaml:"schema_version"`
	Resolution    *int        `yaml:"resolution"`
	Name          string      `yaml:"name"`
	Tracks        *[]rawTrack `yaml:"tracks"`
}

type rawTrack struct {
	Name    *string `yaml:"name"`
	Program *int    `yaml:"program"`
	IsDrum  *bool   `yaml:"is_drum"`
	DType   *string `yaml:"dtype"`
	Shape   []int   `yaml:"shape"`
}

// Parse decodes and validates an info document.
func Parse(doc []byte) (Info, error) {
	var blank Info

	var raw rawInfo
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return blank, &model.SchemaError{Field: "document", Reason: "is malformed: " + err.Error()}
	}

	if raw.SchemaVersion == nil {
		return blank, &model.SchemaError{Field: "schema_version", Reason: "is missing"}
	}
	if raw.Resolution == nil {
		return blank, &model.SchemaError{Field: "resolution", Reason: "is missing"}
	}
	if raw.Tracks == nil {
		return blank, &model.SchemaError{Field: "tracks", Reason: "is missing"}
	}
	if *raw.SchemaVersion < 1 || *raw.SchemaVersion > constants.SchemaVersion {
		return blank, &model.ValidationError{
			Field:  "schema_version",
			Reason: fmt.Sprintf("has unsupported value %d", *raw.SchemaVersion),
		}
	}
	if *raw.Resolution < 1 {
		return blank, &model.ValidationError{
			Field:  "resolution",
			Reason: fmt.Sprintf("must be positive, got %d", *raw.Resolution),
		}
	}

	info := Info{
		SchemaVersion: *raw.SchemaVersion,
		Resolution:    *raw.Resolution,
		Name:          raw.Name,
		Tracks:        make([]TrackRecord, 0, len(*raw.Tracks)),
	}
	for i, t := range *raw.Tracks {
		record, err := parseTrack(i, t)
		if err != nil {
			return blank, err
		}
		info.Tracks = append(info.Tracks, record)
	}
	return info, nil
}

func parseTrack(i int, t rawTrack) (TrackRecord, error) {
	var blank TrackRecord
	field := func(name string) string {
		return fmt.Sprintf("tracks[%d].%s", i, name)
	}

	if t.Name == nil {
		return blank, &model.SchemaError{Field: field("name"), Reason: "is missing"}
	}
	if t.Program == nil {
		return blank, &model.SchemaError{Field: field("program"), Reason: "is missing"}
	}
	if t.IsDrum == nil {
		return blank, &model.SchemaError{Field: field("is_drum"), Reason: "is missing"}
	}
	if t.DType == nil {
		return blank, &model.SchemaError{Field: field("dtype"), Reason: "is missing"}
	}
	if t.Shape == nil {
		return blank, &model.SchemaError{Field: field("shape"), Reason: "is missing"}
	}

	if *t.Program < 0 || *t.Program > 127 {
		return blank, &model.ValidationError{
			Field:  field("program"),
			Reason: fmt.Sprintf("%d out of range [0, 127]", *t.Program),
		}
	}
	dt, ok := model.ParseDType(*t.DType)
	if !ok || !model.PianorollDType(dt) {
		return blank, &model.ValidationError{
			Field:  field("dtype"),
			Reason: fmt.Sprintf("has unknown value %q", *t.DType),
		}
	}
	if len(t.Shape) != 2 || t.Shape[0] < 0 || t.Shape[1] < 0 {
		return blank, &model.ValidationError{
			Field:  field("shape"),
			Reason: fmt.Sprintf("must be two non-negative dimensions, got %v", t.Shape),
		}
	}

	return TrackRecord{
		Name:    *t.Name,
		Program: uint8(*t.Program),
		IsDrum:  *t.IsDrum,
		DType:   dt,
		Rows:    t.Shape[0],
		Cols:    t.Shape[1],
	}, nil
}
