package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/George-Ogden/pypianoroll/array"
	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/meta"
	"github.com/George-Ogden/pypianoroll/model"
	"github.com/George-Ogden/pypianoroll/sparse"
)

// Load reads an archive back into a multitrack. Validation runs before
// any track is constructed: the info document must parse, the member
// triples must match the track records one to one and each be complete
// and structurally sound, and tempo and downbeat must be present with
// equal length. Any failure aborts the whole load; no partial structure
// is ever returned.
func Load(path string) (*model.Multitrack, error) {
	members, err := readMembers(path)
	if err != nil {
		return nil, err
	}

	infoDoc, ok := members[constants.InfoMember]
	if !ok {
		return nil, &model.SchemaError{Field: "document", Reason: "member missing from archive"}
	}
	info, err := meta.Parse(infoDoc)
	if err != nil {
		return nil, err
	}

	if err := checkTrackMembers(members, len(info.Tracks)); err != nil {
		return nil, err
	}

	pianorolls := make([]model.Pianoroll, len(info.Tracks))
	for i, record := range info.Tracks {
		csc, err := readTriple(members, i, record)
		if err != nil {
			return nil, err
		}
		pianorolls[i], err = sparse.Decode(csc)
		if err != nil {
			return nil, labelCorruption(err, i)
		}
	}

	tempoRaw, ok := members[constants.TempoMember]
	if !ok {
		return nil, &model.StructuralCorruptionError{
			Member: constants.TempoMember, Reason: "member missing from archive",
		}
	}
	downbeatRaw, ok := members[constants.DownbeatMember]
	if !ok {
		return nil, &model.StructuralCorruptionError{
			Member: constants.DownbeatMember, Reason: "member missing from archive",
		}
	}
	tempo, err := array.ReadFloat64(bytes.NewReader(tempoRaw))
	if err != nil {
		return nil, &model.StructuralCorruptionError{Member: constants.TempoMember, Reason: err.Error()}
	}
	downbeat, err := array.ReadBool(bytes.NewReader(downbeatRaw))
	if err != nil {
		return nil, &model.StructuralCorruptionError{Member: constants.DownbeatMember, Reason: err.Error()}
	}
	if len(tempo) != len(downbeat) {
		return nil, &model.LengthMismatchError{TempoLen: len(tempo), DownbeatLen: len(downbeat)}
	}

	m := &model.Multitrack{
		Resolution: info.Resolution,
		Name:       info.Name,
		Tempo:      tempo,
		Downbeat:   downbeat,
		Tracks:     make([]model.Track, 0, len(info.Tracks)),
	}
	for i, record := range info.Tracks {
		m.Tracks = append(m.Tracks, model.Track{
			Name:      record.Name,
			Program:   record.Program,
			IsDrum:    record.IsDrum,
			DType:     record.DType,
			Pianoroll: pianorolls[i],
		})
	}
	return m, nil
}

func readMembers(path string) (map[string][]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open archive %q", path)
	}
	defer zr.Close()

	members := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "could not open member %q", zf.Name)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "could not read member %q", zf.Name)
		}
		members[zf.Name] = raw
	}
	return members, nil
}

// checkTrackMembers confirms the discoverable member triples line up
// one to one with the info document's track records.
func checkTrackMembers(members map[string][]byte, numRecords int) error {
	discovered := make(map[int]bool)
	for name := range members {
		if i, _, ok := ParseTrackMemberName(name); ok {
			discovered[i] = true
		}
	}
	if len(discovered) != numRecords {
		return &model.TrackCountMismatchError{Members: len(discovered), Records: numRecords}
	}
	for i := 0; i < numRecords; i++ {
		if !discovered[i] {
			return &model.TrackCountMismatchError{Members: len(discovered), Records: numRecords}
		}
	}
	return nil
}

func readTriple(members map[string][]byte, i int, record meta.TrackRecord) (model.CSCMatrix, error) {
	var blank model.CSCMatrix

	raw := make(map[string][]byte, 3)
	for _, role := range []string{RoleData, RoleIndices, RoleIndptr} {
		member, ok := members[TrackMemberName(i, role)]
		if !ok {
			return blank, &model.IncompleteTrackError{Track: i, Role: role}
		}
		raw[role] = member
	}

	data, err := array.ReadValues(bytes.NewReader(raw[RoleData]), record.DType)
	if err != nil {
		return blank, &model.StructuralCorruptionError{
			Member: TrackMemberName(i, RoleData), Reason: err.Error(),
		}
	}
	indices, err := array.ReadValues(bytes.NewReader(raw[RoleIndices]), model.DTypeInt32)
	if err != nil {
		return blank, &model.StructuralCorruptionError{
			Member: TrackMemberName(i, RoleIndices), Reason: err.Error(),
		}
	}
	indptr, err := array.ReadValues(bytes.NewReader(raw[RoleIndptr]), model.DTypeInt32)
	if err != nil {
		return blank, &model.StructuralCorruptionError{
			Member: TrackMemberName(i, RoleIndptr), Reason: err.Error(),
		}
	}

	return model.CSCMatrix{
		Data:    data,
		Indices: indices,
		Indptr:  indptr,
		Rows:    record.Rows,
		Cols:    record.Cols,
		DType:   record.DType,
	}, nil
}

// labelCorruption rewrites the role a sparse validation failure names
// into the archive member it implicates for track i. Shape problems
// trace back to the info document, not the triple members.
func labelCorruption(err error, i int) error {
	var corruption *model.StructuralCorruptionError
	if !errors.As(err, &corruption) {
		return err
	}
	switch corruption.Member {
	case RoleData, RoleIndices, RoleIndptr:
		corruption.Member = TrackMemberName(i, corruption.Member)
	case sparse.RoleShape:
		corruption.Member = constants.InfoMember
		corruption.Reason = fmt.Sprintf("tracks[%d] %s", i, corruption.Reason)
	}
	return err
}
