package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/George-Ogden/pypianoroll/array"
	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/model"
)

func sampleMultitrack() *model.Multitrack {
	melody := model.Track{
		Name:      "melody",
		Program:   25,
		DType:     model.DTypeUint8,
		Pianoroll: model.NewPianoroll(96),
	}
	melody.Pianoroll.Set(0, 60, 100)
	melody.Pianoroll.Set(24, 64, 90)
	melody.Pianoroll.Set(95, 72, 1)

	drums := model.Track{
		Name:      "drums",
		IsDrum:    true,
		DType:     model.DTypeBool,
		Pianoroll: model.NewPianoroll(48),
	}
	drums.Pianoroll.Set(0, 36, 1)
	drums.Pianoroll.Set(12, 42, 1)

	loud := model.Track{
		Name:      "loud",
		Program:   80,
		DType:     model.DTypeInt16,
		Pianoroll: model.NewPianoroll(96),
	}
	loud.Pianoroll.Set(3, 30, 20000)

	tempo := make([]float64, 96)
	downbeat := make([]bool, 96)
	for i := range tempo {
		tempo[i] = 120.5
		downbeat[i] = i%24 == 0
	}

	return &model.Multitrack{
		Resolution: 24,
		Name:       "demo",
		Tempo:      tempo,
		Downbeat:   downbeat,
		Tracks:     []model.Track{melody, drums, loud},
	}
}

func assertEqualMultitracks(t *testing.T, want, got *model.Multitrack) {
	t.Helper()
	assert.Equal(t, want.Resolution, got.Resolution)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Tempo, got.Tempo)
	assert.Equal(t, want.Downbeat, got.Downbeat)
	require.Equal(t, len(want.Tracks), len(got.Tracks))
	for i := range want.Tracks {
		assert.Equal(t, want.Tracks[i], got.Tracks[i])
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, compress := range []bool{true, false} {
		name := "compressed"
		if !compress {
			name = "stored"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "demo"+constants.ArchiveExt)
			m := sampleMultitrack()

			require.NoError(t, Save(path, m, compress))

			got, err := Load(path)
			require.NoError(t, err)
			assertEqualMultitracks(t, m, got)
		})
	}
}

func TestZeroTrackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty"+constants.ArchiveExt)
	m := &model.Multitrack{
		Resolution: 4,
		Tempo:      []float64{100, 100, 101},
		Downbeat:   []bool{true, false, false},
	}

	require.NoError(t, Save(path, m, true))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got.Tracks)
	assert.Equal(t, m.Resolution, got.Resolution)
	assert.Equal(t, m.Tempo, got.Tempo)
	assert.Equal(t, m.Downbeat, got.Downbeat)
}

func TestBoolTrackKeepsDType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bool"+constants.ArchiveExt)
	track := model.Track{Name: "hits", DType: model.DTypeBool, Pianoroll: model.NewPianoroll(8)}
	track.Pianoroll.Set(2, 40, 1)
	m := &model.Multitrack{Resolution: 2, Tracks: []model.Track{track}}

	require.NoError(t, Save(path, m, true))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, model.DTypeBool, got.Tracks[0].DType)
}

func TestMemberNameConvention(t *testing.T) {
	assert.Equal(t, "pianoroll_2_csc_indptr", TrackMemberName(2, RoleIndptr))

	i, role, ok := ParseTrackMemberName("pianoroll_13_csc_data")
	assert.True(t, ok)
	assert.Equal(t, 13, i)
	assert.Equal(t, RoleData, role)

	_, _, ok = ParseTrackMemberName("pianoroll_13_csc_bogus")
	assert.False(t, ok)
	_, _, ok = ParseTrackMemberName("tempo")
	assert.False(t, ok)
}

// rewriteArchive rebuilds the zip at path, letting the mutation replace
// (or drop) each member's raw bytes.
func rewriteArchive(t *testing.T, path string, mutate func(name string, raw []byte) ([]byte, bool)) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		raw := new(bytes.Buffer)
		_, err = raw.ReadFrom(rc)
		require.NoError(t, err)
		rc.Close()

		newRaw, keep := mutate(zf.Name, raw.Bytes())
		if !keep {
			continue
		}
		w, err := zw.Create(zf.Name)
		require.NoError(t, err)
		_, err = w.Write(newRaw)
		require.NoError(t, err)
	}
	require.NoError(t, zr.Close())
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func savedSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo"+constants.ArchiveExt)
	require.NoError(t, Save(path, sampleMultitrack(), true))
	return path
}

func TestLoadRejectsWrongIndptrLength(t *testing.T) {
	path := savedSample(t)

	var bogus bytes.Buffer
	require.NoError(t, array.WriteValues(&bogus, model.DTypeInt32, make([]int32, 5)))
	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == TrackMemberName(1, RoleIndptr) {
			return bogus.Bytes(), true
		}
		return raw, true
	})

	got, err := Load(path)
	assert.Nil(t, got)
	var corruption *model.StructuralCorruptionError
	assert.ErrorAs(t, err, &corruption)
	assert.Equal(t, TrackMemberName(1, RoleIndptr), corruption.Member)
}

func TestLoadRejectsImplausibleInfoShape(t *testing.T) {
	path := savedSample(t)

	// the first [96, 128] shape belongs to track 0
	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == constants.InfoMember {
			return bytes.Replace(raw, []byte("[96, 128]"), []byte("[72057594037927936, 128]"), 1), true
		}
		return raw, true
	})

	got, err := Load(path)
	assert.Nil(t, got)
	var corruption *model.StructuralCorruptionError
	assert.ErrorAs(t, err, &corruption)
	assert.Equal(t, constants.InfoMember, corruption.Member)
	assert.Contains(t, corruption.Reason, "tracks[0]")
}

func TestLoadLabelsCorruptIndicesMember(t *testing.T) {
	path := savedSample(t)

	// same entry count as the real member, but a row outside the matrix
	var bogus bytes.Buffer
	require.NoError(t, array.WriteValues(&bogus, model.DTypeInt32, []int32{0, 1, 200}))
	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == TrackMemberName(0, RoleIndices) {
			return bogus.Bytes(), true
		}
		return raw, true
	})

	_, err := Load(path)
	var corruption *model.StructuralCorruptionError
	assert.ErrorAs(t, err, &corruption)
	assert.Equal(t, TrackMemberName(0, RoleIndices), corruption.Member)
}

func TestLoadRejectsTruncatedMember(t *testing.T) {
	path := savedSample(t)

	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == TrackMemberName(0, RoleData) {
			return raw[:len(raw)-1], true
		}
		return raw, true
	})

	_, err := Load(path)
	var corruption *model.StructuralCorruptionError
	assert.ErrorAs(t, err, &corruption)
	assert.Equal(t, TrackMemberName(0, RoleData), corruption.Member)
}

func TestLoadRejectsTrackCountMismatch(t *testing.T) {
	path := savedSample(t)

	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		i, _, ok := ParseTrackMemberName(name)
		return raw, !(ok && i == 2)
	})

	_, err := Load(path)
	var mismatch *model.TrackCountMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Members)
	assert.Equal(t, 3, mismatch.Records)
}

func TestLoadRejectsMissingRoleMember(t *testing.T) {
	path := savedSample(t)

	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		return raw, name != TrackMemberName(1, RoleIndices)
	})

	_, err := Load(path)
	var incomplete *model.IncompleteTrackError
	assert.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.Track)
	assert.Equal(t, RoleIndices, incomplete.Role)
}

func TestLoadRejectsTempoDownbeatLengthMismatch(t *testing.T) {
	path := savedSample(t)

	var short bytes.Buffer
	require.NoError(t, array.WriteBool(&short, []bool{true}))
	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == constants.DownbeatMember {
			return short.Bytes(), true
		}
		return raw, true
	})

	_, err := Load(path)
	var mismatch *model.LengthMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 96, mismatch.TempoLen)
	assert.Equal(t, 1, mismatch.DownbeatLen)
}

func TestLoadRejectsMissingInfo(t *testing.T) {
	path := savedSample(t)

	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		return raw, name != constants.InfoMember
	})

	_, err := Load(path)
	var schemaErr *model.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestLoadIgnoresUnknownInfoFields(t *testing.T) {
	path := savedSample(t)

	rewriteArchive(t, path, func(name string, raw []byte) ([]byte, bool) {
		if name == constants.InfoMember {
			return append(raw, []byte("future_field: 7\n")...), true
		}
		return raw, true
	})

	got, err := Load(path)
	assert.NoError(t, err)
	assertEqualMultitracks(t, sampleMultitrack(), got)
}

func TestFailedSaveLeavesExistingArchiveUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo"+constants.ArchiveExt)
	require.NoError(t, Save(path, sampleMultitrack(), true))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// value 300 cannot be a uint8, so this save must fail
	bad := sampleMultitrack()
	bad.Tracks[0].Pianoroll.Set(0, 0, 300)
	err = Save(path, bad, true)
	var rangeErr *model.DataRangeError
	assert.ErrorAs(t, err, &rangeErr)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFailedSaveWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new"+constants.ArchiveExt)

	bad := sampleMultitrack()
	bad.Tracks[2].Pianoroll.Set(0, 0, 100000)
	err := Save(path, bad, true)
	var rangeErr *model.DataRangeError
	assert.ErrorAs(t, err, &rangeErr)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveToMissingDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "demo"+constants.ArchiveExt)
	err := Save(path, sampleMultitrack(), true)
	assert.Error(t, err)
}

func TestPermissiveTrackLengths(t *testing.T) {
	// tracks may disagree with tempo length and with each other
	path := filepath.Join(t.TempDir(), "loose"+constants.ArchiveExt)
	m := sampleMultitrack()
	m.Tempo = m.Tempo[:10]
	m.Downbeat = m.Downbeat[:10]

	require.NoError(t, Save(path, m, true))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 96, got.Tracks[0].Pianoroll.Rows)
	assert.Equal(t, 48, got.Tracks[1].Pianoroll.Rows)
	assert.Len(t, got.Tempo, 10)
}
