package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/George-Ogden/pypianoroll/array"
	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/meta"
	"github.com/George-Ogden/pypianoroll/model"
	"github.com/George-Ogden/pypianoroll/sparse"
)

// Save writes a multitrack to a single archive at path. Every track is
// sparse-encoded before any file is touched, and the archive is staged
// into a temp file in the destination directory and committed with one
// rename, so a crash mid-write leaves any previous archive untouched
// and a failed save leaves no new file at all. compress selects deflate
// for the members; it never changes the logical content.
func Save(path string, m *model.Multitrack, compress bool) error {
	cscs := make([]model.CSCMatrix, len(m.Tracks))
	for i, track := range m.Tracks {
		csc, err := sparse.Encode(track.Pianoroll, track.DType, i)
		if err != nil {
			return err
		}
		cscs[i] = csc
	}
	infoDoc, err := meta.Assemble(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	staging := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	f, err := os.Create(staging)
	if err != nil {
		return errors.Wrapf(err, "could not create staging file in %q", dir)
	}

	if err := writeMembers(f, m, cscs, infoDoc, compress); err != nil {
		f.Close()
		os.Remove(staging)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(staging)
		return errors.Wrapf(err, "could not sync staging file for %q", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return errors.Wrapf(err, "could not close staging file for %q", path)
	}
	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)
		return errors.Wrapf(err, "could not commit archive to %q", path)
	}
	return nil
}

func writeMembers(f io.Writer, m *model.Multitrack, cscs []model.CSCMatrix, infoDoc []byte, compress bool) error {
	method := zip.Store
	if compress {
		method = zip.Deflate
	}

	zw := zip.NewWriter(f)
	addMember := func(name string, encode func(io.Writer) error) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return errors.Wrapf(err, "could not create member %q", name)
		}
		if err := encode(w); err != nil {
			return errors.Wrapf(err, "could not write member %q", name)
		}
		return nil
	}

	for i, csc := range cscs {
		csc := csc
		err := addMember(TrackMemberName(i, RoleData), func(w io.Writer) error {
			return array.WriteValues(w, csc.DType, csc.Data)
		})
		if err != nil {
			return err
		}
		err = addMember(TrackMemberName(i, RoleIndices), func(w io.Writer) error {
			return array.WriteValues(w, model.DTypeInt32, csc.Indices)
		})
		if err != nil {
			return err
		}
		err = addMember(TrackMemberName(i, RoleIndptr), func(w io.Writer) error {
			return array.WriteValues(w, model.DTypeInt32, csc.Indptr)
		})
		if err != nil {
			return err
		}
	}

	err := addMember(constants.TempoMember, func(w io.Writer) error {
		return array.WriteFloat64(w, m.Tempo)
	})
	if err != nil {
		return err
	}
	err = addMember(constants.DownbeatMember, func(w io.Writer) error {
		return array.WriteBool(w, m.Downbeat)
	})
	if err != nil {
		return err
	}
	err = addMember(constants.InfoMember, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(infoDoc))
		return err
	})
	if err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "could not finish archive")
	}
	return nil
}
