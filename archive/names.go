package archive

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/George-Ogden/pypianoroll/sparse"
)

// CSC member roles within one track triple, shared with the sparse
// codec's corruption labels.
const (
	RoleData    = sparse.RoleData
	RoleIndices = sparse.RoleIndices
	RoleIndptr  = sparse.RoleIndptr
)

var trackMemberPattern = regexp.MustCompile(`^pianoroll_(\d+)_csc_(data|indices|indptr)$`)

// TrackMemberName returns the archive member name for one CSC role of
// the i-th track.
func TrackMemberName(i int, role string) string {
	return fmt.Sprintf("pianoroll_%d_csc_%s", i, role)
}

// ParseTrackMemberName recovers the track index and role from a member
// name, reporting whether the name follows the convention at all.
func ParseTrackMemberName(name string) (i int, role string, ok bool) {
	groups := trackMemberPattern.FindStringSubmatch(name)
	if groups == nil {
		return 0, "", false
	}
	i, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, "", false
	}
	return i, groups[2], true
}
