package constants

import "os"

// GetArchiveDir is the default directory the serve and report tooling
// scans for archives.
func GetArchiveDir() string {
	path := os.Getenv("ARCHIVE_PATH")
	if path != "" {
		return path
	}
	return "./archives"
}

// SchemaVersion is the current version tag written into every info
// document.
const SchemaVersion = 1

// Defaults for callers constructing a multitrack without an opinion.
const (
	DefaultResolution = 24
	DefaultTempo      = 120
)

// Fixed member names inside an archive. Per-track member names are
// produced by archive.TrackMemberName.
const (
	InfoMember     = "info"
	TempoMember    = "tempo"
	DownbeatMember = "downbeat"
)

// ArchiveExt is the conventional archive filename suffix.
const ArchiveExt = ".npz"
