package model

import "fmt"

// NumPitches is the width of every piano-roll matrix: the full MIDI
// pitch range.
const NumPitches = 128

// Pianoroll is a dense time x pitch activity matrix stored row-major.
type Pianoroll struct {
	Rows int
	Cols int
	Data []int32
}

// NewPianoroll allocates a zero matrix of the given number of time steps
// and the standard 128 pitch columns.
func NewPianoroll(rows int) Pianoroll {
	return Pianoroll{
		Rows: rows,
		Cols: NumPitches,
		Data: make([]int32, rows*NumPitches),
	}
}

func (p Pianoroll) At(row, col int) int32 {
	return p.Data[row*p.Cols+col]
}

func (p *Pianoroll) Set(row, col int, v int32) {
	p.Data[row*p.Cols+col] = v
}

// Track is one instrument's piano roll plus its descriptive record.
type Track struct {
	Name      string
	Program   uint8
	IsDrum    bool
	DType     DType
	Pianoroll Pianoroll
}

// ActiveLength returns the number of time steps up to and including the
// last nonzero entry.
func (t Track) ActiveLength() int {
	p := t.Pianoroll
	for row := p.Rows - 1; row >= 0; row-- {
		for col := 0; col < p.Cols; col++ {
			if p.At(row, col) != 0 {
				return row + 1
			}
		}
	}
	return 0
}

// ActivePitchRange returns the lowest and highest pitch columns with
// any activity; ok is false for a silent track.
func (t Track) ActivePitchRange() (lowest, highest int, ok bool) {
	p := t.Pianoroll
	lowest, highest = p.Cols, -1
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			if p.At(row, col) != 0 {
				if col < lowest {
					lowest = col
				}
				if col > highest {
					highest = col
				}
			}
		}
	}
	if highest < 0 {
		return 0, 0, false
	}
	return lowest, highest, true
}

// IsBinarized reports whether every entry is 0 or 1.
func (t Track) IsBinarized() bool {
	for _, v := range t.Pianoroll.Data {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// Multitrack is the root in-memory structure the archive codec reads and
// writes. Tracks keep insertion order; the position of a track is its
// on-disk index.
type Multitrack struct {
	Resolution int
	Name       string
	Tempo      []float64
	Downbeat   []bool
	Tracks     []Track
}

// Config carries the defaults NewMultitrack fills in, so callers never
// depend on hidden package state.
type Config struct {
	Resolution int
	Tempo      float64
}

// NewMultitrack builds an empty multitrack of the given number of time
// steps, with a flat tempo curve and no downbeats.
func NewMultitrack(cfg Config, numSteps int) *Multitrack {
	tempo := make([]float64, numSteps)
	for i := range tempo {
		tempo[i] = cfg.Tempo
	}
	return &Multitrack{
		Resolution: cfg.Resolution,
		Tempo:      tempo,
		Downbeat:   make([]bool, numSteps),
	}
}

// ActivePitchRange returns the lowest and highest active pitch across
// all tracks; ok is false when every track is silent.
func (m *Multitrack) ActivePitchRange() (lowest, highest int, ok bool) {
	lowest, highest = NumPitches, -1
	for _, track := range m.Tracks {
		low, high, active := track.ActivePitchRange()
		if !active {
			continue
		}
		if low < lowest {
			lowest = low
		}
		if high > highest {
			highest = high
		}
	}
	if highest < 0 {
		return 0, 0, false
	}
	return lowest, highest, true
}

// EmptyTracks returns the indices of tracks whose piano rolls hold no
// notes at all.
func (m *Multitrack) EmptyTracks() []int {
	indices := []int{}
	for i, track := range m.Tracks {
		if track.ActiveLength() == 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

// MaxLength returns the longest track's row count in time steps.
func (m *Multitrack) MaxLength() int {
	var max int
	for _, track := range m.Tracks {
		if track.Pianoroll.Rows > max {
			max = track.Pianoroll.Rows
		}
	}
	return max
}

// CountDownbeat returns the number of time steps marked as downbeats.
func (m *Multitrack) CountDownbeat() int {
	var n int
	for _, d := range m.Downbeat {
		if d {
			n++
		}
	}
	return n
}

// Validate is the strict caller-level check: the archive format itself
// stays permissive about per-track lengths, this does not.
func (m *Multitrack) Validate() error {
	if m.Resolution < 1 {
		return fmt.Errorf("resolution must be a positive integer, got %d", m.Resolution)
	}
	for i, qpm := range m.Tempo {
		if qpm <= 0 {
			return fmt.Errorf("tempo[%d] must be positive, got %v", i, qpm)
		}
	}
	if len(m.Downbeat) != len(m.Tempo) {
		return fmt.Errorf("downbeat length %d does not match tempo length %d",
			len(m.Downbeat), len(m.Tempo))
	}
	for i, track := range m.Tracks {
		if track.Program > 127 {
			return fmt.Errorf("track %d: program %d out of range [0, 127]", i, track.Program)
		}
		if !PianorollDType(track.DType) {
			return fmt.Errorf("track %d: %v is not a piano-roll dtype", i, track.DType)
		}
		p := track.Pianoroll
		if p.Cols != NumPitches {
			return fmt.Errorf("track %d: pianoroll has %d columns, want %d", i, p.Cols, NumPitches)
		}
		if len(p.Data) != p.Rows*p.Cols {
			return fmt.Errorf("track %d: pianoroll data length %d does not match shape (%d, %d)",
				i, len(p.Data), p.Rows, p.Cols)
		}
	}
	return nil
}
