package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/archive"
	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/util"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Creates a report over a directory of archives.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir := constants.GetArchiveDir()
		if len(args) == 1 {
			dir = args[0]
		}
		report(dir)
	},
}

type archivesReport struct {
	numArchives int
	numInvalid  int
	numTracks   int
	numNotes    int
	numBytes    int64
	fills       []float64
}

func analyzeArchives(dir string) archivesReport {
	var report archivesReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		panic("Could not read dir because: " + err.Error())
	}

	for _, entry := range entries {
		filename := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(filename, constants.ArchiveExt) {
			continue
		}
		report.numArchives++

		path := filepath.Join(dir, filename)
		stats, err := os.Stat(path)
		if err != nil {
			panic("Could not get file stats")
		}
		report.numBytes += stats.Size()

		m, err := archive.Load(path)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", filename, err)
			report.numInvalid++
			continue
		}
		report.numTracks += len(m.Tracks)

		var notes, cells int
		for _, track := range m.Tracks {
			notes += util.CountNonzero(track.Pianoroll.Data)
			cells += len(track.Pianoroll.Data)
		}
		report.numNotes += notes
		if cells > 0 {
			report.fills = append(report.fills, float64(notes)/float64(cells))
		}
	}

	return report
}

func report(dir string) {
	r := analyzeArchives(dir)

	var avgFill float64
	for _, f := range r.fills {
		avgFill += f
	}
	if len(r.fills) > 0 {
		avgFill /= float64(len(r.fills))
	}

	fmt.Printf("report.numArchives: %v\n", r.numArchives)
	fmt.Printf("report.numInvalid: %v\n", r.numInvalid)
	fmt.Printf("report.numTracks: %v\n", r.numTracks)
	fmt.Printf("report.numNotes: %v\n", r.numNotes)
	fmt.Printf("report.numBytes: %v\n", r.numBytes)
	fmt.Printf("report.avgFill: %v\n", avgFill)
}
