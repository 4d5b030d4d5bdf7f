package cmd

import (
	"archive/zip"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/archive"
	"github.com/George-Ogden/pypianoroll/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspects an archive",
	Long:  `Inspects an archive: members, sizes and the multitrack inside.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		panic("Couldn't open archive: " + err.Error())
	}
	for _, zf := range zr.File {
		fmt.Printf("member: %v (%v bytes compressed, %v raw)\n",
			zf.Name, zf.CompressedSize64, zf.UncompressedSize64)
	}
	zr.Close()

	m, err := archive.Load(path)
	if err != nil {
		panic("Couldn't load archive: " + err.Error())
	}

	fmt.Printf("name: %v\n", m.Name)
	fmt.Printf("resolution: %v\n", m.Resolution)
	fmt.Printf("steps: %v\n", len(m.Tempo))
	fmt.Printf("downbeats: %v\n", m.CountDownbeat())
	for i, track := range m.Tracks {
		notes := util.CountNonzero(track.Pianoroll.Data)
		fill := float64(notes) / float64(util.Max(len(track.Pianoroll.Data), 1))
		fmt.Printf("track %v: %q program=%v drum=%v dtype=%v steps=%v notes=%v fill=%.4f\n",
			i, track.Name, track.Program, track.IsDrum, track.DType,
			track.Pianoroll.Rows, notes, fill)
	}
}
