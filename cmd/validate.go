package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/archive"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates an archive",
	Long:  `Validates an archive by loading it fully and reporting the first problem found.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		if !validate(args[0]) {
			os.Exit(1)
		}
	},
}

func validate(path string) bool {
	m, err := archive.Load(path)
	if err != nil {
		fmt.Printf("%v: INVALID: %v\n", path, err)
		return false
	}
	fmt.Printf("%v: OK (%v tracks, %v steps)\n", path, len(m.Tracks), len(m.Tempo))
	return true
}
