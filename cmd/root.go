package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pypianoroll",
	Short: "Multitrack piano-roll archive tool",
	Long:  `Inspect, validate and move multitrack piano-roll archives.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
