package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/store"
)

func init() {
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull <bucket> <key> <dest>",
	Short: "Pulls an archive from S3",
	Long:  `Downloads an archive from an S3 bucket to a local path.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			panic("Need 3 args...")
		}
		if err := store.Download(args[0], args[1], args[2]); err != nil {
			panic("Pull failed: " + err.Error())
		}
		fmt.Printf("Pulled s3://%v/%v to %v\n", args[0], args[1], args[2])
	},
}
