package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/archive"
	"github.com/George-Ogden/pypianoroll/store"
)

func init() {
	rootCmd.AddCommand(pushCmd)
}

var pushCmd = &cobra.Command{
	Use:   "push <archive> <bucket> [key]",
	Short: "Pushes an archive to S3",
	Long:  `Validates an archive and uploads it to an S3 bucket.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 || len(args) > 3 {
			panic("Need 2 or 3 args...")
		}
		path, bucket := args[0], args[1]
		key := filepath.Base(path)
		if len(args) == 3 {
			key = args[2]
		}
		push(path, bucket, key)
	},
}

func push(path, bucket, key string) {
	// never publish an archive that does not load
	if _, err := archive.Load(path); err != nil {
		panic("Refusing to push invalid archive: " + err.Error())
	}
	if err := store.Upload(path, bucket, key); err != nil {
		panic("Push failed: " + err.Error())
	}
	fmt.Printf("Pushed %v to s3://%v/%v\n", path, bucket, key)
}
