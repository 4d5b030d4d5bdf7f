package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <archive>",
	Short: "Watches an archive",
	Long:  `Re-validates an archive whenever it changes, for iterating on generators that rewrite it.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		watch(args[0])
	},
}

func watch(path string) {
	fmt.Printf("Watching %v\n", path)
	validate(path)

	// rewrites land as a rename, so polling mtime is enough; debounce
	// soaks up generators that commit several times in a row
	debounced := debounce.New(500 * time.Millisecond)
	var last time.Time
	if stats, err := os.Stat(path); err == nil {
		last = stats.ModTime()
	}
	for {
		time.Sleep(200 * time.Millisecond)
		stats, err := os.Stat(path)
		if err != nil {
			continue
		}
		if modified := stats.ModTime(); modified != last {
			last = modified
			debounced(func() { validate(path) })
		}
	}
}
